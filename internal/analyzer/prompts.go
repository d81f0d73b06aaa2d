package analyzer

import "fmt"

const chatPromptTemplate = `You are a sentiment analysis and summarization assistant. Given the review below, respond with sentiment classification (Positive, Neutral, or Negative) and provide a one-sentence summary.

Review: %s

Format your response like this:
**Label:** <Positive/Neutral/Negative>
**Summary:** <Summary here>`

const classifyPromptTemplate = `Classify the sentiment of the customer review below as exactly one of Positive, Neutral, or Negative.

Review: %s`

const summaryPromptTemplate = `Summarize the customer review below in one sentence. Respond with the sentence only.

Review: %s`

func chatPrompt(review string) string {
	return fmt.Sprintf(chatPromptTemplate, review)
}

func classifyPrompt(review string) string {
	return fmt.Sprintf(classifyPromptTemplate, review)
}

func summaryPrompt(review string) string {
	return fmt.Sprintf(summaryPromptTemplate, review)
}
