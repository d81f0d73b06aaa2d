package slack

import (
	"fmt"
	"strings"

	"github.com/ricardonunez-io/reviewlens/internal/aggregator"
	"github.com/ricardonunez-io/reviewlens/internal/analyzer"
	"github.com/ricardonunez-io/reviewlens/internal/pipeline"
	"github.com/rs/zerolog/log"
	"github.com/slack-go/slack"
)

type Config struct {
	BotToken  string
	ChannelID string
	// APIURL overrides the Slack endpoint; empty uses the default.
	APIURL string
}

func (c Config) Enabled() bool {
	return c.BotToken != "" && c.ChannelID != ""
}

type Notifier struct {
	config Config
	api    *slack.Client
}

func New(config Config) *Notifier {
	var opts []slack.Option
	if config.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(config.APIURL))
	}
	return &Notifier{config: config, api: slack.New(config.BotToken, opts...)}
}

func (n *Notifier) SendReport(report pipeline.Report) error {
	_, msgTimestamp, err := n.api.PostMessage(
		n.config.ChannelID,
		slack.MsgOptionBlocks(Blocks(report)...),
		slack.MsgOptionText(fallbackText(report), false),
	)
	if err != nil {
		log.Err(err).Str("channel", n.config.ChannelID).Msg("Failed to post Slack message")
		return err
	}

	log.Info().
		Str("channel", n.config.ChannelID).
		Str("timestamp", msgTimestamp).
		Msg("Report posted to Slack")
	return nil
}

func Blocks(report pipeline.Report) []slack.Block {
	title := "Review Analysis"
	if report.SpreadsheetTitle != "" {
		title = fmt.Sprintf("Review Analysis: %s", report.SpreadsheetTitle)
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", title, false, false)),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn",
				fmt.Sprintf("*Reviews analyzed:* %d\n*Blank rows skipped:* %d", report.Analyzed, report.Skipped),
				false, false),
			nil, nil,
		),
	}

	lines := make([]string, 0, len(analyzer.Sentiments))
	for _, s := range report.Breakdown.Slices() {
		lines = append(lines, fmt.Sprintf("%s *%s:* %d (%.1f%%)", sentimentToEmoji(s.Label), s.Label, s.Count, s.Percent))
	}
	blocks = append(blocks, slack.NewSectionBlock(
		slack.NewTextBlockObject("mrkdwn",
			fmt.Sprintf("*Sentiment Breakdown:*\n%s\n*Overall:* %s", strings.Join(lines, "\n"), overall(report.Breakdown)),
			false, false),
		nil, nil,
	))

	if len(report.Complaints) > 0 {
		points := make([]string, len(report.Complaints))
		for i, c := range report.Complaints {
			points[i] = fmt.Sprintf("• %s (×%d)", c.Samples[0], c.Count)
		}
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject("mrkdwn",
				fmt.Sprintf("*Recurring Complaints:*\n%s", strings.Join(points, "\n")),
				false, false),
			nil, nil,
		))
	}

	if report.ChartURL != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("mrkdwn",
				fmt.Sprintf("<%s|Sentiment chart>", report.ChartURL),
				false, false),
		))
	}

	return blocks
}

func overall(b aggregator.Breakdown) string {
	if b.Total == 0 {
		return "no reviews"
	}
	return string(b.Dominant())
}

func fallbackText(report pipeline.Report) string {
	b := report.Breakdown
	return fmt.Sprintf("Review analysis: %d positive, %d neutral, %d negative",
		b.Counts[analyzer.Positive], b.Counts[analyzer.Neutral], b.Counts[analyzer.Negative])
}

func sentimentToEmoji(s analyzer.Sentiment) string {
	switch s {
	case analyzer.Positive:
		return "🟢"
	case analyzer.Negative:
		return "🔴"
	default:
		return "⚪"
	}
}
