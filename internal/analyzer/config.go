package analyzer

import (
	"strings"
	"time"
)

type Strategy string

const (
	// StrategyChat asks for label and summary in one free-text completion.
	StrategyChat Strategy = "chat"
	// StrategyClassify makes a structured classification call followed by a
	// separate summary call.
	StrategyClassify Strategy = "classify"
)

type Policy string

const (
	PolicyPropagate Policy = "propagate"
	PolicyDegrade   Policy = "degrade"
)

const RateLimitCooldown = 60 * time.Second

type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int64
	Strategy    Strategy
	Policy      Policy
	Cooldown    time.Duration
}

func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:      apiKey,
		Model:       "claude-sonnet-4-5",
		Temperature: 0.3,
		MaxTokens:   256,
		Strategy:    StrategyChat,
		Policy:      PolicyPropagate,
		Cooldown:    RateLimitCooldown,
	}
}

var ValidStrategies = []Strategy{StrategyChat, StrategyClassify}
var ValidPolicies = []Policy{PolicyPropagate, PolicyDegrade}

func ParseStrategy(input string) (Strategy, bool) {
	for _, s := range ValidStrategies {
		if strings.EqualFold(input, string(s)) {
			return s, true
		}
	}
	return StrategyChat, false
}

func ParsePolicy(input string) (Policy, bool) {
	for _, p := range ValidPolicies {
		if strings.EqualFold(input, string(p)) {
			return p, true
		}
	}
	return PolicyPropagate, false
}
