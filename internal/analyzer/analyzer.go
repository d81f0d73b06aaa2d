package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/ricardonunez-io/reviewlens/internal/retry"
	"github.com/rs/zerolog/log"
)

type Analyzer struct {
	cfg       Config
	completer Completer
	retry     retry.Policy
}

type Option func(*Analyzer)

// WithSleep replaces the blocking sleep used during rate-limit backoff.
func WithSleep(sleep func(time.Duration)) Option {
	return func(a *Analyzer) {
		a.retry.Sleep = sleep
	}
}

func New(cfg Config, completer Completer, opts ...Option) (*Analyzer, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if completer == nil {
		return nil, errors.New("analyzer requires a completer")
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = RateLimitCooldown
	}

	a := &Analyzer{
		cfg:       cfg,
		completer: completer,
		retry: retry.Fixed(cfg.Cooldown, func(err error) bool {
			return errors.Is(err, ErrRateLimited)
		}),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Analyzer) Analyze(ctx context.Context, text string) (Result, error) {
	var (
		result Result
		err    error
	)

	switch a.cfg.Strategy {
	case StrategyClassify:
		result, err = a.classifyAndSummarize(ctx, text)
	default:
		result, err = a.chat(ctx, text)
	}
	if err != nil {
		return Result{}, err
	}

	log.Info().
		Str("sentiment", string(result.Sentiment)).
		Str("summary", result.Summary).
		Msg("Analyzed review")
	return result, nil
}

func (a *Analyzer) chat(ctx context.Context, text string) (Result, error) {
	response, err := a.complete(ctx, Request{Prompt: chatPrompt(text)})
	if err != nil {
		if a.degraded(err, "analysis") {
			return Result{Sentiment: Neutral}, nil
		}
		return Result{}, fmt.Errorf("analyze review: %w", err)
	}
	return ParseResponse(response), nil
}

type classification struct {
	Prediction string `json:"prediction" jsonschema:"enum=Positive,enum=Neutral,enum=Negative,description=Sentiment of the review"`
}

var classificationSchema = generateSchema(&classification{})

func (a *Analyzer) classifyAndSummarize(ctx context.Context, text string) (Result, error) {
	result := Result{Sentiment: Neutral}

	response, err := a.complete(ctx, Request{
		Prompt: classifyPrompt(text),
		Schema: classificationSchema,
	})
	switch {
	case err == nil:
		result.Sentiment = parseClassification(response)
	case !a.degraded(err, "classification"):
		return Result{}, fmt.Errorf("classify review: %w", err)
	}

	summary, err := a.complete(ctx, Request{Prompt: summaryPrompt(text)})
	switch {
	case err == nil:
		result.Summary = strings.TrimSpace(summary)
	case !a.degraded(err, "summarization"):
		return Result{}, fmt.Errorf("summarize review: %w", err)
	}

	return result, nil
}

func parseClassification(response string) Sentiment {
	var c classification
	if err := json.Unmarshal([]byte(strings.TrimSpace(response)), &c); err != nil {
		log.Warn().Err(err).Msg("Unparseable classification, defaulting to Neutral")
		return Neutral
	}
	return ParseSentiment(c.Prediction)
}

// complete fills in the generation settings and applies the rate-limit
// retry policy to a single remote call.
func (a *Analyzer) complete(ctx context.Context, req Request) (string, error) {
	req.Model = a.cfg.Model
	req.Temperature = a.cfg.Temperature
	req.MaxTokens = a.cfg.MaxTokens

	var text string
	err := retry.Do(ctx, a.retry, func(ctx context.Context) error {
		t, err := a.completer.Complete(ctx, req)
		if err != nil {
			return err
		}
		text = t
		return nil
	})
	return text, err
}

func (a *Analyzer) degraded(err error, step string) bool {
	if a.cfg.Policy != PolicyDegrade {
		return false
	}
	log.Err(err).Str("step", step).Msg("Remote call failed, using default result")
	return true
}

func generateSchema(v any) map[string]any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	s := r.Reflect(v)
	b, _ := json.Marshal(s)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}
