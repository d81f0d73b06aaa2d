package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type reply struct {
	text string
	err  error
}

type scriptedCompleter struct {
	replies  []reply
	requests []Request
}

func (s *scriptedCompleter) Complete(_ context.Context, req Request) (string, error) {
	s.requests = append(s.requests, req)
	if len(s.replies) == 0 {
		return "", errors.New("no scripted reply left")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.text, r.err
}

type sleepRecorder struct {
	waits []time.Duration
}

func (r *sleepRecorder) sleep(d time.Duration) { r.waits = append(r.waits, d) }

func newTestAnalyzer(t *testing.T, cfg Config, c Completer, rec *sleepRecorder) *Analyzer {
	t.Helper()
	a, err := New(cfg, c, WithSleep(rec.sleep))
	if err != nil {
		t.Fatalf("New: unexpected error %v", err)
	}
	return a
}

func rateLimited() error {
	return errors.Join(ErrRateLimited, errors.New("429 Too Many Requests"))
}

func TestNew_MissingAPIKey(t *testing.T) {
	c := &scriptedCompleter{}
	_, err := New(DefaultConfig(""), c)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("New without key: got %v, want ErrMissingAPIKey", err)
	}
	if len(c.requests) != 0 {
		t.Errorf("New without key should not call the service, got %d calls", len(c.requests))
	}
}

func TestNew_BlankAPIKey(t *testing.T) {
	_, err := New(DefaultConfig("   "), &scriptedCompleter{})
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("New with blank key: got %v, want ErrMissingAPIKey", err)
	}
}

func TestAnalyze_Chat(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{
		{text: "**Label:** Positive\n**Summary:** This product is amazing!"},
	}}
	rec := &sleepRecorder{}
	a := newTestAnalyzer(t, DefaultConfig("key"), c, rec)

	got, err := a.Analyze(context.Background(), "I loved this product!")
	if err != nil {
		t.Fatalf("Analyze: unexpected error %v", err)
	}
	if got.Sentiment != Positive {
		t.Errorf("sentiment: got %s, want Positive", got.Sentiment)
	}
	if got.Summary != "This product is amazing!" {
		t.Errorf("summary: got %q, want %q", got.Summary, "This product is amazing!")
	}
	if len(rec.waits) != 0 {
		t.Errorf("waits: got %d, want 0", len(rec.waits))
	}
}

func TestAnalyze_ChatRequestSettings(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{{text: "**Label:** Neutral\n**Summary:** Fine."}}}
	a := newTestAnalyzer(t, DefaultConfig("key"), c, &sleepRecorder{})

	if _, err := a.Analyze(context.Background(), "It arrived."); err != nil {
		t.Fatalf("Analyze: unexpected error %v", err)
	}
	if len(c.requests) != 1 {
		t.Fatalf("requests: got %d, want 1", len(c.requests))
	}
	req := c.requests[0]
	if req.Temperature != 0.3 {
		t.Errorf("temperature: got %v, want 0.3", req.Temperature)
	}
	if req.Model == "" {
		t.Error("model should be set on every request")
	}
	if !strings.Contains(req.Prompt, "Review: It arrived.") {
		t.Errorf("prompt should embed the review, got %q", req.Prompt)
	}
	if req.Schema != nil {
		t.Error("chat requests should not ask for structured output")
	}
}

func TestAnalyze_RateLimitOnceThenSuccess(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{
		{err: rateLimited()},
		{text: "**Label:** Negative\n**Summary:** Broke after a day."},
	}}
	rec := &sleepRecorder{}
	a := newTestAnalyzer(t, DefaultConfig("key"), c, rec)

	got, err := a.Analyze(context.Background(), "It broke.")
	if err != nil {
		t.Fatalf("Analyze: unexpected error %v", err)
	}
	if got.Sentiment != Negative {
		t.Errorf("sentiment: got %s, want Negative", got.Sentiment)
	}
	if len(rec.waits) != 1 {
		t.Fatalf("waits: got %d, want 1", len(rec.waits))
	}
	if rec.waits[0] != 60*time.Second {
		t.Errorf("wait: got %v, want 60s", rec.waits[0])
	}
	if len(c.requests) != 2 || c.requests[0].Prompt != c.requests[1].Prompt {
		t.Error("retry should resubmit the same request")
	}
}

func TestAnalyze_RateLimitTwiceThenSuccess(t *testing.T) {
	c := &scriptedCompleter{replies: []reply{
		{err: rateLimited()},
		{err: rateLimited()},
		{text: "**Label:** Positive\n**Summary:** Great."},
	}}
	rec := &sleepRecorder{}
	a := newTestAnalyzer(t, DefaultConfig("key"), c, rec)

	if _, err := a.Analyze(context.Background(), "Great."); err != nil {
		t.Fatalf("Analyze: unexpected error %v", err)
	}
	if len(rec.waits) != 2 {
		t.Errorf("waits: got %d, want 2", len(rec.waits))
	}
}

func TestAnalyze_ServiceErrorPropagates(t *testing.T) {
	boom := errors.New("500 internal error")
	c := &scriptedCompleter{replies: []reply{{err: boom}}}
	rec := &sleepRecorder{}
	a := newTestAnalyzer(t, DefaultConfig("key"), c, rec)

	_, err := a.Analyze(context.Background(), "Hmm.")
	if !errors.Is(err, boom) {
		t.Errorf("Analyze: got %v, want wrapped %v", err, boom)
	}
	if len(rec.waits) != 0 {
		t.Errorf("waits: got %d, want 0", len(rec.waits))
	}
}

func TestAnalyze_ServiceErrorDegraded(t *testing.T) {
	cfg := DefaultConfig("key")
	cfg.Policy = PolicyDegrade
	c := &scriptedCompleter{replies: []reply{{err: errors.New("500")}}}
	a := newTestAnalyzer(t, cfg, c, &sleepRecorder{})

	got, err := a.Analyze(context.Background(), "Hmm.")
	if err != nil {
		t.Fatalf("Analyze degraded: unexpected error %v", err)
	}
	if got.Sentiment != Neutral || got.Summary != "" {
		t.Errorf("degraded result: got %+v, want Neutral and empty summary", got)
	}
}

func TestAnalyze_Classify(t *testing.T) {
	cfg := DefaultConfig("key")
	cfg.Strategy = StrategyClassify
	c := &scriptedCompleter{replies: []reply{
		{text: `{"prediction":"Positive"}`},
		{text: "  This product is amazing!\n"},
	}}
	a := newTestAnalyzer(t, cfg, c, &sleepRecorder{})

	got, err := a.Analyze(context.Background(), "I loved this product!")
	if err != nil {
		t.Fatalf("Analyze: unexpected error %v", err)
	}
	if got.Sentiment != Positive {
		t.Errorf("sentiment: got %s, want Positive", got.Sentiment)
	}
	if got.Summary != "This product is amazing!" {
		t.Errorf("summary: got %q", got.Summary)
	}
	if len(c.requests) != 2 {
		t.Fatalf("requests: got %d, want 2", len(c.requests))
	}
	if c.requests[0].Schema == nil {
		t.Error("classification request should carry an output schema")
	}
	if c.requests[1].Schema != nil {
		t.Error("summary request should be free text")
	}
}

func TestAnalyze_ClassifyRetriesEachCall(t *testing.T) {
	cfg := DefaultConfig("key")
	cfg.Strategy = StrategyClassify
	c := &scriptedCompleter{replies: []reply{
		{err: rateLimited()},
		{text: `{"prediction":"Neutral"}`},
		{err: rateLimited()},
		{text: "It was okay."},
	}}
	rec := &sleepRecorder{}
	a := newTestAnalyzer(t, cfg, c, rec)

	got, err := a.Analyze(context.Background(), "It was okay.")
	if err != nil {
		t.Fatalf("Analyze: unexpected error %v", err)
	}
	if got.Sentiment != Neutral || got.Summary != "It was okay." {
		t.Errorf("result: got %+v", got)
	}
	if len(rec.waits) != 2 {
		t.Fatalf("waits: got %d, want 2", len(rec.waits))
	}
	for _, w := range rec.waits {
		if w != 60*time.Second {
			t.Errorf("wait: got %v, want 60s", w)
		}
	}
}

func TestAnalyze_ClassifyMalformedPrediction(t *testing.T) {
	cfg := DefaultConfig("key")
	cfg.Strategy = StrategyClassify
	c := &scriptedCompleter{replies: []reply{
		{text: "not json"},
		{text: "Meh."},
	}}
	a := newTestAnalyzer(t, cfg, c, &sleepRecorder{})

	got, err := a.Analyze(context.Background(), "Meh.")
	if err != nil {
		t.Fatalf("Analyze: unexpected error %v", err)
	}
	if got.Sentiment != Neutral {
		t.Errorf("sentiment: got %s, want Neutral", got.Sentiment)
	}
}

func TestAnalyze_ClassifyDegradedSummary(t *testing.T) {
	cfg := DefaultConfig("key")
	cfg.Strategy = StrategyClassify
	cfg.Policy = PolicyDegrade
	c := &scriptedCompleter{replies: []reply{
		{text: `{"prediction":"Negative"}`},
		{err: errors.New("503")},
	}}
	a := newTestAnalyzer(t, cfg, c, &sleepRecorder{})

	got, err := a.Analyze(context.Background(), "Terrible.")
	if err != nil {
		t.Fatalf("Analyze: unexpected error %v", err)
	}
	if got.Sentiment != Negative || got.Summary != "" {
		t.Errorf("result: got %+v, want Negative with empty summary", got)
	}
}

func TestClassificationSchema_HasPrediction(t *testing.T) {
	props, ok := classificationSchema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("schema properties missing: %v", classificationSchema)
	}
	if _, ok := props["prediction"]; !ok {
		t.Error("schema should describe the prediction field")
	}
}

func TestParseStrategy(t *testing.T) {
	if s, ok := ParseStrategy("CLASSIFY"); !ok || s != StrategyClassify {
		t.Errorf("ParseStrategy CLASSIFY: got %s %v", s, ok)
	}
	if s, ok := ParseStrategy("bogus"); ok || s != StrategyChat {
		t.Errorf("ParseStrategy bogus: got %s %v, want chat false", s, ok)
	}
}

func TestParsePolicy(t *testing.T) {
	if p, ok := ParsePolicy("degrade"); !ok || p != PolicyDegrade {
		t.Errorf("ParsePolicy degrade: got %s %v", p, ok)
	}
	if p, ok := ParsePolicy(""); ok || p != PolicyPropagate {
		t.Errorf("ParsePolicy empty: got %s %v, want propagate false", p, ok)
	}
}
