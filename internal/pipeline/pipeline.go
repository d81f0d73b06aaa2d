package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/ricardonunez-io/reviewlens/internal/aggregator"
	"github.com/ricardonunez-io/reviewlens/internal/analyzer"
	"github.com/ricardonunez-io/reviewlens/internal/chart"
	"github.com/ricardonunez-io/reviewlens/internal/fuzzy"
	"github.com/ricardonunez-io/reviewlens/internal/sheets"
	"github.com/rs/zerolog/log"
)

const (
	ChartFileName          = "Sentiment_Chart.png"
	DefaultComplaintsLimit = 5
)

type ReviewSource interface {
	ReadReviews(ctx context.Context) ([]sheets.Record, error)
}

type ResultSink interface {
	WriteAnalysis(ctx context.Context, row int, result analyzer.Result) error
	InsertChartImage(ctx context.Context, url string) error
}

type ReviewAnalyzer interface {
	Analyze(ctx context.Context, text string) (analyzer.Result, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, name string, png []byte) (string, error)
}

type Notifier interface {
	SendReport(report Report) error
}

type Report struct {
	SpreadsheetTitle string               `json:"spreadsheetTitle"`
	Analyzed         int                  `json:"analyzed"`
	Skipped          int                  `json:"skipped"`
	Breakdown        aggregator.Breakdown `json:"breakdown"`
	Complaints       []fuzzy.MessageGroup `json:"complaints"`
	ChartURL         string               `json:"chartUrl"`
}

// Deps wires the collaborators of a run. Uploader and Notifier are optional.
type Deps struct {
	Source          ReviewSource
	Sink            ResultSink
	Analyzer        ReviewAnalyzer
	Uploader        ImageUploader
	Notifier        Notifier
	Render          func(aggregator.Breakdown) ([]byte, error)
	Title           string
	ComplaintsLimit int
}

// Run processes every review in order. An analysis or write failure stops
// the run; rows written before it are left in place.
func Run(ctx context.Context, deps Deps) (Report, error) {
	report := Report{SpreadsheetTitle: deps.Title}

	records, err := deps.Source.ReadReviews(ctx)
	if err != nil {
		return report, fmt.Errorf("read reviews: %w", err)
	}

	var results []analyzer.Result
	for _, record := range records {
		review := record.Review()
		if review == "" {
			log.Warn().Int("row", record.Row).Msg("Empty review")
			report.Skipped++
			continue
		}

		result, err := deps.Analyzer.Analyze(ctx, review)
		if err != nil {
			return report, fmt.Errorf("row %d: %w", record.Row, err)
		}
		if err := deps.Sink.WriteAnalysis(ctx, record.Row, result); err != nil {
			return report, fmt.Errorf("row %d: %w", record.Row, err)
		}

		results = append(results, result)
		report.Analyzed++
	}

	limit := deps.ComplaintsLimit
	if limit <= 0 {
		limit = DefaultComplaintsLimit
	}
	report.Breakdown = aggregator.Tally(results)
	report.Complaints = aggregator.Complaints(results, limit)

	if err := publishChart(ctx, deps, &report); err != nil {
		return report, err
	}

	if deps.Notifier != nil {
		if err := deps.Notifier.SendReport(report); err != nil {
			log.Err(err).Msg("Failed to send run report")
		}
	}

	log.Info().
		Int("analyzed", report.Analyzed).
		Int("skipped", report.Skipped).
		Msg("Review analysis completed successfully")
	return report, nil
}

// publishChart only fails the run when the sink rejects the image formula.
func publishChart(ctx context.Context, deps Deps, report *Report) error {
	if deps.Uploader == nil {
		log.Info().Msg("No image uploader configured, skipping chart")
		return nil
	}

	render := deps.Render
	if render == nil {
		render = chart.RenderPie
	}

	png, err := render(report.Breakdown)
	if errors.Is(err, chart.ErrNoData) {
		log.Warn().Msg("No analyzed reviews, skipping chart")
		return nil
	}
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}

	url, err := deps.Uploader.Upload(ctx, ChartFileName, png)
	if err != nil {
		log.Err(err).Msg("Chart upload failed, not embedding chart")
		return nil
	}
	report.ChartURL = url

	if err := deps.Sink.InsertChartImage(ctx, url); err != nil {
		return fmt.Errorf("insert chart: %w", err)
	}
	return nil
}
