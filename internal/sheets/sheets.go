package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

const (
	ReviewColumn     = "Review"
	DefaultTitle     = "Redmi6_Reviews_Team4"
	DefaultChartCell = "H2"
)

type Config struct {
	SpreadsheetID string
	Title         string
	ChartCell     string
}

func DefaultConfig() Config {
	return Config{
		Title:     DefaultTitle,
		ChartCell: DefaultChartCell,
	}
}

// Locator resolves a spreadsheet title to its ID.
type Locator interface {
	FindSpreadsheet(ctx context.Context, title string) (string, error)
}

// Sheet is the first worksheet of a spreadsheet.
type Sheet struct {
	svc           *sheetsv4.Service
	spreadsheetID string
	sheetID       int64
	title         string
	chartCell     string
}

func Open(ctx context.Context, cfg Config, locator Locator, opts ...option.ClientOption) (*Sheet, error) {
	svc, err := sheetsv4.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	id := cfg.SpreadsheetID
	if id == "" {
		if locator == nil {
			return nil, errors.New("no spreadsheet ID configured and no way to look one up")
		}
		id, err = locator.FindSpreadsheet(ctx, cfg.Title)
		if err != nil {
			return nil, err
		}
	}

	ss, err := svc.Spreadsheets.Get(id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", id, err)
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return nil, fmt.Errorf("spreadsheet %s has no worksheets", id)
	}

	chartCell := cfg.ChartCell
	if chartCell == "" {
		chartCell = DefaultChartCell
	}

	props := ss.Sheets[0].Properties
	log.Info().
		Str("spreadsheetId", id).
		Str("worksheet", props.Title).
		Msg("Opened spreadsheet")

	return &Sheet{
		svc:           svc,
		spreadsheetID: id,
		sheetID:       props.SheetId,
		title:         props.Title,
		chartCell:     chartCell,
	}, nil
}

func (s *Sheet) a1(rng string) string {
	quoted := "'" + strings.ReplaceAll(s.title, "'", "''") + "'"
	if rng == "" {
		return quoted
	}
	return quoted + "!" + rng
}
