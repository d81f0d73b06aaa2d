package sheets

import (
	"context"
	"fmt"

	"github.com/ricardonunez-io/reviewlens/internal/analyzer"
	"github.com/rs/zerolog/log"
	sheetsv4 "google.golang.org/api/sheets/v4"
)

var negativeHighlight = &sheetsv4.Color{Red: 1, Green: 0.9, Blue: 0.9}

func ActionNeeded(s analyzer.Sentiment) string {
	if s.ActionNeeded() {
		return "Yes"
	}
	return "No"
}

// WriteAnalysis fills columns D to F of the row and highlights A to D when
// the review is negative.
func (s *Sheet) WriteAnalysis(ctx context.Context, row int, result analyzer.Result) error {
	values := &sheetsv4.ValueRange{
		Values: [][]interface{}{{
			string(result.Sentiment),
			result.Summary,
			ActionNeeded(result.Sentiment),
		}},
	}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.a1(fmt.Sprintf("D%d:F%d", row, row)), values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		log.Err(err).Int("row", row).Msg("Failed to write analysis")
		return fmt.Errorf("failed to write analysis to row %d: %w", row, err)
	}

	if result.Sentiment == analyzer.Negative {
		if err := s.highlight(ctx, row); err != nil {
			return err
		}
	}

	log.Info().Int("row", row).Str("sentiment", string(result.Sentiment)).Msg("Wrote analysis")
	return nil
}

func (s *Sheet) highlight(ctx context.Context, row int) error {
	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			RepeatCell: &sheetsv4.RepeatCellRequest{
				Range: &sheetsv4.GridRange{
					SheetId:          s.sheetID,
					StartRowIndex:    int64(row - 1),
					EndRowIndex:      int64(row),
					StartColumnIndex: 0,
					EndColumnIndex:   4,
					ForceSendFields:  []string{"SheetId", "StartColumnIndex"},
				},
				Cell: &sheetsv4.CellData{
					UserEnteredFormat: &sheetsv4.CellFormat{BackgroundColor: negativeHighlight},
				},
				Fields: "userEnteredFormat.backgroundColor",
			},
		}},
	}

	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		log.Err(err).Int("row", row).Msg("Failed to highlight row")
		return fmt.Errorf("failed to highlight row %d: %w", row, err)
	}
	return nil
}

func (s *Sheet) InsertChartImage(ctx context.Context, url string) error {
	values := &sheetsv4.ValueRange{
		Values: [][]interface{}{{fmt.Sprintf(`=IMAGE("%s", 1)`, url)}},
	}

	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.a1(s.chartCell), values).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		log.Err(err).Str("cell", s.chartCell).Msg("Failed to insert chart image")
		return fmt.Errorf("failed to insert chart image: %w", err)
	}

	log.Info().Str("cell", s.chartCell).Msg("Inserted chart image into sheet")
	return nil
}
