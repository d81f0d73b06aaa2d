package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Record is one data row keyed by header name. Row is the 1-based sheet row,
// so the first record is row 2.
type Record struct {
	Row    int
	Fields map[string]string
}

func (r Record) Get(column string) string {
	return r.Fields[column]
}

func (r Record) Review() string {
	return strings.TrimSpace(r.Get(ReviewColumn))
}

func (s *Sheet) ReadReviews(ctx context.Context) ([]Record, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.a1("")).Context(ctx).Do()
	if err != nil {
		log.Err(err).Msg("Failed to read reviews")
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}

	records := ToRecords(resp.Values)
	log.Info().Int("reviewCount", len(records)).Msg("Read reviews from Google Sheet")
	return records, nil
}

// ToRecords treats the first row as the header. Short rows leave missing
// columns empty and headerless cells are dropped.
func ToRecords(values [][]interface{}) []Record {
	if len(values) == 0 {
		return nil
	}

	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		header[i] = strings.TrimSpace(fmt.Sprint(h))
	}

	records := make([]Record, 0, len(values)-1)
	for i, row := range values[1:] {
		fields := make(map[string]string, len(header))
		for j, name := range header {
			if name == "" {
				continue
			}
			if j < len(row) {
				fields[name] = fmt.Sprint(row[j])
			} else {
				fields[name] = ""
			}
		}
		records = append(records, Record{Row: i + 2, Fields: fields})
	}
	return records
}
