package history

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"spl2cql/internal/translate"
)

// HistoryColumns is the column set of an exported translation log.
var HistoryColumns = []string{
	"use_case_name", "description", "spl_query", "cql_query",
	"status", "error_detail", "timestamp",
}

// FeedbackColumns is the column set of an exported feedback log.
var FeedbackColumns = []string{
	"spl_query", "cql_query", "feedback", "note", "timestamp",
}

// ExportHistory writes the full translation log as CSV.
func (s *Store) ExportHistory(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(HistoryColumns); err != nil {
		return fmt.Errorf("failed to write history header: %w", err)
	}
	for _, e := range s.All() {
		row := []string{
			e.Record.UseCaseName,
			e.Record.Description,
			e.Record.SPLQuery,
			e.Result.CQLQuery,
			string(e.Result.Status),
			e.Result.ErrorDetail,
			e.Result.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write history row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportResults writes batch results as CSV in input order, one row
// per record, using the history column set. records and results must be
// positionally aligned.
func ExportResults(w io.Writer, records []translate.QueryRecord, results []translate.TranslationResult) error {
	if len(records) != len(results) {
		return fmt.Errorf("records/results length mismatch: %d vs %d", len(records), len(results))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(HistoryColumns); err != nil {
		return fmt.Errorf("failed to write results header: %w", err)
	}
	for i, record := range records {
		row := []string{
			record.UseCaseName,
			record.Description,
			record.SPLQuery,
			results[i].CQLQuery,
			string(results[i].Status),
			results[i].ErrorDetail,
			results[i].Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write results row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFeedback writes the feedback log as CSV. Each row joins the
// feedback with the translation it judges.
func (s *Store) ExportFeedback(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(FeedbackColumns); err != nil {
		return fmt.Errorf("failed to write feedback header: %w", err)
	}
	for _, fb := range s.Feedbacks() {
		entry, _ := s.Find(fb.RecordID)
		row := []string{
			entry.Record.SPLQuery,
			entry.Result.CQLQuery,
			string(fb.Judgment),
			fb.Note,
			fb.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write feedback row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
