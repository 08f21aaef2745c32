package translate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Column names of batch input files. Only spl_query is required.
const (
	ColumnSPLQuery    = "spl_query"
	ColumnUseCaseName = "use_case_name"
	ColumnDescription = "description"
)

// ReadRecords parses batch CSV input into query records, assigning a
// fresh id per row. The header must name an spl_query column; missing
// or empty queries in individual rows are kept so the runner can report
// them as row-local validation failures rather than failing the file.
func ReadRecords(r io.Reader) ([]QueryRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("batch input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read batch header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := cols[ColumnSPLQuery]; !ok {
		return nil, fmt.Errorf("batch input must contain an %s column", ColumnSPLQuery)
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var records []QueryRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read batch row %d: %w", len(records)+2, err)
		}
		records = append(records, NewQueryRecord(
			field(row, ColumnUseCaseName),
			field(row, ColumnDescription),
			field(row, ColumnSPLQuery),
		))
	}
	return records, nil
}
