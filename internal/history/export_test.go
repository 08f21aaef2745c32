package history

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"spl2cql/internal/translate"
)

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	rows, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestStore_ExportHistory(t *testing.T) {
	store := NewStore()

	ts := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	ok := translate.NewQueryRecord("Failed Logins", "brute force", "index=main | stats count")
	store.Append(ok, translate.TranslationResult{
		RecordID:  ok.ID,
		CQLQuery:  "#event_simpleName=UserLogonFailed | count()",
		Status:    translate.StatusSuccess,
		Timestamp: ts,
	})
	bad := translate.NewQueryRecord("Broken", "", "index=main | weird")
	store.Append(bad, translate.TranslationResult{
		RecordID:    bad.ID,
		Status:      translate.StatusFailed,
		ErrorDetail: translate.DetailParse,
		RawOutput:   "gibberish",
		Timestamp:   ts.Add(time.Second),
	})

	var buf bytes.Buffer
	require.NoError(t, store.ExportHistory(&buf))

	want := [][]string{
		HistoryColumns,
		{"Failed Logins", "brute force", "index=main | stats count",
			"#event_simpleName=UserLogonFailed | count()", "Success", "", "2026-02-01T12:00:00Z"},
		{"Broken", "", "index=main | weird", "", "Failed", "parse", "2026-02-01T12:00:01Z"},
	}
	if diff := cmp.Diff(want, parseCSV(t, &buf)); diff != "" {
		t.Errorf("history export mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ExportFeedback(t *testing.T) {
	store := NewStore()
	record := translate.NewQueryRecord("", "", "index=main | stats count")
	store.Append(record, translate.TranslationResult{
		RecordID: record.ID,
		CQLQuery: "count()",
		Status:   translate.StatusSuccess,
	})
	require.NoError(t, store.SetFeedback(record.ID, JudgmentIncorrect, "wrong field"))

	var buf bytes.Buffer
	require.NoError(t, store.ExportFeedback(&buf))

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 2)
	if diff := cmp.Diff(FeedbackColumns, rows[0]); diff != "" {
		t.Errorf("feedback header mismatch (-want +got):\n%s", diff)
	}
	// Timestamp is assigned at submission; compare the stable columns.
	if diff := cmp.Diff([]string{"index=main | stats count", "count()", "incorrect", "wrong field"}, rows[1][:4]); diff != "" {
		t.Errorf("feedback row mismatch (-want +got):\n%s", diff)
	}
}

func TestExportResults(t *testing.T) {
	records := []translate.QueryRecord{
		translate.NewQueryRecord("a", "", "index=main | stats count by a"),
		translate.NewQueryRecord("b", "", ""),
	}
	results := []translate.TranslationResult{
		{RecordID: records[0].ID, CQLQuery: "a()", Status: translate.StatusSuccess},
		{RecordID: records[1].ID, Status: translate.StatusFailed, ErrorDetail: translate.DetailValidation},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportResults(&buf, records, results))

	rows := parseCSV(t, &buf)
	require.Len(t, rows, 3)
	require.Equal(t, "a", rows[1][0])
	require.Equal(t, "Success", rows[1][4])
	require.Equal(t, "validation", rows[2][5])

	t.Run("length mismatch", func(t *testing.T) {
		var b bytes.Buffer
		require.Error(t, ExportResults(&b, records, results[:1]))
	})
}
