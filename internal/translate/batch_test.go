package translate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spl2cql/internal/completion"
)

// echoingClient returns a delimited CQL derived from the final field
// of the input query so positional alignment can be asserted, with a
// random delay to shake out ordering assumptions. The output is
// CQL-shaped so it passes the parser's echo guards.
func echoingClient(delay time.Duration) *stubClient {
	return &stubClient{complete: func(_, user string) (string, error) {
		if delay > 0 {
			time.Sleep(time.Duration(rand.Int63n(int64(delay))))
		}
		trimmed := strings.TrimSpace(user)
		field := trimmed[strings.LastIndex(trimmed, " ")+1:]
		return OpenMarker + "groupBy([" + field + "], function=count())" + CloseMarker, nil
	}}
}

func batchRecords(n int) []QueryRecord {
	records := make([]QueryRecord, n)
	for i := range records {
		records[i] = NewQueryRecord("", "", fmt.Sprintf("index=main | stats count by field_%d", i))
	}
	return records
}

func TestRunner_Run_PositionalAlignment(t *testing.T) {
	const n = 20
	client := echoingClient(5 * time.Millisecond)
	recorder := &memRecorder{}
	runner := NewRunner(NewEngine(client, recorder, nil), 8, nil)

	records := batchRecords(n)
	results := runner.Run(context.Background(), records)

	require.Len(t, results, n)
	for i, result := range results {
		assert.Equal(t, records[i].ID, result.RecordID, "result %d aligned with input", i)
		assert.Equal(t, StatusSuccess, result.Status)
		assert.Equal(t, fmt.Sprintf("groupBy([field_%d], function=count())", i), result.CQLQuery)
	}
	assert.Equal(t, n, recorder.len())
}

func TestRunner_Run_ValidationPreCheck(t *testing.T) {
	client := echoingClient(0)
	recorder := &memRecorder{}
	runner := NewRunner(NewEngine(client, recorder, nil), 2, nil)

	records := []QueryRecord{
		NewQueryRecord("", "", "index=main | stats count"),
		NewQueryRecord("", "", "   "),
		NewQueryRecord("", "", ""),
		NewQueryRecord("", "", "index=main | stats count by user"),
	}
	results := runner.Run(context.Background(), records)

	require.Len(t, results, 4)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, DetailValidation, results[1].ErrorDetail)
	assert.Equal(t, StatusFailed, results[2].Status)
	assert.Equal(t, DetailValidation, results[2].ErrorDetail)
	assert.Equal(t, StatusSuccess, results[3].Status)

	// Validation failures must not reach the completion service.
	assert.Equal(t, int64(2), client.calls.Load())
	// But they are still recorded.
	assert.Equal(t, 4, recorder.len())
}

func TestRunner_Run_PartialFailureIsolation(t *testing.T) {
	client := &stubClient{complete: func(_, user string) (string, error) {
		if strings.Contains(user, "field_1") {
			return "", &completion.Error{Kind: completion.KindTimeout}
		}
		return OpenMarker + "a := 1" + CloseMarker, nil
	}}
	runner := NewRunner(NewEngine(client, &memRecorder{}, nil), 1, nil)

	records := batchRecords(3)
	results := runner.Run(context.Background(), records)

	require.Len(t, results, 3)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusFailed, results[1].Status)
	assert.Equal(t, "timeout", results[1].ErrorDetail)
	assert.Equal(t, StatusSuccess, results[2].Status, "failure of record 1 must not skip record 2")
}

func TestRunner_Run_EmptyBatch(t *testing.T) {
	runner := NewRunner(NewEngine(echoingClient(0), nil, nil), 4, nil)
	results := runner.Run(context.Background(), nil)
	assert.Empty(t, results)
}

func TestRunner_Run_CancelledContext(t *testing.T) {
	client := echoingClient(0)
	recorder := &memRecorder{}
	runner := NewRunner(NewEngine(client, recorder, nil), 4, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records := batchRecords(5)
	results := runner.Run(ctx, records)

	require.Len(t, results, 5)
	for _, result := range results {
		assert.Equal(t, StatusFailed, result.Status)
		assert.Equal(t, DetailCanceled, result.ErrorDetail)
	}
	assert.Equal(t, int64(0), client.calls.Load())
	assert.Equal(t, 5, recorder.len(), "cancelled records still flushed to history")
}

func TestRunner_Run_SerialEqualsConcurrent(t *testing.T) {
	records := batchRecords(10)
	records[3].SPLQuery = ""

	run := func(concurrency int) []TranslationResult {
		runner := NewRunner(NewEngine(echoingClient(2*time.Millisecond), &memRecorder{}, nil), concurrency, nil)
		results := runner.Run(context.Background(), records)
		// Timestamps differ between runs; compare the stable fields.
		for i := range results {
			results[i].Timestamp = time.Time{}
		}
		return results
	}

	assert.Equal(t, run(1), run(8))
}
