package translate

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel completion calls during a batch.
const DefaultConcurrency = 4

// Runner drives the engine over an ordered collection of records.
// Records are independent, so they are translated in parallel; results
// are reassembled into input order by index before return.
type Runner struct {
	engine      *Engine
	concurrency int
	logger      *zap.Logger
}

// NewRunner creates a batch runner. concurrency <= 0 selects the
// default.
func NewRunner(engine *Engine, concurrency int, logger *zap.Logger) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{engine: engine, concurrency: concurrency, logger: logger}
}

// Run translates every record and returns one result per input record,
// positionally aligned. A failure for record i never aborts or skips
// the records after it. Records failing the pre-check get an immediate
// validation failure without a completion call. On context
// cancellation, remaining records are marked failed; results already
// produced are kept and have been recorded.
func (r *Runner) Run(ctx context.Context, records []QueryRecord) []TranslationResult {
	start := time.Now()
	results := make([]TranslationResult, len(records))

	g := &errgroup.Group{}
	g.SetLimit(r.concurrency)

	for i, record := range records {
		i, record := i, record
		if strings.TrimSpace(record.SPLQuery) == "" {
			results[i] = r.validationFailure(record)
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = r.cancellationFailure(record, err)
				return nil
			}
			// Each goroutine owns its slot; no shared mutable state.
			results[i] = r.engine.Translate(ctx, record)
			return nil
		})
	}

	_ = g.Wait()

	succeeded := 0
	for _, res := range results {
		if res.Succeeded() {
			succeeded++
		}
	}
	r.logger.Info("batch finished",
		zap.Int("records", len(records)),
		zap.Int("succeeded", succeeded),
		zap.Int("failed", len(records)-succeeded),
		zap.Duration("elapsed", time.Since(start)))

	return results
}

func (r *Runner) validationFailure(record QueryRecord) TranslationResult {
	result := TranslationResult{
		RecordID:    record.ID,
		Status:      StatusFailed,
		ErrorDetail: DetailValidation,
		Timestamp:   time.Now(),
	}
	r.record(record, result)
	return result
}

func (r *Runner) cancellationFailure(record QueryRecord, err error) TranslationResult {
	result := TranslationResult{
		RecordID:    record.ID,
		Status:      StatusFailed,
		ErrorDetail: transportDetail(err),
		Timestamp:   time.Now(),
	}
	r.record(record, result)
	return result
}

func (r *Runner) record(record QueryRecord, result TranslationResult) {
	if r.engine.recorder != nil {
		r.engine.recorder.Append(record, result)
	}
}
