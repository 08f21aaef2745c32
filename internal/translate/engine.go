package translate

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"spl2cql/internal/completion"
)

// Recorder receives every translation attempt. The history store
// implements it; the indirection keeps this package free of a store
// dependency and lets tests capture appends directly.
type Recorder interface {
	Append(record QueryRecord, result TranslationResult)
}

// Engine orchestrates one translation: prompt build, completion call,
// response parse. Every invocation returns exactly one result and
// records it, success or failure; errors never cross this boundary as
// Go errors. Retry on transport failure is the caller's policy, not the
// engine's, so cost and latency stay predictable.
type Engine struct {
	client   completion.Client
	builder  *PromptBuilder
	parser   *Parser
	recorder Recorder
	logger   *zap.Logger
}

// NewEngine creates a translation engine. recorder may be nil when no
// history is kept; logger may be nil.
func NewEngine(client completion.Client, recorder Recorder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		client:   client,
		builder:  NewPromptBuilder(),
		parser:   NewParser(),
		recorder: recorder,
		logger:   logger,
	}
}

// Parser exposes the engine's parser for guard configuration.
func (e *Engine) Parser() *Parser {
	return e.parser
}

// Translate runs one record through the pipeline. The returned result
// is always recorded before return.
func (e *Engine) Translate(ctx context.Context, record QueryRecord) TranslationResult {
	start := time.Now()
	result := e.translate(ctx, record)
	if e.recorder != nil {
		e.recorder.Append(record, result)
	}

	if result.Succeeded() {
		e.logger.Info("translation succeeded",
			zap.String("record_id", record.ID),
			zap.Duration("elapsed", time.Since(start)))
	} else {
		e.logger.Warn("translation failed",
			zap.String("record_id", record.ID),
			zap.String("detail", result.ErrorDetail),
			zap.Duration("elapsed", time.Since(start)))
	}
	return result
}

func (e *Engine) translate(ctx context.Context, record QueryRecord) TranslationResult {
	result := TranslationResult{
		RecordID:  record.ID,
		Timestamp: time.Now(),
	}

	system, user := e.builder.Build(record)

	raw, err := e.client.Complete(ctx, system, user)
	if err != nil {
		result.Status = StatusFailed
		result.ErrorDetail = transportDetail(err)
		return result
	}
	result.RawOutput = raw

	query, err := e.parser.Parse(raw)
	if err != nil {
		result.Status = StatusFailed
		var rejected *RejectedError
		if errors.As(err, &rejected) {
			result.ErrorDetail = DetailRejected + ": " + rejected.Reason
		} else {
			result.ErrorDetail = DetailParse
		}
		return result
	}

	result.Status = StatusSuccess
	result.CQLQuery = query
	return result
}

// transportDetail maps a completion failure to its error-detail token.
func transportDetail(err error) string {
	var cerr *completion.Error
	if errors.As(err, &cerr) {
		return cerr.Kind.Detail()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return completion.KindTimeout.Detail()
	}
	if errors.Is(err, context.Canceled) {
		return DetailCanceled
	}
	return completion.KindUnknown.Detail()
}
