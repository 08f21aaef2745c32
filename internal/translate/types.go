// Package translate implements the SPL to CQL translation pipeline:
// prompt construction, completion invocation, response parsing and batch
// orchestration over CSV-sourced query records.
package translate

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// QueryRecord is one detection-rule query plus optional metadata, the
// unit of translation. Immutable once submitted.
type QueryRecord struct {
	ID          string `json:"id"`
	UseCaseName string `json:"use_case_name,omitempty"`
	Description string `json:"description,omitempty"`
	SPLQuery    string `json:"spl_query"`
}

// NewQueryRecord creates a record with a fresh identifier.
func NewQueryRecord(useCaseName, description, splQuery string) QueryRecord {
	return QueryRecord{
		ID:          uuid.NewString(),
		UseCaseName: useCaseName,
		Description: description,
		SPLQuery:    splQuery,
	}
}

// Status reports the outcome of one translation attempt.
type Status string

const (
	StatusSuccess Status = "Success"
	StatusFailed  Status = "Failed"
)

// Error-detail tokens recorded on failed results. Transport failures
// carry the completion error kind instead (auth, rate_limited, timeout,
// network, service).
const (
	DetailValidation = "validation"
	DetailParse      = "parse"
	DetailRejected   = "rejected"
	DetailCanceled   = "canceled"
)

// TranslationResult captures one translation attempt. Created exactly
// once per attempt and never mutated; a retry produces a new result.
// CQLQuery is non-empty iff Status is StatusSuccess.
type TranslationResult struct {
	RecordID    string    `json:"record_id"`
	CQLQuery    string    `json:"cql_query,omitempty"`
	Status      Status    `json:"status"`
	ErrorDetail string    `json:"error_detail,omitempty"`
	RawOutput   string    `json:"raw_model_output,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Succeeded reports whether the attempt produced a usable CQL query.
func (r TranslationResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// splPatterns are tokens expected somewhere in any real SPL query.
var splPatterns = []string{"search", "stats", "eval", "rex", "|", "sourcetype=", "index="}

// ValidateSPL is a cheap plausibility check on an input query. It does
// not parse SPL; it only rejects input that cannot be a query at all.
func ValidateSPL(query string) (bool, string) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < 5 {
		return false, "query is too short or empty"
	}
	lower := strings.ToLower(trimmed)
	for _, pattern := range splPatterns {
		if strings.Contains(lower, pattern) {
			return true, ""
		}
	}
	return false, "does not appear to be a valid SPL query"
}
