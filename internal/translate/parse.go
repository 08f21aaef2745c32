package translate

import (
	"fmt"
	"strings"
)

// ParseError reports completion output that did not honor the output
// contract. Raw carries the full model output for diagnosis; the parser
// never returns a best-effort guess.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparseable completion output: %s", e.Reason)
}

// RejectedError reports a model-declared impossible conversion
// (an ERROR: response inside the markers).
type RejectedError struct {
	Reason string
	Raw    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("conversion rejected by model: %s", e.Reason)
}

// Parser extracts the translated query from raw completion output.
type Parser struct {
	// echoGuards are tokens that mark output as untranslated SPL. The
	// exact detection rule is heuristic, so it is configuration rather
	// than a hard-coded check.
	echoGuards []string
}

// defaultEchoGuards flag SPL constructs that have no business appearing
// in translated CQL.
func defaultEchoGuards() []string {
	return []string{"index=", "sourcetype=", "| stats "}
}

// NewParser creates a parser with the default echo guards.
func NewParser() *Parser {
	return &Parser{echoGuards: defaultEchoGuards()}
}

// SetEchoGuards replaces the untranslated-SPL detection tokens.
func (p *Parser) SetEchoGuards(guards []string) {
	p.echoGuards = guards
}

// Parse extracts the CQL query from raw completion output. It requires
// exactly one marker-delimited segment, rejects empty and
// model-rejected output, and rejects output that still looks like SPL.
func (p *Parser) Parse(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)

	// Model may skip the markers entirely when refusing.
	if strings.HasPrefix(trimmed, errorPrefix) {
		return "", &RejectedError{
			Reason: strings.TrimSpace(strings.TrimPrefix(trimmed, errorPrefix)),
			Raw:    raw,
		}
	}

	start := strings.Index(raw, OpenMarker)
	if start < 0 {
		return "", &ParseError{Reason: "no " + OpenMarker + " marker found", Raw: raw}
	}
	rest := raw[start+len(OpenMarker):]
	end := strings.Index(rest, CloseMarker)
	if end < 0 {
		return "", &ParseError{Reason: "unterminated " + OpenMarker + " segment", Raw: raw}
	}
	if strings.Contains(rest[end+len(CloseMarker):], OpenMarker) {
		return "", &ParseError{Reason: "multiple delimited segments", Raw: raw}
	}

	query := strings.TrimSpace(rest[:end])
	if query == "" {
		return "", &ParseError{Reason: "empty delimited segment", Raw: raw}
	}

	if strings.HasPrefix(query, errorPrefix) {
		return "", &RejectedError{
			Reason: strings.TrimSpace(strings.TrimPrefix(query, errorPrefix)),
			Raw:    raw,
		}
	}

	for _, guard := range p.echoGuards {
		if strings.Contains(query, guard) {
			return "", &ParseError{
				Reason: fmt.Sprintf("output still contains SPL construct %q", guard),
				Raw:    raw,
			}
		}
	}

	return query, nil
}
