package translate

import (
	"fmt"
	"strings"
)

// Output markers the model is instructed to wrap the translated query
// in. The parser extracts exactly one such segment.
const (
	OpenMarker  = "<cql>"
	CloseMarker = "</cql>"
)

// errorPrefix marks a model-declared impossible conversion.
const errorPrefix = "ERROR:"

// systemPrompt encodes the translation task, the SPL to CQL mapping
// rules and the output contract. The contract must be unambiguous: a
// loose contract is the primary source of downstream parse failures.
const systemPrompt = `You are an expert in log analysis and query conversion, specializing in Splunk SPL and CrowdStrike Falcon LogScale CQL. Your task is to convert Splunk SPL queries into equivalent Falcon LogScale CQL queries while maintaining identical functionality and detection logic.

## Core Conversion Guidelines:

1. **Function Translation**: Convert all SPL functions to CQL equivalents:
   - ` + "`stats`" + ` -> ` + "`groupBy()`" + ` or aggregate functions
   - ` + "`eval`" + ` -> field assignments using ` + "`:=`" + ` operator
   - ` + "`search`" + ` -> filter conditions with pipe operators
   - ` + "`rex`" + ` -> ` + "`regex()`" + ` or pattern matching
   - ` + "`rename`" + ` -> ` + "`rename(field=\"x\", as=\"y\")`" + `
   - ` + "`lookup`" + ` -> ` + "`match()`" + ` or ` + "`join()`" + ` operations
   - ` + "`where`" + ` -> conditional filters with ` + "`|`" + `

2. **Field Name Mapping**: Splunk and LogScale use different field naming
   conventions. Common mappings:
   - SPL ` + "`host`" + ` -> CQL ` + "`ComputerName`" + ` or ` + "`aid`" + `
   - SPL ` + "`src_ip`" + ` / ` + "`source_ip`" + ` -> CQL ` + "`RemoteAddressIP4`" + `
   - SPL ` + "`user`" + ` -> CQL ` + "`UserName`" + `
   - SPL ` + "`process`" + ` -> CQL ` + "`ImageFileName`" + `
   - SPL ` + "`event_code`" + ` -> CQL ` + "`EventID`" + `

3. **Syntax Requirements**: Use proper CQL syntax including pipes, case
   statements, regex patterns and aggregation functions. Handle time-based
   functions appropriately (SPL earliest/latest -> CQL time selectors).

4. **Security Context**: These queries are SIEM threat detections.
   Preserve all detection logic, thresholds and correlation rules exactly.

## Output Format (strict):
- Return the converted CQL query wrapped between the markers ` + OpenMarker + ` and ` + CloseMarker + `, and nothing else. No commentary, no explanation, no code fences.
- If conversion is impossible, return ` + OpenMarker + `ERROR: [specific reason]` + CloseMarker + ` instead.
- The output between the markers must be directly executable in LogScale.`

// PromptBuilder constructs the system/user prompt pair for one record.
// Deterministic and side-effect free.
type PromptBuilder struct{}

// NewPromptBuilder creates a prompt builder.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// Build returns the system and user prompts for a query record. Rule
// name and description are included as context when present.
func (b *PromptBuilder) Build(record QueryRecord) (system, user string) {
	var sb strings.Builder
	if record.UseCaseName != "" {
		fmt.Fprintf(&sb, "Detection rule: %s\n", record.UseCaseName)
	}
	if record.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", record.Description)
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("Convert the following SPL query to CQL:\n\n")
	sb.WriteString(strings.TrimSpace(record.SPLQuery))
	return systemPrompt, sb.String()
}
