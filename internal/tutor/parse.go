package tutor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// envelopeKeys are object keys some models wrap the corrections array in,
// despite the schema asking for a bare array.
var envelopeKeys = []string{"corrections", "items"}

var correctionsValidator = mustCompileSchema(CorrectionsSchema)

func mustCompileSchema(raw json.RawMessage) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("corrections.json", bytes.NewReader(raw)); err != nil {
		panic(fmt.Sprintf("loading corrections schema: %v", err))
	}
	schema, err := compiler.Compile("corrections.json")
	if err != nil {
		panic(fmt.Sprintf("compiling corrections schema: %v", err))
	}
	return schema
}

// ParseCorrections decodes an analysis reply. Blank content means the model
// found nothing to correct. Code fences and surrounding prose are tolerated.
// Any other deviation from the corrections schema yields ErrMalformedResponse.
func ParseCorrections(content string) ([]Correction, error) {
	if strings.TrimSpace(content) == "" {
		return []Correction{}, nil
	}

	doc, err := parseJSON(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	doc = unwrapEnvelope(doc)

	if err := correctionsValidator.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	// Re-encode the validated document so the typed decode sees exactly
	// what was checked.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	corrections := []Correction{}
	if err := json.Unmarshal(normalized, &corrections); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return corrections, nil
}

// parseJSON tries the raw content, then the content without code fences,
// then the outermost JSON-looking span.
func parseJSON(content string) (any, error) {
	content = strings.TrimSpace(content)
	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONCandidate(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		var doc any
		if err := json.Unmarshal([]byte(candidate), &doc); err == nil {
			return doc, nil
		}
	}
	return nil, fmt.Errorf("no JSON value found in reply")
}

func unwrapEnvelope(doc any) any {
	obj, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	for _, key := range envelopeKeys {
		if inner, ok := obj[key].([]any); ok {
			return inner
		}
	}
	return doc
}

func stripCodeFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func extractJSONCandidate(content string) string {
	objectStart := strings.Index(content, "{")
	arrayStart := strings.Index(content, "[")

	start, closeChar := -1, ""
	switch {
	case arrayStart >= 0 && (objectStart < 0 || arrayStart < objectStart):
		start, closeChar = arrayStart, "]"
	case objectStart >= 0:
		start, closeChar = objectStart, "}"
	default:
		return ""
	}

	end := strings.LastIndex(content, closeChar)
	if end < start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}
