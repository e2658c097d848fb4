package parser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// normalize turns the raw input into a map instance. A failed decode is
// reported as a field issue instead of an error: in non-strict mode it is
// just the first fixable defect, handled by the recovery cascade.
func (p *Parser) normalize(raw any) (map[string]any, *FieldIssue) {
	switch v := raw.(type) {
	case nil:
		return map[string]any{}, &FieldIssue{Field: "<input>", Message: "no arguments supplied"}
	case map[string]any:
		return v, nil
	case json.RawMessage:
		return p.decodeString(string(v))
	case []byte:
		return p.decodeString(string(v))
	case string:
		return p.decodeString(v)
	default:
		return map[string]any{}, &FieldIssue{
			Field:   "<input>",
			Message: fmt.Sprintf("arguments must be a JSON string or map, got %T", raw),
		}
	}
}

// decodeString decodes a JSON object string. Models routinely wrap their JSON
// in prose, so a failed decode falls back to salvaging the outermost {...}
// block before giving up.
func (p *Parser) decodeString(s string) (map[string]any, *FieldIssue) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return map[string]any{}, &FieldIssue{Field: "<input>", Message: "empty arguments"}
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(trimmed), &data); err == nil {
		return data, nil
	}

	if salvaged, ok := salvageObject(trimmed); ok {
		return salvaged, nil
	}

	return map[string]any{}, &FieldIssue{Field: "<input>", Message: "arguments are not valid JSON"}
}

// salvageObject extracts the outermost {...} block from a string and decodes
// it when it forms a valid JSON object.
func salvageObject(s string) (map[string]any, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	candidate := s[start : end+1]
	if !gjson.Valid(candidate) {
		return nil, false
	}
	value, ok := gjson.Parse(candidate).Value().(map[string]any)
	return value, ok
}
