package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agentsquad/agentsquad/schema"
)

var (
	truthyTokens = map[string]bool{"true": true, "1": true, "yes": true, "sim": true, "on": true, "y": true}
	falsyTokens  = map[string]bool{"false": true, "0": true, "no": true, "nao": true, "não": true, "off": true, "n": true}
)

// checkValue validates a decoded value against a descriptor without changing
// it. JSON decoding yields float64 for every number, so integer kinds accept
// any integral numeric.
func checkValue(d *schema.Descriptor, v any) error {
	if d == nil {
		return fmt.Errorf("field has no declared type")
	}
	switch d.Kind {
	case schema.KindString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
	case schema.KindInteger:
		switch n := v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		case float64:
			if n != math.Trunc(n) {
				return fmt.Errorf("expected integer, got fractional number %v", n)
			}
		default:
			return fmt.Errorf("expected integer, got %T", v)
		}
	case schema.KindNumber:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		default:
			return fmt.Errorf("expected number, got %T", v)
		}
	case schema.KindBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", v)
		}
	case schema.KindEnum:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected one of %v, got %T", d.Choices, v)
		}
		for _, choice := range d.Choices {
			if s == choice {
				return nil
			}
		}
		return fmt.Errorf("value %q is not one of %v", s, d.Choices)
	case schema.KindArray:
		items, ok := v.([]any)
		if !ok {
			return fmt.Errorf("expected array, got %T", v)
		}
		if d.Items != nil {
			for i, item := range items {
				if err := checkValue(d.Items, item); err != nil {
					return fmt.Errorf("item %d: %v", i, err)
				}
			}
		}
	case schema.KindObject:
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("expected object, got %T", v)
		}
		for _, f := range d.Fields {
			fv, present := m[f.Name]
			if !present {
				if f.Required {
					return fmt.Errorf("missing required member %q", f.Name)
				}
				continue
			}
			if err := checkValue(f.Type, fv); err != nil {
				return fmt.Errorf("member %q: %v", f.Name, err)
			}
		}
	case schema.KindUnion:
		var firstErr error
		for _, alt := range d.Alternatives {
			if alt == nil {
				continue
			}
			if alt.Kind == schema.KindNull {
				if v == nil {
					return nil
				}
				continue
			}
			if err := checkValue(alt, v); err == nil {
				return nil
			} else if firstErr == nil {
				firstErr = err
			}
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("no union alternative matched %T", v)
		}
		return firstErr
	case schema.KindNull:
		if v != nil {
			return fmt.Errorf("expected null, got %T", v)
		}
	}
	return nil
}

// coerceValue attempts a type coercion toward the declared kind, per the
// recovery rules: numeric strings (comma decimals included) become numbers,
// common truthy tokens become booleans, JSON-decodable or comma-split strings
// become arrays. The boolean result reports whether the returned value is
// valid for the descriptor.
func coerceValue(d *schema.Descriptor, v any) (any, bool) {
	if d == nil {
		return nil, false
	}
	if checkValue(d, v) == nil {
		return v, true
	}

	switch d.Kind {
	case schema.KindString:
		if v == nil {
			return nil, false
		}
		return fmt.Sprintf("%v", v), true
	case schema.KindInteger:
		if f, ok := toFloat(v); ok {
			return int64(f), true
		}
	case schema.KindNumber:
		if f, ok := toFloat(v); ok {
			return f, true
		}
	case schema.KindBoolean:
		switch b := v.(type) {
		case string:
			token := strings.ToLower(strings.TrimSpace(b))
			if truthyTokens[token] {
				return true, true
			}
			if falsyTokens[token] {
				return false, true
			}
		case float64:
			return b != 0, true
		case int:
			return b != 0, true
		}
	case schema.KindEnum:
		if s, ok := v.(string); ok {
			for _, choice := range d.Choices {
				if strings.EqualFold(strings.TrimSpace(s), choice) {
					return choice, true
				}
			}
		}
	case schema.KindArray:
		return coerceArray(d, v)
	case schema.KindObject:
		if s, ok := v.(string); ok {
			var m map[string]any
			if err := json.Unmarshal([]byte(s), &m); err == nil && checkValue(d, m) == nil {
				return m, true
			}
		}
	case schema.KindUnion:
		for _, alt := range d.Alternatives {
			if alt == nil || alt.Kind == schema.KindNull {
				continue
			}
			if coerced, ok := coerceValue(alt, v); ok {
				return coerced, true
			}
		}
	}
	return nil, false
}

// coerceArray turns a JSON-decodable string, a comma separated string or a
// scalar into an array, then coerces each element toward the item type.
func coerceArray(d *schema.Descriptor, v any) (any, bool) {
	var items []any
	switch a := v.(type) {
	case []any:
		items = a
	case string:
		var decoded any
		if err := json.Unmarshal([]byte(a), &decoded); err == nil {
			if list, ok := decoded.([]any); ok {
				items = list
			} else {
				items = []any{decoded}
			}
		} else {
			for _, part := range strings.Split(a, ",") {
				items = append(items, strings.TrimSpace(part))
			}
		}
	case nil:
		return nil, false
	default:
		items = []any{v}
	}

	if d.Items == nil {
		return items, true
	}
	coerced := make([]any, 0, len(items))
	for _, item := range items {
		ci, ok := coerceValue(d.Items, item)
		if !ok {
			return nil, false
		}
		coerced = append(coerced, ci)
	}
	return coerced, true
}

// toFloat parses numerics out of strings and numbers, accepting the comma
// decimal separator ("200,50").
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		if strings.Contains(s, ",") && !strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
