// Package parser turns untrusted, frequently malformed tool-call arguments
// back into validated instances of a schema.Record.
//
// Two modes exist. Strict parsing validates once and reports every field
// defect. Non-strict parsing runs an ordered recovery cascade (direct
// validation, field repair, safe subset, minimal instance) and is total for
// any target whose required fields all have representable defaults: it
// returns some valid instance rather than failing on recoverable garbage.
package parser

import (
	"fmt"
	"strings"

	"github.com/agentsquad/agentsquad/logging"
	"github.com/agentsquad/agentsquad/schema"
)

// FieldIssue is one per-field diagnostic accumulated during parsing.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error reports a total parsing failure with per-field diagnostics.
type Error struct {
	Record string       `json:"record"`
	Issues []FieldIssue `json:"issues,omitempty"`
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("parsing failed for %s", e.Record)
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = fmt.Sprintf("field '%s': %s", issue.Field, issue.Message)
	}
	return fmt.Sprintf("parsing failed for %s: %s", e.Record, strings.Join(parts, "; "))
}

// Options configure a Parser.
type Options struct {
	Logger logging.Logger
}

// Parser binds the recovery machinery to one target record.
type Parser struct {
	target *schema.Record
	logger logging.Logger
}

// recovery attempts to produce a candidate instance from the normalized
// input; the cascade tries each in order and the first validating candidate
// wins.
type recovery func(data map[string]any) map[string]any

// New creates a Parser for the given target record. A nil target is a
// construction error.
func New(target *schema.Record, optFns ...func(*Options)) (*Parser, error) {
	if target == nil {
		return nil, fmt.Errorf("parser: a target record is required")
	}
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Parser{target: target, logger: opts.Logger}, nil
}

// Target returns the record this parser validates against.
func (p *Parser) Target() *schema.Record { return p.target }

// Parse converts raw tool arguments (a JSON string or an already decoded
// map) into a validated instance of the target record.
//
// In strict mode any defect fails immediately with a per-field summary. In
// non-strict mode the recovery cascade runs; it only fails when no layer can
// produce a valid instance, which cannot happen while every required field
// of the target has a representable default.
func (p *Parser) Parse(raw any, strict bool) (map[string]any, error) {
	data, decodeIssue := p.normalize(raw)
	if decodeIssue != nil && strict {
		return nil, &Error{Record: p.target.Name(), Issues: []FieldIssue{*decodeIssue}}
	}

	if strict {
		if issues := p.validate(data); len(issues) > 0 {
			return nil, &Error{Record: p.target.Name(), Issues: issues}
		}
		return data, nil
	}

	var accumulated []FieldIssue
	if decodeIssue != nil {
		p.logger.Warn("parser.decode.degraded", "record", p.target.Name(), "error", decodeIssue.Message)
		accumulated = append(accumulated, *decodeIssue)
	}

	for _, attempt := range []recovery{p.direct, p.repairFields, p.safeSubset, p.minimal} {
		candidate := attempt(data)
		issues := p.validate(candidate)
		if len(issues) == 0 {
			return candidate, nil
		}
		accumulated = append(accumulated, issues...)
	}

	return nil, &Error{Record: p.target.Name(), Issues: accumulated}
}

// ParseMany leniently processes a batch of raw argument payloads, skipping
// entries that fail even after recovery.
func (p *Parser) ParseMany(raws []any) []map[string]any {
	results := make([]map[string]any, 0, len(raws))
	for i, raw := range raws {
		inst, err := p.Parse(raw, false)
		if err != nil {
			p.logger.Error("parser.batch.skip", "record", p.target.Name(), "index", i, "error", err.Error())
			continue
		}
		results = append(results, inst)
	}
	return results
}

// direct hands the normalized input through unchanged.
func (p *Parser) direct(data map[string]any) map[string]any { return data }

// repairFields coerces each declared field toward its kind, defaults
// unparsable or absent required fields and drops unknown fields.
func (p *Parser) repairFields(data map[string]any) map[string]any {
	repaired := make(map[string]any, len(p.target.Fields()))
	for _, f := range p.target.Fields() {
		v, present := data[f.Name]
		if present {
			if coerced, ok := coerceValue(f.Type, v); ok {
				repaired[f.Name] = coerced
				continue
			}
			p.logger.Debug("parser.repair.defaulted", "record", p.target.Name(), "field", f.Name)
		}
		if f.Required {
			repaired[f.Name] = schema.DefaultValue(f.Type)
		}
	}
	return repaired
}

// safeSubset keeps only fields that are present and coercible, then fills
// every other field, required or not, with its default.
func (p *Parser) safeSubset(data map[string]any) map[string]any {
	subset := make(map[string]any, len(p.target.Fields()))
	for _, f := range p.target.Fields() {
		if v, present := data[f.Name]; present {
			if coerced, ok := coerceValue(f.Type, v); ok {
				subset[f.Name] = coerced
				continue
			}
		}
		subset[f.Name] = schema.DefaultValue(f.Type)
	}
	return subset
}

// minimal ignores the input entirely and populates only required fields with
// their defaults.
func (p *Parser) minimal(map[string]any) map[string]any {
	inst := make(map[string]any)
	for _, f := range p.target.Fields() {
		if f.Required {
			inst[f.Name] = schema.DefaultValue(f.Type)
		}
	}
	return inst
}

// validate checks an instance against the target record and returns every
// field defect found. Unknown fields are defects only because the wire
// contract inlines the full property set; they are dropped during repair.
func (p *Parser) validate(data map[string]any) []FieldIssue {
	var issues []FieldIssue
	for _, f := range p.target.Fields() {
		v, present := data[f.Name]
		if !present {
			if f.Required {
				issues = append(issues, FieldIssue{Field: f.Name, Message: "required field is missing"})
			}
			continue
		}
		if err := checkValue(f.Type, v); err != nil {
			issues = append(issues, FieldIssue{Field: f.Name, Message: err.Error()})
		}
	}
	for name := range data {
		if _, known := p.target.Field(name); !known {
			issues = append(issues, FieldIssue{Field: name, Message: "unknown field"})
		}
	}
	return issues
}
