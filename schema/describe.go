package schema

import "fmt"

// DefaultMaxDepth bounds descriptor recursion during Describe.
const DefaultMaxDepth = 10

// Description is the canonical wire form of a type: the minimal JSON-Schema
// dialect consumed by tool-calling models. It never contains unresolved
// references; nested types are always inlined.
type Description struct {
	Type        string                  `json:"type"`
	Description string                  `json:"description,omitempty"`
	Properties  map[string]*Description `json:"properties,omitempty"`
	Required    []string                `json:"required,omitempty"`
	Items       *Description            `json:"items,omitempty"`
	Enum        []string                `json:"enum,omitempty"`
}

// Map converts the description into the generic map shape expected by
// provider SDK parameter fields.
func (d *Description) Map() map[string]any {
	if d == nil {
		return nil
	}
	m := map[string]any{"type": d.Type}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Properties != nil {
		props := make(map[string]any, len(d.Properties))
		for name, p := range d.Properties {
			props[name] = p.Map()
		}
		m["properties"] = props
	}
	if len(d.Required) > 0 {
		required := make([]string, len(d.Required))
		copy(required, d.Required)
		m["required"] = required
	}
	if d.Items != nil {
		m["items"] = d.Items.Map()
	}
	if len(d.Enum) > 0 {
		choices := make([]string, len(d.Enum))
		copy(choices, d.Enum)
		m["enum"] = choices
	}
	return m
}

// DescribeOptions tune a Describe call.
type DescribeOptions struct {
	// MaxDepth bounds recursive descent; branches past it degrade to
	// placeholders. Defaults to DefaultMaxDepth.
	MaxDepth int
}

// resolveCtx is the per-call guard state threaded through the recursive
// descent: a set of descriptors currently being resolved (identity keyed) and
// the configured depth bound. Each top-level Describe owns a fresh one, so
// independent or nested conversions never interfere.
type resolveCtx struct {
	resolving map[*Descriptor]struct{}
	maxDepth  int
}

// Describe converts a record into its wire description. It always terminates
// and always returns a syntactically valid Description, for any input
// including self-referential or unbounded-depth types: cyclic or too-deep
// branches and field-level defects degrade to placeholder schemas. Only a
// violated top-level invariant (no object type or properties in the result)
// yields a *ConversionError.
func Describe(r *Record, optFns ...func(*DescribeOptions)) (*Description, error) {
	if r == nil || r.root == nil {
		return nil, &ConversionError{Record: "<nil>", Message: "no record supplied"}
	}

	opts := DescribeOptions{MaxDepth: DefaultMaxDepth}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}

	rc := &resolveCtx{resolving: map[*Descriptor]struct{}{}, maxDepth: opts.MaxDepth}
	desc := describeType(r.root, rc, 0)

	if desc.Type != "object" || desc.Properties == nil {
		return nil, &ConversionError{
			Record:  r.name,
			Message: fmt.Sprintf("result is not an object schema (type %q)", desc.Type),
		}
	}
	return desc, nil
}

// describeType resolves one descriptor branch. Defects never escape: every
// failure mode returns a placeholder carrying a diagnostic description.
func describeType(d *Descriptor, rc *resolveCtx, depth int) *Description {
	if d == nil {
		return placeholder("unresolved field type")
	}
	if depth > rc.maxDepth {
		return &Description{Type: "object", Description: "max depth exceeded"}
	}
	if _, busy := rc.resolving[d]; busy {
		return &Description{Type: "object", Description: "circular reference"}
	}
	rc.resolving[d] = struct{}{}
	defer delete(rc.resolving, d)

	switch d.Kind {
	case KindString:
		return &Description{Type: "string", Description: d.Description}
	case KindInteger:
		return &Description{Type: "integer", Description: d.Description}
	case KindNumber:
		return &Description{Type: "number", Description: d.Description}
	case KindBoolean:
		return &Description{Type: "boolean", Description: d.Description}
	case KindEnum:
		if len(d.Choices) == 0 {
			return placeholder("enum without choices")
		}
		choices := make([]string, len(d.Choices))
		copy(choices, d.Choices)
		return &Description{Type: "string", Enum: choices, Description: d.Description}
	case KindArray:
		return &Description{
			Type:        "array",
			Items:       describeType(d.Items, rc, depth+1),
			Description: d.Description,
		}
	case KindUnion:
		// Lossy collapse to the first non-null alternative. An all-null
		// union degrades to a string placeholder.
		for _, alt := range d.Alternatives {
			if alt == nil || alt.Kind == KindNull {
				continue
			}
			desc := describeType(alt, rc, depth+1)
			if desc.Description == "" && d.Description != "" {
				desc.Description = d.Description
			}
			return desc
		}
		return placeholder("union with no non-null alternative")
	case KindObject:
		props := make(map[string]*Description, len(d.Fields))
		var required []string
		for _, f := range d.Fields {
			fd := describeType(f.Type, rc, depth+1)
			if f.Description != "" {
				fd.Description = f.Description
			}
			props[f.Name] = fd
			if f.Required {
				required = append(required, f.Name)
			}
		}
		return &Description{
			Type:        "object",
			Properties:  props,
			Required:    required,
			Description: d.Description,
		}
	case KindNull:
		return placeholder("bare null type")
	default:
		return placeholder(fmt.Sprintf("unknown kind %d", int(d.Kind)))
	}
}

func placeholder(diag string) *Description {
	return &Description{Type: "string", Description: diag}
}
