package schema

import "fmt"

// Kind enumerates the type kinds a Descriptor can take.
type Kind int

const (
	// KindString is a plain text value.
	KindString Kind = iota
	// KindInteger is a whole number.
	KindInteger
	// KindNumber is a floating point number.
	KindNumber
	// KindBoolean is a true/false value.
	KindBoolean
	// KindObject is a record with named, ordered fields.
	KindObject
	// KindArray is an ordered list of homogeneous items.
	KindArray
	// KindEnum is a string restricted to a fixed set of choices.
	KindEnum
	// KindUnion is an ordered set of alternative types.
	KindUnion
	// KindNull marks the null alternative inside a union; a union containing
	// a null alternative is how nullable fields are expressed.
	KindNull
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindEnum:
		return "enum"
	case KindUnion:
		return "union"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Field is one named member of an object Descriptor. Order is significant and
// preserved through description.
type Field struct {
	Name        string
	Type        *Descriptor
	Required    bool
	Description string
}

// Descriptor is the tagged-variant type model. Only the members matching Kind
// are meaningful: Fields for objects, Items for arrays, Choices for enums,
// Alternatives for unions. Descriptor graphs may be cyclic (a field may point
// back at an enclosing descriptor, directly or mutually); Describe guards
// against unbounded expansion.
type Descriptor struct {
	Kind         Kind
	Name         string // optional identifier, surfaced in diagnostics
	Description  string
	Fields       []Field
	Items        *Descriptor
	Choices      []string
	Alternatives []*Descriptor
}

// String returns a short identifier for the descriptor, preferring its name.
func (d *Descriptor) String() string {
	if d == nil {
		return "<nil>"
	}
	if d.Name != "" {
		return d.Name
	}
	return d.Kind.String()
}

// String creates a string descriptor.
func String() *Descriptor { return &Descriptor{Kind: KindString} }

// Integer creates an integer descriptor.
func Integer() *Descriptor { return &Descriptor{Kind: KindInteger} }

// Number creates a floating point descriptor.
func Number() *Descriptor { return &Descriptor{Kind: KindNumber} }

// Boolean creates a boolean descriptor.
func Boolean() *Descriptor { return &Descriptor{Kind: KindBoolean} }

// Null creates the null descriptor used as a union alternative.
func Null() *Descriptor { return &Descriptor{Kind: KindNull} }

// Object creates a named object descriptor with the given ordered fields.
func Object(name string, fields ...Field) *Descriptor {
	return &Descriptor{Kind: KindObject, Name: name, Fields: fields}
}

// Array creates an array descriptor with the given item type.
func Array(items *Descriptor) *Descriptor {
	return &Descriptor{Kind: KindArray, Items: items}
}

// Enum creates an enum descriptor with the given ordered choices.
func Enum(choices ...string) *Descriptor {
	return &Descriptor{Kind: KindEnum, Choices: choices}
}

// Union creates a union descriptor over the given ordered alternatives.
func Union(alternatives ...*Descriptor) *Descriptor {
	return &Descriptor{Kind: KindUnion, Alternatives: alternatives}
}

// Optional wraps a descriptor into a nullable union (type | null).
func Optional(d *Descriptor) *Descriptor { return Union(d, Null()) }

// Record is a named object descriptor used as a tool argument contract.
// Field names are unique within a record; construction enforces this.
type Record struct {
	name string
	root *Descriptor
}

// NewRecord builds a Record from ordered fields. It fails fast on an empty
// name, a nil field type or a duplicate field name.
func NewRecord(name string, fields ...Field) (*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("schema: record name is required")
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: record %q has a field with no name", name)
		}
		if f.Type == nil {
			return nil, fmt.Errorf("schema: record %q field %q has no type", name, f.Name)
		}
		if _, dup := seen[f.Name]; dup {
			return nil, fmt.Errorf("schema: record %q duplicates field %q", name, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return &Record{name: name, root: Object(name, fields...)}, nil
}

// MustRecord is NewRecord for statically known definitions; it panics on a
// construction error.
func MustRecord(name string, fields ...Field) *Record {
	r, err := NewRecord(name, fields...)
	if err != nil {
		panic(err)
	}
	return r
}

// RecordOf wraps an existing object descriptor as a Record. A nil or
// non-object descriptor is a construction error.
func RecordOf(name string, d *Descriptor) (*Record, error) {
	if d == nil {
		return nil, fmt.Errorf("schema: record %q requires a descriptor", name)
	}
	if d.Kind != KindObject {
		return nil, fmt.Errorf("schema: record %q requires an object descriptor, got %s", name, d.Kind)
	}
	return &Record{name: name, root: d}, nil
}

// Name returns the record name.
func (r *Record) Name() string { return r.name }

// Descriptor returns the underlying object descriptor.
func (r *Record) Descriptor() *Descriptor { return r.root }

// Fields returns the ordered field list.
func (r *Record) Fields() []Field { return r.root.Fields }

// Field looks a field up by name.
func (r *Record) Field(name string) (Field, bool) {
	for _, f := range r.root.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// DefaultValue returns the kind-appropriate default for a descriptor: "" for
// strings and enums, 0 for integers, 0.0 for numbers, false for booleans, an
// empty slice or map for arrays and objects. Unions default to their first
// non-null alternative; an all-null union degrades to the string default.
func DefaultValue(d *Descriptor) any {
	if d == nil {
		return ""
	}
	switch d.Kind {
	case KindString:
		return ""
	case KindEnum:
		// The empty string would not validate against the choice set.
		if len(d.Choices) > 0 {
			return d.Choices[0]
		}
		return ""
	case KindInteger:
		return int64(0)
	case KindNumber:
		return float64(0)
	case KindBoolean:
		return false
	case KindArray:
		return []any{}
	case KindObject:
		return map[string]any{}
	case KindUnion:
		for _, alt := range d.Alternatives {
			if alt != nil && alt.Kind != KindNull {
				return DefaultValue(alt)
			}
		}
		return ""
	case KindNull:
		return nil
	default:
		return ""
	}
}
