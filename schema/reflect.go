package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// FromStruct derives a Record from a Go struct using reflection. It is meant
// as a one-time introspection step at tool registration; the resulting Record
// is immutable afterwards.
//
// Mapping rules:
//   - exported fields only; `json:"-"` skips a field
//   - the json tag name, when present, becomes the field name
//   - a `description` tag becomes the field description
//   - pointer fields and `omitempty` fields are optional, everything else is
//     required
//   - nested structs recurse into object descriptors; slices into arrays;
//     maps into open objects
//   - recursive struct types (directly or mutually) produce a genuine
//     descriptor cycle, which Describe later bounds with its cycle guard
func FromStruct(v any) (*Record, error) {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil, fmt.Errorf("schema: cannot derive a record from nil")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: cannot derive a record from %s", t.Kind())
	}

	seen := map[reflect.Type]*Descriptor{}
	root := structDescriptor(t, seen)
	return RecordOf(t.Name(), root)
}

// structDescriptor builds (and memoizes) the object descriptor for a struct
// type. The descriptor is registered in seen before its fields are filled so
// self-referential types close into a pointer cycle instead of recursing.
func structDescriptor(t reflect.Type, seen map[reflect.Type]*Descriptor) *Descriptor {
	if d, ok := seen[t]; ok {
		return d
	}
	d := &Descriptor{Kind: KindObject, Name: t.Name()}
	seen[t] = d

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		jsonTag := sf.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := sf.Name
		if jsonTag != "" {
			if tagName := strings.Split(jsonTag, ",")[0]; tagName != "" {
				name = tagName
			}
		}

		fieldType := typeDescriptor(sf.Type, seen)
		required := sf.Type.Kind() != reflect.Ptr && !hasOmitEmpty(jsonTag)

		d.Fields = append(d.Fields, Field{
			Name:        name,
			Type:        fieldType,
			Required:    required,
			Description: sf.Tag.Get("description"),
		})
	}
	return d
}

func typeDescriptor(t reflect.Type, seen map[reflect.Type]*Descriptor) *Descriptor {
	switch t.Kind() {
	case reflect.Ptr:
		return typeDescriptor(t.Elem(), seen)
	case reflect.String:
		return String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer()
	case reflect.Float32, reflect.Float64:
		return Number()
	case reflect.Bool:
		return Boolean()
	case reflect.Slice, reflect.Array:
		return Array(typeDescriptor(t.Elem(), seen))
	case reflect.Struct:
		return structDescriptor(t, seen)
	case reflect.Map, reflect.Interface:
		return &Descriptor{Kind: KindObject, Name: t.Name()}
	default:
		return String()
	}
}

func hasOmitEmpty(tag string) bool {
	parts := strings.Split(tag, ",")
	for _, part := range parts[1:] {
		if strings.TrimSpace(part) == "omitempty" {
			return true
		}
	}
	return false
}
