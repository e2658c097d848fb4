// Package schema models structured record types and converts them into the
// wire-level JSON schema dialect spoken by tool-calling models.
//
// Core pieces:
//   - Descriptor / Record: an in-memory, possibly self-referential type model
//     (primitives, objects, arrays, enums, unions)
//   - Describe: Record -> Description conversion with a per-call cycle and
//     depth guard, guaranteed to terminate for any input
//   - FromStruct: one-time reflection step deriving a Record from a Go struct
//
// Unions are deliberately collapsed to their first non-null alternative when
// described on the wire; the tool-calling dialects this package targets do
// not speak union schemas.
package schema
