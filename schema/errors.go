package schema

import "fmt"

// ConversionError reports a violated structural invariant in the result of a
// Describe call. Field-level defects never produce it; those degrade to
// placeholder branches instead.
type ConversionError struct {
	Record  string `json:"record"`
	Message string `json:"message"`
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("schema conversion failed for %s: %s", e.Record, e.Message)
}
