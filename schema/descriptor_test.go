package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordValidation(t *testing.T) {
	_, err := NewRecord("")
	assert.Error(t, err)

	_, err = NewRecord("Expense", Field{Name: "", Type: String()})
	assert.Error(t, err)

	_, err = NewRecord("Expense", Field{Name: "value", Type: nil})
	assert.Error(t, err)

	_, err = NewRecord("Expense",
		Field{Name: "value", Type: Number()},
		Field{Name: "value", Type: String()},
	)
	assert.Error(t, err)

	r, err := NewRecord("Expense",
		Field{Name: "description", Type: String(), Required: true},
		Field{Name: "value", Type: Number(), Required: true},
	)
	require.NoError(t, err)
	assert.Equal(t, "Expense", r.Name())
	assert.Len(t, r.Fields(), 2)

	f, ok := r.Field("value")
	assert.True(t, ok)
	assert.Equal(t, KindNumber, f.Type.Kind)

	_, ok = r.Field("missing")
	assert.False(t, ok)
}

func TestRecordOfRejectsNonObject(t *testing.T) {
	_, err := RecordOf("Bad", String())
	assert.Error(t, err)

	_, err = RecordOf("Bad", nil)
	assert.Error(t, err)

	r, err := RecordOf("Good", Object("Good", Field{Name: "a", Type: String(), Required: true}))
	require.NoError(t, err)
	assert.Equal(t, "Good", r.Name())
}

func TestMustRecordPanicsOnMisuse(t *testing.T) {
	assert.Panics(t, func() {
		MustRecord("Dup",
			Field{Name: "a", Type: String()},
			Field{Name: "a", Type: String()},
		)
	})
}

func TestDefaultValue(t *testing.T) {
	assert.Equal(t, "", DefaultValue(String()))
	assert.Equal(t, int64(0), DefaultValue(Integer()))
	assert.Equal(t, float64(0), DefaultValue(Number()))
	assert.Equal(t, false, DefaultValue(Boolean()))
	assert.Equal(t, []any{}, DefaultValue(Array(String())))
	assert.Equal(t, map[string]any{}, DefaultValue(Object("X")))
	// Enums default to their first choice so the default itself validates.
	assert.Equal(t, "a", DefaultValue(Enum("a", "b")))
	assert.Equal(t, "", DefaultValue(Enum()))
	// Unions default to the first non-null alternative.
	assert.Equal(t, float64(0), DefaultValue(Optional(Number())))
	assert.Equal(t, "", DefaultValue(Union(Null())))
	assert.Equal(t, "", DefaultValue(nil))
}
