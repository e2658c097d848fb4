package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentsquad/agentsquad/schema"
)

func sumRecord(t *testing.T) *schema.Record {
	t.Helper()
	r, err := schema.NewRecord("SumArgs",
		schema.Field{Name: "a", Type: schema.Number(), Required: true, Description: "First addend"},
		schema.Field{Name: "b", Type: schema.Number(), Required: true, Description: "Second addend"},
	)
	require.NoError(t, err)
	return r
}

func sumTool(t *testing.T) *FunctionTool {
	t.Helper()
	ft, err := NewFunctionTool("calculate_sum", "Calculate the sum of two numbers", sumRecord(t),
		func(_ context.Context, args map[string]any) (any, error) {
			return args["a"].(float64) + args["b"].(float64), nil
		},
	)
	require.NoError(t, err)
	return ft
}

// -------------------- Construction --------------------

func TestNewFunctionToolValidation(t *testing.T) {
	fn := func(context.Context, map[string]any) (any, error) { return nil, nil }

	_, err := NewFunctionTool("", "desc", sumRecord(t), fn)
	assert.Error(t, err)

	_, err = NewFunctionTool("name", "", sumRecord(t), fn)
	assert.Error(t, err)

	_, err = NewFunctionTool("name", "desc", nil, fn)
	assert.Error(t, err)

	_, err = NewFunctionTool("name", "desc", sumRecord(t), nil)
	assert.Error(t, err)
}

func TestDescriptionAugmentation(t *testing.T) {
	ft := sumTool(t)

	desc := ft.Description()
	assert.Contains(t, desc, "Calculate the sum of two numbers")
	assert.Contains(t, desc, "a: number (required)")
	assert.Contains(t, desc, "First addend")

	plain, err := NewFunctionTool("plain", "No frills", sumRecord(t),
		func(context.Context, map[string]any) (any, error) { return nil, nil },
		func(o *FunctionToolOptions) { o.AugmentDescription = false },
	)
	require.NoError(t, err)
	assert.Equal(t, "No frills", plain.Description())
}

func TestDescriptorIsWireReady(t *testing.T) {
	ft := sumTool(t)
	d := ft.Descriptor()

	assert.Equal(t, "calculate_sum", d.Name)
	require.NotNil(t, d.Parameters)
	assert.Equal(t, "object", d.Parameters.Type)
	assert.ElementsMatch(t, []string{"a", "b"}, d.Parameters.Required)
	assert.Equal(t, "number", d.Parameters.Properties["a"].Type)
}

func TestNewFunctionToolFromStruct(t *testing.T) {
	type WeatherArgs struct {
		City string `json:"city" description:"City to look up"`
		Days *int   `json:"days" description:"Forecast horizon"`
	}

	ft, err := NewFunctionToolFromStruct("get_weather", "Look up the weather", WeatherArgs{},
		func(_ context.Context, args map[string]any) (any, error) {
			return "sunny in " + args["city"].(string), nil
		},
	)
	require.NoError(t, err)

	d := ft.Descriptor()
	assert.Equal(t, []string{"city"}, d.Parameters.Required)
	assert.Equal(t, "string", d.Parameters.Properties["city"].Type)

	out, err := ft.Call(context.Background(), map[string]any{"city": "Lisbon"})
	require.NoError(t, err)
	assert.Equal(t, "sunny in Lisbon", out)
}

// -------------------- Resolve & Call --------------------

func TestResolveCoercesArguments(t *testing.T) {
	ft := sumTool(t)

	args, err := ft.Resolve(`{"a":"2,5","b":3}`)
	require.NoError(t, err)
	assert.Equal(t, 2.5, args["a"])
	assert.Equal(t, float64(3), args["b"])

	out, err := ft.Call(context.Background(), args)
	require.NoError(t, err)
	assert.Equal(t, 5.5, out)
}

func TestResolveRecoversFromGarbage(t *testing.T) {
	ft := sumTool(t)

	args, err := ft.Resolve("not json")
	require.NoError(t, err)
	assert.Equal(t, float64(0), args["a"])
	assert.Equal(t, float64(0), args["b"])
}

func TestCallWrapsExecutionError(t *testing.T) {
	ft, err := NewFunctionTool("boom", "Always fails", sumRecord(t),
		func(context.Context, map[string]any) (any, error) {
			return nil, errors.New("kaput")
		},
	)
	require.NoError(t, err)

	_, err = ft.Call(context.Background(), map[string]any{"a": 1.0, "b": 2.0})
	require.Error(t, err)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, CodeExecutionError, toolErr.Code)
	assert.Equal(t, "boom", toolErr.Tool)
}

func TestCallPreservesToolError(t *testing.T) {
	custom := NewToolError("fancy", "limit reached", "RATE_LIMITED")
	ft, err := NewFunctionTool("fancy", "Custom failure", sumRecord(t),
		func(context.Context, map[string]any) (any, error) {
			return nil, custom
		},
	)
	require.NoError(t, err)

	_, err = ft.Call(context.Background(), map[string]any{"a": 1.0, "b": 2.0})
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "RATE_LIMITED", toolErr.Code)
	assert.Same(t, custom, toolErr)
}
