package instr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addSignature() *Signature {
	return &Signature{
		Name: "add",
		Params: []Parameter{
			{Name: "a", Type: "int32"},
			{Name: "b", Type: "int32"},
		},
		Results: "int32",
	}
}

func TestPlanShim_NoOverridesNoShim(t *testing.T) {
	shim, err := PlanShim(addSignature(), &Invocation{Instr: "addl"})
	require.NoError(t, err)
	assert.Nil(t, shim)
}

func TestPlanShim_SingleOverride(t *testing.T) {
	shim, err := PlanShim(addSignature(), &Invocation{
		Instr:     "addl",
		Overrides: []Override{{Name: "b", Expr: "1"}},
	})
	require.NoError(t, err)
	require.NotNil(t, shim)

	assert.Equal(t, "add_shim", shim.Name)
	assert.Equal(t, "add", shim.Target)
	assert.Equal(t, []Parameter{{Name: "a", Type: "int32"}}, shim.Params)
	assert.Equal(t, []string{"a", "1"}, shim.Args)
	assert.Equal(t, "int32", shim.Results)
}

func TestPlanShim_AllParametersOverridden(t *testing.T) {
	shim, err := PlanShim(addSignature(), &Invocation{
		Instr: "addl",
		Overrides: []Override{
			{Name: "a", Expr: "40"},
			{Name: "b", Expr: "2"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, shim)

	assert.Empty(t, shim.Params)
	assert.Equal(t, []string{"40", "2"}, shim.Args)
}

func TestPlanShim_ForwardedParametersKeepOriginalOrder(t *testing.T) {
	sig := &Signature{
		Name: "blend",
		Params: []Parameter{
			{Name: "a", Type: "[4]float32"},
			{Name: "b", Type: "[4]float32"},
			{Name: "mask", Type: "uint8"},
			{Name: "scale", Type: "float32"},
		},
		Results: "[4]float32",
	}

	shim, err := PlanShim(sig, &Invocation{
		Instr:     "vblendps",
		Overrides: []Override{{Name: "mask", Expr: "0b1010"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []Parameter{
		{Name: "a", Type: "[4]float32"},
		{Name: "b", Type: "[4]float32"},
		{Name: "scale", Type: "float32"},
	}, shim.Params)
	assert.Equal(t, []string{"a", "b", "0b1010", "scale"}, shim.Args)
}

func TestPlanShim_CopiesTargetAttributesOnly(t *testing.T) {
	sig := addSignature()
	sig.Attributes = []Attribute{
		{Kind: AttributeTargetFeature, Name: "targetfeature", Text: "//instrcheck:targetfeature(avx2)"},
		{Kind: AttributeOther, Name: "frobnicate", Text: "//instrcheck:frobnicate"},
		{Kind: AttributeTargetArch, Name: "targetarch", Text: "//instrcheck:targetarch(amd64)"},
	}

	shim, err := PlanShim(sig, &Invocation{
		Instr:     "addl",
		Overrides: []Override{{Name: "b", Expr: "1"}},
	})
	require.NoError(t, err)

	require.Len(t, shim.Attributes, 2)
	assert.Equal(t, "//instrcheck:targetfeature(avx2)", shim.Attributes[0].Text)
	assert.Equal(t, "//instrcheck:targetarch(amd64)", shim.Attributes[1].Text)
}

func TestPlanShim_FailsOnUnknownOverride(t *testing.T) {
	_, err := PlanShim(addSignature(), &Invocation{
		Instr:     "addl",
		Overrides: []Override{{Name: "c", Expr: "1"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOverride)
	assert.Contains(t, err.Error(), "c")
}

func TestPlanShim_FailsOnDuplicateOverride(t *testing.T) {
	_, err := PlanShim(addSignature(), &Invocation{
		Instr: "addl",
		Overrides: []Override{
			{Name: "b", Expr: "1"},
			{Name: "b", Expr: "2"},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownOverride)
}
