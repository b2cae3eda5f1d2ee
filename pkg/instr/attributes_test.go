package instr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttribute_Assert(t *testing.T) {
	attr, ok := ParseAttribute("//instrcheck:assert(addl, b = 1)")
	require.True(t, ok)

	assert.Equal(t, AttributeAssert, attr.Kind)
	assert.Equal(t, "assert", attr.Name)
	assert.Equal(t, "(addl, b = 1)", attr.Args)
	assert.Equal(t, "//instrcheck:assert(addl, b = 1)", attr.Text)
}

func TestParseAttribute_TargetFeature(t *testing.T) {
	attr, ok := ParseAttribute("//instrcheck:targetfeature(avx2)")
	require.True(t, ok)

	assert.Equal(t, AttributeTargetFeature, attr.Kind)
	assert.True(t, attr.Kind.IsTarget())
}

func TestParseAttribute_TargetArch(t *testing.T) {
	attr, ok := ParseAttribute("//instrcheck:targetarch(amd64)")
	require.True(t, ok)

	assert.Equal(t, AttributeTargetArch, attr.Kind)
	assert.True(t, attr.Kind.IsTarget())
}

func TestParseAttribute_UnknownDirectiveIsOther(t *testing.T) {
	attr, ok := ParseAttribute("//instrcheck:frobnicate(now)")
	require.True(t, ok)

	assert.Equal(t, AttributeOther, attr.Kind)
	assert.Equal(t, "frobnicate", attr.Name)
	assert.False(t, attr.Kind.IsTarget())
}

func TestParseAttribute_SharedPrefixIsNotTarget(t *testing.T) {
	// Classification goes through the directive registry, a name that merely
	// starts with "target" carries no instruction-set precondition
	attr, ok := ParseAttribute("//instrcheck:targeted(something)")
	require.True(t, ok)

	assert.Equal(t, AttributeOther, attr.Kind)
	assert.False(t, attr.Kind.IsTarget())
}

func TestParseAttribute_IgnoresRegularComments(t *testing.T) {
	_, ok := ParseAttribute("// adds two numbers")
	assert.False(t, ok)
}

func TestParseAttribute_IgnoresSpacedDirective(t *testing.T) {
	// A space after the comment marker makes it a regular comment, matching
	// the Go directive convention
	_, ok := ParseAttribute("// instrcheck:assert(addl)")
	assert.False(t, ok)
}

func TestParseAttribute_IgnoresOtherTools(t *testing.T) {
	_, ok := ParseAttribute("//go:noinline")
	assert.False(t, ok)
}

func TestParseAttribute_IgnoresEmptyName(t *testing.T) {
	_, ok := ParseAttribute("//instrcheck:(addl)")
	assert.False(t, ok)
}
