package generate

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOutputs_NextToInputs(t *testing.T) {
	outputs, err := resolveOutputs("", []string{
		filepath.Join("a", "simd.go"),
		filepath.Join("b", "simd.go"),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		filepath.Join("a", "simd.go"): filepath.Join("a", "simd_instrcheck_test.go"),
		filepath.Join("b", "simd.go"): filepath.Join("b", "simd_instrcheck_test.go"),
	}, outputs)
}

func TestResolveOutputs_OutputDir(t *testing.T) {
	outputs, err := resolveOutputs("out", []string{
		filepath.Join("a", "add.go"),
		filepath.Join("b", "sub.go"),
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		filepath.Join("a", "add.go"): filepath.Join("out", "add_instrcheck_test.go"),
		filepath.Join("b", "sub.go"): filepath.Join("out", "sub_instrcheck_test.go"),
	}, outputs)
}

func TestResolveOutputs_CollidingBaseNames(t *testing.T) {
	_, err := resolveOutputs("out", []string{
		filepath.Join("a", "simd.go"),
		filepath.Join("b", "simd.go"),
	})
	require.Error(t, err)

	assert.Contains(t, err.Error(), filepath.Join("a", "simd.go"))
	assert.Contains(t, err.Error(), filepath.Join("b", "simd.go"))
	assert.Contains(t, err.Error(), filepath.Join("out", "simd_instrcheck_test.go"))
}
