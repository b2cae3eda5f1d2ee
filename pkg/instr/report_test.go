package instr

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestReport_AddFile(t *testing.T) {
	file, err := ParseSource("simd.go", []byte(scanSource))
	require.NoError(t, err)

	expansions, err := ExpandFile(Config{}, file)
	require.NoError(t, err)

	report := &Report{}
	report.AddFile(file, expansions)

	require.Len(t, report.Tests, 3)
	assert.Equal(t, TestReport{
		SourceFile:  "simd.go",
		Function:    "add",
		Instruction: "addl",
		Test:        "assert_add_addl",
		Shim:        true,
		Skipped:     true,
	}, report.Tests[0])
	assert.Equal(t, "assert_sub_subl", report.Tests[1].Test)
	assert.False(t, report.Tests[1].Shim)
}

func TestReport_EncodeSortsAndRoundTrips(t *testing.T) {
	report := &Report{
		Tests: []TestReport{
			{SourceFile: "b.go", Test: "assert_z_subl", Function: "z", Instruction: "subl"},
			{SourceFile: "a.go", Test: "assert_m_addl", Function: "m", Instruction: "addl", Shim: true},
			{SourceFile: "a.go", Test: "assert_a_addl", Function: "a", Instruction: "addl", Skipped: true},
		},
	}

	var buffer bytes.Buffer
	require.NoError(t, report.Encode(&buffer))

	var decoded Report
	require.NoError(t, yaml.Unmarshal(buffer.Bytes(), &decoded))

	require.Len(t, decoded.Tests, 3)
	assert.Equal(t, "assert_a_addl", decoded.Tests[0].Test)
	assert.Equal(t, "assert_m_addl", decoded.Tests[1].Test)
	assert.Equal(t, "assert_z_subl", decoded.Tests[2].Test)
	assert.True(t, decoded.Tests[0].Skipped)
	assert.True(t, decoded.Tests[1].Shim)
}
