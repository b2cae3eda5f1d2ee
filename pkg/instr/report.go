package instr

import (
	"io"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// TestReport summarizes one generated assertion test
type TestReport struct {
	SourceFile  string `yaml:"source_file"`
	Function    string `yaml:"function"`
	Instruction string `yaml:"instruction"`
	Test        string `yaml:"test"`
	Shim        bool   `yaml:"shim"`
	Skipped     bool   `yaml:"skipped"`
}

// Report summarizes a whole generation run, one entry per generated test
type Report struct {
	Tests []TestReport `yaml:"tests"`
}

// AddFile records the expansions generated for one source file
func (r *Report) AddFile(file *SourceFile, expansions []*Expansion) {
	for _, expansion := range expansions {
		r.Tests = append(r.Tests, TestReport{
			SourceFile:  file.Path,
			Function:    expansion.Function.Name,
			Instruction: expansion.Invocation.Instr,
			Test:        expansion.Test.Name,
			Shim:        expansion.Shim != nil,
			Skipped:     expansion.Test.Skip,
		})
	}
}

// Encode writes the report as YAML, sorted by source file and test name so
// the output is stable across runs
func (r *Report) Encode(writer io.Writer) error {
	slices.SortFunc(r.Tests, func(a, b TestReport) int {
		if c := strings.Compare(a.SourceFile, b.SourceFile); c != 0 {
			return c
		}

		return strings.Compare(a.Test, b.Test)
	})

	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()

	return encoder.Encode(r)
}
