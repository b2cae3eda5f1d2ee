package instr

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/Manu343726/instrcheck/pkg/utils"
)

//go:embed templates
var Templates embed.FS

// Import path of the default runtime assertion helper. The helper performs
// the actual disassembly and instruction matching at test-run time, it lives
// in its own module and is not part of this one.
const DefaultHelperImport = "github.com/Manu343726/instrtest"

// Config carries the generation-time decisions that used to be ambient
// build-system state. It is threaded explicitly into the emitter so the skip
// decision is testable in isolation.
type Config struct {
	// Optimized reports whether the build runs with instruction verification
	// enabled. When false, generated tests are emitted skipped rather than
	// removed, so they still show up in test enumeration.
	Optimized bool
	// Import path of the runtime assertion helper. Empty selects
	// DefaultHelperImport.
	HelperImport string
}

func (c Config) helperImport() string {
	if c.HelperImport == "" {
		return DefaultHelperImport
	}

	return c.HelperImport
}

func (c Config) helperPackage() string {
	path := c.helperImport()
	segment := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		segment = path[i+1:]
	}

	// The segment is used as the import alias and must be a valid
	// identifier: keep its leading identifier run, so a gopkg.in style
	// "check.v1" aliases as "check"
	alias := segment
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || i > 0 && c >= '0' && c <= '9' {
			continue
		}

		alias = segment[:i]
		break
	}

	if alias == "" {
		return "instrtest"
	}

	return alias
}

// TestCase is the generated test that delegates the instruction-presence
// check to the runtime assertion helper
type TestCase struct {
	// Test function name, always assert_<function>_<instruction>
	Name string
	// Function the assertion runs against: the shim when one was
	// synthesized, the original function otherwise
	Target string
	// Expected instruction mnemonic
	Instr string
	// Skip marks the test skipped because the build does not verify
	// instructions
	Skip bool
}

// NewTestCase builds the test case for a function, its invocation and the
// (possibly nil) shim plan
func NewTestCase(sig *Signature, invocation *Invocation, shim *ShimPlan, config Config) *TestCase {
	target := sig.Name
	if shim != nil {
		target = shim.Name
	}

	return &TestCase{
		Name:   fmt.Sprintf("assert_%s_%s", sig.Name, invocation.Instr),
		Target: target,
		Instr:  invocation.Instr,
		Skip:   !config.Optimized,
	}
}

// GeneratedFile is the full companion test file generated for one annotated
// source file
type GeneratedFile struct {
	// Package clause of the generated file, same package as the source so
	// unexported functions stay reachable
	Package string
	// Import path and package name of the runtime assertion helper
	HelperImport  string
	HelperPackage string
	// Name of the driver test that registers every generated assertion as a
	// subtest, unique per source file within a package
	DriverName string
	// One entry per expanded assert directive, in source order
	Entries []renderEntry
}

type renderEntry struct {
	*Expansion
	HelperPackage string
}

// NewGeneratedFile assembles the emitter input for one source file and its
// expansions
func NewGeneratedFile(file *SourceFile, config Config, expansions []*Expansion) *GeneratedFile {
	generated := &GeneratedFile{
		Package:       file.Package,
		HelperImport:  config.helperImport(),
		HelperPackage: config.helperPackage(),
		DriverName:    driverName(file.Path),
	}

	for _, expansion := range expansions {
		generated.Entries = append(generated.Entries, renderEntry{
			Expansion:     expansion,
			HelperPackage: generated.HelperPackage,
		})
	}

	return generated
}

// driverName derives the per-file driver test name from the source file name
func driverName(path string) string {
	base := strings.TrimSuffix(baseName(path), ".go")

	var builder strings.Builder
	builder.WriteString("TestInstructionAssertions_")
	for _, r := range base {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			builder.WriteRune(r)
		} else {
			builder.WriteByte('_')
		}
	}

	return builder.String()
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}

	return path
}

// Emitter renders generated test files from expansion results
type Emitter struct {
	template *template.Template
}

func NewEmitter() (*Emitter, error) {
	funcs := template.FuncMap{
		"Join": func(separator string, items []string) string {
			return strings.Join(items, separator)
		},
		"FormatParams": func(params []Parameter) string {
			return strings.Join(utils.Map(params, Parameter.String), ", ")
		},
	}

	t, err := template.New("asserts.go.tmpl").Funcs(funcs).
		ParseFS(Templates, "templates/*.tmpl")

	if err != nil {
		return nil, err
	}

	return &Emitter{
		template: t,
	}, nil
}

// GenerateTo renders the companion test file for a generated file and writes
// it gofmt-formatted
func (e *Emitter) GenerateTo(writer io.Writer, file *GeneratedFile) error {
	var buffer bytes.Buffer
	if err := e.template.ExecuteTemplate(&buffer, "asserts.go.tmpl", file); err != nil {
		return err
	}

	return writeFormatted(writer, buffer.Bytes())
}

// Generate renders the companion test file to the given path
func (e *Emitter) Generate(outputFile string, file *GeneratedFile) error {
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return e.GenerateTo(f, file)
}

// RenderExpansion writes the macro-style expansion of a single directive: the
// original declaration verbatim, followed by the generated shim and test.
// This is the additive output contract of the transformation, the original
// code is always a strict subset of it.
func (e *Emitter) RenderExpansion(writer io.Writer, config Config, expansion *Expansion) error {
	var buffer bytes.Buffer
	entry := renderEntry{
		Expansion:     expansion,
		HelperPackage: config.helperPackage(),
	}

	if err := e.template.ExecuteTemplate(&buffer, "macro", entry); err != nil {
		return err
	}

	return writeFormatted(writer, buffer.Bytes())
}

func writeFormatted(writer io.Writer, source []byte) error {
	formatted, err := format.Source(source)
	if err != nil {
		return utils.MakeError(err, "generated code does not format")
	}

	_, err = writer.Write(formatted)
	return err
}
