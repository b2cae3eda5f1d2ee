package generate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Manu343726/instrcheck/pkg/instr"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var outputDir string
var reportFile string
var printExpansions bool

var (
	colorError   = color.New(color.FgRed, color.Bold)
	colorSuccess = color.New(color.FgGreen)
	colorFile    = color.New(color.FgCyan)
)

// GenerateCmd represents the generate command
var GenerateCmd = &cobra.Command{
	Use:   "generate file.go [file.go...]",
	Short: "Generate instruction assertion tests for the given Go source files",
	Long: `Scans each source file for //instrcheck:assert directives and writes a
companion <file>_instrcheck_test.go with one assertion test per directive,
plus an argument pinning shim when the directive overrides arguments.

Unless the tool runs in optimized mode (--optimized, or "optimized: true" in
the config file) the generated tests are marked skipped, never removed, so
they still show up when tests are enumerated.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := instr.Config{
			Optimized:    viper.GetBool("optimized"),
			HelperImport: viper.GetString("helper-import"),
		}

		emitter, err := instr.NewEmitter()
		if err != nil {
			colorError.Fprintf(os.Stderr, "error initializing emitter: %v\n", err)
			os.Exit(1)
		}

		report := &instr.Report{}
		generated := 0

		outputs := map[string]string{}
		if !printExpansions {
			outputs, err = resolveOutputs(outputDir, args)
			if err != nil {
				colorError.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		}

		for _, path := range args {
			file, expansions, err := expandFile(config, path)
			if err != nil {
				colorError.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			if len(expansions) == 0 {
				slog.Debug("no assert directives found", "file", path)
				continue
			}

			if printExpansions {
				for _, expansion := range expansions {
					if err := emitter.RenderExpansion(os.Stdout, config, expansion); err != nil {
						colorError.Fprintf(os.Stderr, "error rendering expansion of %s: %v\n", expansion.Function.Name, err)
						os.Exit(2)
					}
					fmt.Println()
				}
			} else {
				output := outputs[path]
				if err := emitter.Generate(output, instr.NewGeneratedFile(file, config, expansions)); err != nil {
					colorError.Fprintf(os.Stderr, "error generating %s: %v\n", output, err)
					os.Exit(2)
				}

				colorSuccess.Fprint(os.Stderr, "generated ")
				colorFile.Fprintln(os.Stderr, output)
			}

			report.AddFile(file, expansions)
			generated += len(expansions)
		}

		slog.Info("generation finished", "files", len(args), "tests", generated, "optimized", config.Optimized)

		if reportFile != "" {
			if err := writeReport(report); err != nil {
				colorError.Fprintf(os.Stderr, "error writing report: %v\n", err)
				os.Exit(2)
			}
		}
	},
}

func expandFile(config instr.Config, path string) (*instr.SourceFile, []*instr.Expansion, error) {
	slog.Debug("scanning", "file", path)

	file, err := instr.ParseSourceFile(path)
	if err != nil {
		return nil, nil, err
	}

	expansions, err := instr.ExpandFile(config, file)
	if err != nil {
		return nil, nil, err
	}

	return file, expansions, nil
}

func outputPath(dir string, path string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".go")
	if dir == "" {
		dir = filepath.Dir(path)
	}

	return filepath.Join(dir, base+"_instrcheck_test.go")
}

// resolveOutputs maps each input file to its generated file path. With a
// shared output directory two inputs with the same base name would silently
// overwrite each other's output, so colliding paths are an error.
func resolveOutputs(dir string, inputs []string) (map[string]string, error) {
	outputs := make(map[string]string, len(inputs))
	sources := map[string]string{}

	for _, input := range inputs {
		output := outputPath(dir, input)
		if previous, taken := sources[output]; taken {
			return nil, fmt.Errorf("%s and %s would both generate %s", previous, input, output)
		}

		sources[output] = input
		outputs[input] = output
	}

	return outputs, nil
}

func writeReport(report *instr.Report) error {
	f, err := os.Create(reportFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return report.Encode(f)
}

func init() {
	GenerateCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for generated files. If omitted, each file is written next to its source")
	GenerateCmd.Flags().StringVar(&reportFile, "report", "", "Write a YAML summary of the generated tests to this file")
	GenerateCmd.Flags().BoolVar(&printExpansions, "print", false, "Print macro-style expansions (original plus generated code) to stdout instead of writing files")
	GenerateCmd.Flags().Bool("optimized", false, "Instruction verification is enabled in this build; do not mark generated tests skipped")
	GenerateCmd.Flags().String("helper-import", "", "Import path of the runtime assertion helper (default "+instr.DefaultHelperImport+")")
	viper.BindPFlag("optimized", GenerateCmd.Flags().Lookup("optimized"))
	viper.BindPFlag("helper-import", GenerateCmd.Flags().Lookup("helper-import"))
}
