package tools

import (
	"fmt"
	"os"
	"strings"

	"github.com/Manu343726/instrcheck/pkg/instr"
	"github.com/Manu343726/instrcheck/pkg/utils"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

var module string
var supportedModules = map[string]func() string{
	"instr.directives": instr.DocString,
}

func moduleNames() []string {
	names := utils.Keys(supportedModules)
	slices.Sort(names)
	return names
}

var docsCmd = &cobra.Command{
	Use:   "docs module",
	Short: "Show instrcheck documentation",
	Long: `Dumps the documentation of the specified instrcheck module.
By default the tool dumps the documentation to stdout, but it can be redirected to a file using the --output flag.

Supported modules:
` + strings.Join(utils.Map(moduleNames(), func(module string) string { return "  " + module }), "\n"),
	Args:      cobra.MatchAll(cobra.OnlyValidArgs, cobra.MaximumNArgs(1), cobra.MinimumNArgs(1)),
	ValidArgs: moduleNames(),
	Run: func(cmd *cobra.Command, args []string) {
		module = args[0]
		outputFile, _ := cmd.Flags().GetString("output")
		if outputFile != "" {
			file, err := os.Create(outputFile)
			if err != nil {
				fmt.Println("Error creating file:", err)
				os.Exit(1)
			}
			defer file.Close()
			fmt.Fprintln(file, supportedModules[module]())
		} else {
			fmt.Println(supportedModules[module]())
		}
	},
}

func init() {
	ToolsCmd.AddCommand(docsCmd)
	docsCmd.Flags().StringP("output", "o", "", "Output file. If not specified, the documentation is dumped to stdout.")
}
