package main

import (
	"encoding/json"
	"os"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <layout-file|->",
	Short: "Simulate a layout file",
	Long: `Reads a YAML or JSON layout (or stdin with "-"), runs one simulation pass and prints
the status, the closed paths and the element readings.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		asJSON, _ := cmd.Flags().GetBool("json")

		l, err := readLayout(args[0], false)
		if err != nil {
			fail("%v", err)
		}

		res, err := circuitlab.Run(cmd.Context(), l, app.GraphOptions()...)
		if err != nil {
			fail("%v", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				fail("encoding result: %v", err)
			}
			return
		}
		tui.PrintResult(os.Stdout, res)

		if strict, _ := cmd.Flags().GetBool("strict"); strict && !res.Complete() {
			os.Exit(2)
		}
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Bool("json", false, "Print the full result as JSON")
	simulateCmd.Flags().Bool("strict", false, "Exit with status 2 when the circuit is not complete")
}
