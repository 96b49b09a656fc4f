package main

import (
	"fmt"

	"github.com/aretw0/circuitlab"
	"github.com/aretw0/circuitlab/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <layout-file|->",
	Short: "Export the circuit visualization",
	Long: `Builds the junctions of a layout and outputs a Mermaid diagram (graph LR) where junctions
are nodes and elements are links. Elements on a closed path are highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		app := mustLoadApp(cmd)
		plain, _ := cmd.Flags().GetBool("plain")

		l, err := readLayout(args[0], false)
		if err != nil {
			fail("%v", err)
		}

		g := circuitlab.New(app.GraphOptions()...)
		g.Load(cmd.Context(), l)

		var overlay *graph.GraphOverlay
		if !plain {
			overlay = graph.OverlayFromResult(g.Simulate(cmd.Context()))
		}

		// Generate and print Mermaid graph
		fmt.Print(graph.GenerateMermaid(g.Junctions(), g.Elements(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().Bool("plain", false, "Skip the simulation overlay")
}
