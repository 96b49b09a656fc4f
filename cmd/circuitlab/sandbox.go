package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/circuitlab/internal/cli"
	"github.com/aretw0/circuitlab/internal/presentation/tui"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/layout"
	"github.com/aretw0/circuitlab/pkg/sandbox"
	"github.com/spf13/cobra"
)

var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Manage persistent sandboxes",
	Long:  `Create, list, inspect, simulate and remove sandboxes kept in the configured store.`,
}

// withSandboxes opens the configured store for the duration of fn.
func withSandboxes(cmd *cobra.Command, fn func(*cli.App, *sandbox.Manager)) {
	app := mustLoadApp(cmd)
	mgr, closeStore, err := app.SandboxManager()
	if err != nil {
		fail("%v", err)
	}
	defer closeStore()
	fn(app, mgr)
}

var sandboxLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sandboxes",
	Run: func(cmd *cobra.Command, args []string) {
		withSandboxes(cmd, func(_ *cli.App, mgr *sandbox.Manager) {
			ids, err := mgr.List(cmd.Context())
			if err != nil {
				fail("listing sandboxes: %v", err)
			}

			if len(ids) == 0 {
				fmt.Println("No sandboxes found.")
				return
			}

			fmt.Println("Sandboxes:")
			for _, id := range ids {
				fmt.Println("- " + id)
			}
		})
	},
}

var sandboxCreateCmd = &cobra.Command{
	Use:   "create [layout-file|-]",
	Short: "Create a sandbox, empty, from a layout file or from a challenge",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		challengeID, _ := cmd.Flags().GetString("challenge")
		name, _ := cmd.Flags().GetString("name")

		withSandboxes(cmd, func(app *cli.App, mgr *sandbox.Manager) {
			ctx := cmd.Context()
			var (
				created *domain.Layout
				err     error
			)

			switch {
			case challengeID != "":
				catalog, cerr := app.Catalog(ctx)
				if cerr != nil {
					fail("%v", cerr)
				}
				ch, cerr := catalog.Get(ctx, challengeID)
				if cerr != nil {
					fail("%v", cerr)
				}
				created, err = mgr.FromChallenge(ctx, ch)
			case len(args) == 1:
				l, lerr := readLayout(args[0], true)
				if lerr != nil {
					fail("%v", lerr)
				}
				if name != "" {
					l.Name = name
				}
				created, err = mgr.Create(ctx, l)
			default:
				created, err = mgr.Create(ctx, &domain.Layout{Name: name})
			}
			if err != nil {
				fail("creating sandbox: %v", err)
			}
			fmt.Printf("Created sandbox '%s' (%d elements)\n", created.ID, len(created.Elements))
		})
	},
}

var sandboxInspectCmd = &cobra.Command{
	Use:   "inspect <sandbox-id>",
	Short: "Print the layout of a sandbox",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		withSandboxes(cmd, func(_ *cli.App, mgr *sandbox.Manager) {
			l, err := mgr.Load(cmd.Context(), args[0])
			if err != nil {
				fail("loading sandbox '%s': %v", args[0], err)
			}

			var data []byte
			if asYAML {
				data, err = layout.Encode(l)
			} else {
				// Pretty print JSON
				data, err = json.MarshalIndent(l, "", "  ")
			}
			if err != nil {
				fail("marshaling layout: %v", err)
			}
			fmt.Println(string(data))
		})
	},
}

var sandboxSimulateCmd = &cobra.Command{
	Use:   "simulate <sandbox-id>",
	Short: "Simulate a stored sandbox",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withSandboxes(cmd, func(_ *cli.App, mgr *sandbox.Manager) {
			res, err := mgr.Simulate(cmd.Context(), args[0])
			if err != nil {
				fail("simulating sandbox '%s': %v", args[0], err)
			}
			tui.PrintResult(os.Stdout, res)
		})
	},
}

var sandboxExportCmd = &cobra.Command{
	Use:   "export <sandbox-id> <file>",
	Short: "Write a sandbox to a YAML layout file",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		withSandboxes(cmd, func(_ *cli.App, mgr *sandbox.Manager) {
			l, err := mgr.Load(cmd.Context(), args[0])
			if err != nil {
				fail("loading sandbox '%s': %v", args[0], err)
			}
			if err := layout.WriteFile(args[1], l); err != nil {
				fail("%v", err)
			}
			fmt.Printf("Exported '%s' to %s\n", args[0], args[1])
		})
	},
}

var sandboxRmCmd = &cobra.Command{
	Use:   "rm <sandbox-id>...",
	Short: "Remove one or more sandboxes",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		hasError := false
		withSandboxes(cmd, func(_ *cli.App, mgr *sandbox.Manager) {
			for _, id := range args {
				if err := mgr.Delete(cmd.Context(), id); err != nil {
					fmt.Fprintf(os.Stderr, "Error removing '%s': %v\n", id, err)
					hasError = true
				} else {
					fmt.Printf("Removed sandbox '%s'\n", id)
				}
			}
		})
		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sandboxCmd)
	sandboxCmd.AddCommand(sandboxLsCmd)
	sandboxCmd.AddCommand(sandboxCreateCmd)
	sandboxCmd.AddCommand(sandboxInspectCmd)
	sandboxCmd.AddCommand(sandboxSimulateCmd)
	sandboxCmd.AddCommand(sandboxExportCmd)
	sandboxCmd.AddCommand(sandboxRmCmd)

	sandboxCreateCmd.Flags().String("challenge", "", "Seed the sandbox with a challenge's starter elements")
	sandboxCreateCmd.Flags().String("name", "", "Sandbox name")
	sandboxInspectCmd.Flags().Bool("yaml", false, "Print YAML instead of JSON")
}
