package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/circuitlab/internal/cli"
	"github.com/aretw0/circuitlab/internal/config"
	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/aretw0/circuitlab/pkg/layout"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "circuitlab",
	Short: "circuitlab simulates hand-drawn circuits",
	Long: `circuitlab checks whether a layout of batteries, wires, switches, lamps and meters forms
a closed loop, reports the conducting paths and the readings of every element, keeps
sandboxes and grades challenge solutions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (default "+config.DefaultPath+" if present)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging and simulation hooks on stderr")
	rootCmd.PersistentFlags().String("store", "", "Sandbox store driver: memory, file, redis or badger")
	rootCmd.PersistentFlags().String("store-path", "", "Directory of the file or badger store")
	rootCmd.PersistentFlags().String("challenges", "", "Directory of markdown challenges (default: built-in set)")
}

// loadApp reads the config file and applies the persistent flag overrides.
func loadApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, path != "")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("store") {
		cfg.Store.Driver, _ = cmd.Flags().GetString("store")
	}
	if cmd.Flags().Changed("store-path") {
		cfg.Store.Path, _ = cmd.Flags().GetString("store-path")
	}
	if cmd.Flags().Changed("challenges") {
		cfg.Challenges.Dir, _ = cmd.Flags().GetString("challenges")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewApp(cfg, debug)
}

// mustLoadApp is loadApp for Run functions.
func mustLoadApp(cmd *cobra.Command) *cli.App {
	app, err := loadApp(cmd)
	if err != nil {
		fail("%v", err)
	}
	return app
}

// readLayout decodes a layout file, or stdin for "-". Strict mode also validates it;
// simulations run on unvalidated layouts because the engine drops malformed elements.
func readLayout(path string, strict bool) (*domain.Layout, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		l, err := layout.Decode(data)
		if err != nil {
			return nil, err
		}
		if strict {
			return l, layout.Validate(l)
		}
		return l, nil
	}

	if strict {
		return layout.ReadFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	l, err := layout.Decode(data)
	if err != nil {
		return nil, err
	}
	if l.ID == "" {
		l.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return l, nil
}

// fail prints the error and exits with status 1.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
