package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/circuitlab"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of circuitlab",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("circuitlab version %s\n", strings.TrimSpace(circuitlab.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
