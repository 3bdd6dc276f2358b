package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "peritext",
	Short: "peritext - a CRDT-based collaborative rich-text document",
	Long: `peritext tracks a single rich-text document as a causal stream of
character-level insert/delete operations and inline formatting marks,
converging to identical text and formatting on every replica that has
observed the same operations.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
