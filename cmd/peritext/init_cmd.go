package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/docstore"
)

func init() {
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a new peritext document",
		Long: `Creates a .peritext directory holding the document's change log
and config directories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			if err := docstore.Init(path); err != nil {
				return err
			}
			fmt.Println("Initialized peritext document at", path)
			return nil
		},
	}
	rootCmd.AddCommand(initCmd)
}
