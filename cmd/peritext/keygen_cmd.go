package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/docstore"
	"github.com/mjurincic/peritext/internal/signing"
)

func init() {
	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a signing key for this document's changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := docstore.FindRoot(".")
			if err != nil {
				return fmt.Errorf("not a peritext document (run `peritext init` first): %w", err)
			}
			if _, err := signing.GenerateKeyPair(root); err != nil {
				return err
			}
			fmt.Println("Generated signing key for", root)
			return nil
		},
	}
	rootCmd.AddCommand(keygenCmd)
}
