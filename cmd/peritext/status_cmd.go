package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/status"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-actor change counts for this document",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, store, _, err := openDocument()
			if err != nil {
				return err
			}
			history, err := store.All()
			if err != nil {
				return err
			}
			s := status.GetStatus(doc.ActorID(), doc.Clock(), history)
			fmt.Print(status.FormatStatus(s))
			return nil
		},
	}
	rootCmd.AddCommand(statusCmd)
}
