package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the document's text and its formatting runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, _, _, err := openDocument()
			if err != nil {
				return err
			}
			fmt.Print(doc.String())
			return nil
		},
	}
	rootCmd.AddCommand(showCmd)
}
