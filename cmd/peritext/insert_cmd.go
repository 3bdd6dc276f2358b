package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/crdt"
)

func init() {
	insertCmd := &cobra.Command{
		Use:   "insert <index> <text>",
		Short: "Insert text at a visible-text position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}

			doc, store, root, err := openDocument()
			if err != nil {
				return err
			}

			values := make([]string, 0, len(args[1]))
			for _, r := range args[1] {
				values = append(values, string(r))
			}

			result, err := doc.Change([]crdt.Op{crdt.InsertOp(index, values)})
			if err != nil {
				return err
			}
			if err := persistChange(store, root, result.Change); err != nil {
				return err
			}
			fmt.Println(doc.Text())
			return nil
		},
	}
	rootCmd.AddCommand(insertCmd)
}
