package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/crdt"
)

func init() {
	deleteCmd := &cobra.Command{
		Use:   "delete <index> <count>",
		Short: "Delete count visible characters starting at index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q: %w", args[0], err)
			}
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid count %q: %w", args[1], err)
			}

			doc, store, root, err := openDocument()
			if err != nil {
				return err
			}

			result, err := doc.Change([]crdt.Op{crdt.DeleteOp(index, count)})
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
	rootCmd.AddCommand(deleteCmd)
}
