package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/crdt"
)

func init() {
	var url, commentID string

	markCmd := &cobra.Command{
		Use:   "mark <add|remove> <markType> <start> <end>",
		Short: "Add or remove an inline format mark over [start, end]",
		Long: `markType is one of strong, em, link, comment. link requires --url,
comment requires --comment-id.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := args[0]
			markType := crdt.MarkType(args[1])
			start, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid start %q: %w", args[2], err)
			}
			end, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("invalid end %q: %w", args[3], err)
			}

			var attrs *crdt.Attrs
			switch markType {
			case crdt.MarkLink:
				attrs = &crdt.Attrs{URL: url}
			case crdt.MarkComment:
				attrs = &crdt.Attrs{ID: commentID}
			}

			var op crdt.Op
			switch action {
			case "add":
				op = crdt.AddMarkOp(start, end, markType, attrs)
			case "remove":
				op = crdt.RemoveMarkOp(start, end, markType, attrs)
			default:
				return fmt.Errorf("unknown mark action %q (want add or remove)", action)
			}

			doc, store, root, err := openDocument()
			if err != nil {
				return err
			}

			result, err := doc.Change([]crdt.Op{op})
			if err != nil {
				return err
			}
			if err := persistChange(store, root, result.Change); err != nil {
				return err
			}
			fmt.Print(doc.String())
			return nil
		},
	}
	markCmd.Flags().StringVar(&url, "url", "", "URL for link marks")
	markCmd.Flags().StringVar(&commentID, "comment-id", "", "comment id for comment marks")
	rootCmd.AddCommand(markCmd)
}
