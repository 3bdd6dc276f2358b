package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/config"
	"github.com/mjurincic/peritext/internal/crdt"
	"github.com/mjurincic/peritext/internal/docstore"
	"github.com/mjurincic/peritext/internal/signing"
)

func init() {
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "Show the change history",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := docstore.FindRoot(".")
			if err != nil {
				return fmt.Errorf("not a peritext document (run `peritext init` first): %w", err)
			}
			_, store, _, err := openDocument()
			if err != nil {
				return err
			}

			history, err := store.All()
			if err != nil {
				return err
			}
			changes := flattenHistory(history)
			if len(changes) == 0 {
				fmt.Println("No changes recorded.")
				return nil
			}
			sort.Slice(changes, func(i, j int) bool {
				if changes[i].Actor != changes[j].Actor {
					return changes[i].Actor < changes[j].Actor
				}
				return changes[i].Seq < changes[j].Seq
			})

			verify := config.GetValueDefault(root, config.KeyVerifySignatures, "") == "true"
			for _, c := range changes {
				ver := ""
				if c.Signature != "" && verify {
					ver = verifyLabel(root, &c)
				}
				fmt.Printf("change %s/%d%s  (counters %d..%d, %d ops)\n",
					c.Actor, c.Seq, ver, c.StartCounter, c.LastCounter(), len(c.Ops))
			}
			return nil
		},
	}
	rootCmd.AddCommand(logCmd)
}

func verifyLabel(root string, c *crdt.Change) string {
	valid, err := signing.Verify(root, c)
	switch {
	case err != nil:
		return " (error: " + err.Error() + ")"
	case valid:
		return " (verified)"
	default:
		return " (INVALID!)"
	}
}
