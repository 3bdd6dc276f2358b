package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/changelog"
	"github.com/mjurincic/peritext/internal/docstore"
)

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync <remote-path>",
		Short: "Exchange missing changes with another peritext document on disk",
		Long: `Computes each side's clock, derives the changes the other side is
missing via the sync diff primitive, and applies them both ways so both
documents converge to the same text and formatting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remotePath := args[0]

			localRoot, err := docstore.FindRoot(".")
			if err != nil {
				return fmt.Errorf("not a peritext document (run `peritext init` first): %w", err)
			}
			remoteRoot, err := docstore.FindRoot(remotePath)
			if err != nil {
				return fmt.Errorf("not a peritext document at %s: %w", remotePath, err)
			}

			localDoc, localStore, _, err := openDocumentAt(localRoot)
			if err != nil {
				return err
			}
			remoteDoc, remoteStore, _, err := openDocumentAt(remoteRoot)
			if err != nil {
				return err
			}

			localHistory, err := localStore.All()
			if err != nil {
				return err
			}
			remoteHistory, err := remoteStore.All()
			if err != nil {
				return err
			}

			toRemote := changelog.GetMissingChanges(localHistory, remoteDoc.Clock())
			toLocal := changelog.GetMissingChanges(remoteHistory, localDoc.Clock())

			if err := changelog.ApplyWithRetry(toLocal, localDoc.ApplyChange, 10000); err != nil {
				return err
			}
			if err := changelog.ApplyWithRetry(toRemote, remoteDoc.ApplyChange, 10000); err != nil {
				return err
			}
			for _, c := range toLocal {
				if err := localStore.Append(c); err != nil {
					return err
				}
			}
			for _, c := range toRemote {
				if err := remoteStore.Append(c); err != nil {
					return err
				}
			}

			fmt.Printf("synced: %d changes applied locally, %d changes sent to remote\n", len(toLocal), len(toRemote))
			return nil
		},
	}
	rootCmd.AddCommand(syncCmd)
}
