package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mjurincic/peritext/internal/config"
	"github.com/mjurincic/peritext/internal/docstore"
)

func init() {
	var global bool

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config key (document-level by default, or --global)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, val := args[0], args[1]
			if global {
				return config.SetGlobalValue(key, val)
			}
			root, err := docstore.FindRoot(".")
			if err != nil {
				return config.SetGlobalValue(key, val)
			}
			return config.SetRepoValue(root, key, val)
		},
	}
	setCmd.Flags().BoolVar(&global, "global", false, "set global config instead of document-level")

	getCmd := &cobra.Command{
		Use:   "get <key>",
		Short: "Get a config value (document-level overrides global)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			root, _ := docstore.FindRoot(".")
			val, err := config.GetValue(root, key)
			if err != nil {
				return err
			}
			if val == "" {
				fmt.Printf("no value set for %s\n", key)
				return nil
			}
			fmt.Println(val)
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage peritext configuration",
	}
	configCmd.AddCommand(setCmd, getCmd)
	rootCmd.AddCommand(configCmd)
}
