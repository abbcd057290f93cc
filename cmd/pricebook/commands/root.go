// Package commands implements the pricebook admin CLI: importing CRM
// exports into catalog snapshots, validating snapshots, and inspecting
// tier families without a running server.
package commands

import (
	"github.com/spf13/cobra"
)

var catalogPath string

func Execute() error {
	root := &cobra.Command{
		Use:           "pricebook",
		Short:         "Price-book catalog admin tool",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&catalogPath, "catalog", "data/pricebook.json", "catalog snapshot path")

	root.AddCommand(importCmd(), validateCmd(), tiersCmd(), familiesCmd())
	return root.Execute()
}
