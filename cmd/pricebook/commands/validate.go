package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amsfield/pricebook/internal/catalog"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [snapshot.json]",
		Short: "Check a catalog snapshot against the schema",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := catalogPath
			if len(args) == 1 {
				path = args[0]
			}

			c, err := catalog.LoadFile(path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n  version:  %s\n  packages: %d\n  checksum: %s\n",
				path, c.Version, len(c.Packages), c.Checksum)
			return nil
		},
	}
}
