package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amsfield/pricebook/internal/catalog"
	"github.com/amsfield/pricebook/internal/importer"
)

func tiersCmd() *cobra.Command {
	var (
		overridesPath string
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "tiers [snapshot.json]",
		Short: "Re-run tier assignment over an existing snapshot",
		Long: `Re-run tier assignment over an existing snapshot.

Useful after editing an overrides file: the snapshot is rebuilt with a
fresh version marker without going back to the CRM export.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := catalogPath
			if len(args) == 1 {
				path = args[0]
			}

			rules, err := loadRules(overridesPath)
			if err != nil {
				return err
			}

			c, err := catalog.LoadFile(path)
			if err != nil {
				return err
			}

			assigned := importer.AssignTiers(c.Packages, rules)
			rebuilt, warnings, err := importer.Build(assigned)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			changed := 0
			for i := range c.Packages {
				if c.Packages[i].Tier != rebuilt.Packages[i].Tier {
					changed++
				}
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d of %d packages would change tier\n",
					changed, len(rebuilt.Packages))
				return nil
			}

			if err := rebuilt.SaveFile(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d tier changes, version %s\n",
				path, changed, rebuilt.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&overridesPath, "overrides", "", "JSON file of package ID to tier overrides")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing the snapshot")
	return cmd
}
