package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amsfield/pricebook/internal/catalog"
	"github.com/amsfield/pricebook/internal/importer"
)

func importCmd() *cobra.Command {
	var (
		overridesPath string
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "import <export.csv|export.xlsx>",
		Short: "Build a catalog snapshot from a CRM export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := loadRules(overridesPath)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			parse := importer.ParseCSV
			if strings.EqualFold(filepath.Ext(args[0]), ".xlsx") {
				parse = importer.ParseXLSX
			}
			table, warnings, err := parse(f)
			if err != nil {
				return err
			}

			c, runWarnings, err := importer.Run(table, rules)
			if err != nil {
				return err
			}
			warnings = append(warnings, runWarnings...)

			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "dry run: %d packages, %d warnings, version %s\n",
					len(c.Packages), len(warnings), c.Version)
				return nil
			}

			if err := c.SaveFile(catalogPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s: %d packages, %d warnings, version %s\n",
				catalogPath, len(c.Packages), len(warnings), c.Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&overridesPath, "overrides", "", "JSON file of package ID to tier overrides")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the pipeline without writing the snapshot")
	return cmd
}

// loadRules reads a tier override file, a JSON object of package ID to
// tier label ("good", "better", "best").
func loadRules(path string) (importer.Rules, error) {
	if path == "" {
		return importer.Rules{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return importer.Rules{}, fmt.Errorf("read overrides: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return importer.Rules{}, fmt.Errorf("parse overrides: %w", err)
	}

	rules := importer.Rules{Overrides: make(map[string]catalog.Tier, len(raw))}
	for id, label := range raw {
		tier := catalog.ParseTier(label)
		if !tier.Assigned() {
			return importer.Rules{}, fmt.Errorf("override for %s: unknown tier %q", id, label)
		}
		rules.Overrides[id] = tier
	}
	return rules, nil
}
