package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/amsfield/pricebook/internal/catalog"
)

func familiesCmd() *cobra.Command {
	var assignedOnly bool

	cmd := &cobra.Command{
		Use:   "families [snapshot.json]",
		Short: "List Good/Better/Best families in a snapshot",
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
			fams, err := c.TierFamilies()
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(fams))
			for k := range fams {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			out := cmd.OutOrStdout()
			for _, k := range keys {
				fam := fams[k]
				if assignedOnly && fam.Good == nil && fam.Better == nil && fam.Best == nil {
					continue
				}
				fmt.Fprintln(out, k)
				printVariant(out, "good", fam.Good)
				printVariant(out, "better", fam.Better)
				printVariant(out, "best", fam.Best)
				for _, p := range fam.Unassigned {
					fmt.Fprintf(out, "  unassigned  %-20s %10.2f\n", p.ID, float64(p.Price)/100)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&assignedOnly, "assigned-only", false, "only show families with tier assignments")
	return cmd
}

func printVariant(out io.Writer, tier string, p *catalog.Package) {
	if p == nil {
		return
	}
	fmt.Fprintf(out, "  %-11s %-20s %10.2f\n", tier, p.ID, float64(p.Price)/100)
}
