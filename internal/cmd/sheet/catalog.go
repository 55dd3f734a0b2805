package sheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/louisbranch/savagesheet/internal/services/sheet/catalog/filter"
)

func (c *cli) newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse loaded catalog content",
	}
	cmd.AddCommand(c.newCatalogKindsCmd(), c.newCatalogListCmd())
	return cmd
}

func (c *cli) newCatalogKindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List catalog categories and their filter fields",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cat := c.rt.Service.Catalog()
			w := newTable(c.out)
			fmt.Fprintln(w, "KIND\tITEMS\tFIELDS")
			for _, kind := range filter.Kinds() {
				rows, err := filter.List(cat, kind, "")
				if err != nil {
					return err
				}
				fields, err := filter.FieldsFor(kind)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", kind, len(rows), strings.Join(fields.Names(), ","))
			}
			return w.Flush()
		},
	}
}

func (c *cli) newCatalogListCmd() *cobra.Command {
	var expr string

	cmd := &cobra.Command{
		Use:     "list <kind>",
		Short:   "List catalog items of one kind",
		Example: `  sheet catalog list edges --filter 'rank = "novice"'`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			rows, err := filter.List(c.rt.Service.Catalog(), filter.Kind(args[0]), expr)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Fprintln(c.out, "No matching items.")
				return nil
			}
			w := newTable(c.out)
			fmt.Fprintln(w, "ID\tNAME\tDETAILS")
			for _, row := range rows {
				fmt.Fprintf(w, "%s\t%s\t%s\n", row.ID, row.Name, details(row.Fields))
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&expr, "filter", "f", "", "AIP-160 filter over the kind's fields")
	return cmd
}

// details renders non-empty fields as key=value pairs in key order.
func details(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for key, value := range fields {
		if key == "id" || key == "name" || value == "" || value == int64(0) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, fields[key]))
	}
	return strings.Join(parts, " ")
}
