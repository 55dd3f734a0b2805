package sheet

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/character"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/rules"
	"github.com/louisbranch/savagesheet/internal/services/sheet/domain/validate"
)

const defaultPageSize = 20

func (c *cli) newRecomputeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "recompute <document>",
		Short: "Recompute a character document and print its sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := c.showSheet(id); err != nil {
				return err
			}
			if outPath == "" {
				return nil
			}
			return c.writeExport(cmd.Context(), id, outPath)
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the recomputed document to this file")
	return cmd
}

func (c *cli) newValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Report rule violations in a character document",
		Long:  "Prints every finding and fails when the character has errors, or warnings with --strict.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			var report validate.Report
			if err := c.rt.Service.View(id, func(_ *character.Aggregate, r validate.Report) { report = r }); err != nil {
				return err
			}
			if err := printFindings(c.out, report); err != nil {
				return err
			}

			limit := rules.SeverityError
			if strict {
				limit = rules.SeverityWarning
			}
			if report.Validity >= limit {
				return fmt.Errorf("character is %s: %d errors, %d warnings",
					report.Validity, report.Count(rules.SeverityError), report.Count(rules.SeverityWarning))
			}
			fmt.Fprintln(c.out, "character is valid")
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

func (c *cli) newSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <document>",
		Short: "Store a character document in the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.importFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := c.rt.Service.Save(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(c.out, id)
			return nil
		},
	}
}

func (c *cli) newLoadCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Load a stored character and print its document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			issues, err := c.rt.Service.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printIssues(cmd.ErrOrStderr(), issues)
			if outPath != "" {
				return c.writeExport(cmd.Context(), args[0], outPath)
			}
			data, err := c.rt.Service.Export(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.out, string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the document to this file instead of stdout")
	return cmd
}

func (c *cli) newListCmd() *cobra.Command {
	var (
		pageSize  int
		pageToken string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored characters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := c.rt.Service.List(cmd.Context(), pageSize, pageToken)
			if err != nil {
				return err
			}
			if len(page.Characters) == 0 {
				fmt.Fprintln(c.out, "No characters stored.")
				return nil
			}
			w := newTable(c.out)
			fmt.Fprintln(w, "ID\tNAME\tVALIDITY\tUPDATED")
			for _, record := range page.Characters {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", record.ID, record.Name, record.Validity, record.UpdatedAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if page.NextPageToken != "" {
				fmt.Fprintf(c.out, "\nnext page: --page-token %s\n", page.NextPageToken)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&pageSize, "page-size", defaultPageSize, "characters per page")
	cmd.Flags().StringVar(&pageToken, "page-token", "", "token from a previous page")
	return cmd
}

func (c *cli) newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored character",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.rt.Service.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "deleted %s\n", args[0])
			return nil
		},
	}
}

// importFile opens a document file as a character, printing import issues
// to stderr.
func (c *cli) importFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	id, issues, err := c.rt.Service.Import(ctx, data)
	if err != nil {
		return "", err
	}
	printIssues(os.Stderr, issues)
	return id, nil
}

func (c *cli) writeExport(ctx context.Context, id, path string) error {
	data, err := c.rt.Service.Export(ctx, id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func (c *cli) showSheet(id string) error {
	var printErr error
	err := c.rt.Service.View(id, func(ch *character.Aggregate, report validate.Report) {
		printErr = printSheet(c.out, ch, report)
	})
	if err != nil {
		return err
	}
	return printErr
}

func displayName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(unnamed)"
	}
	return name
}
