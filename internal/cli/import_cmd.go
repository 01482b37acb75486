package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/costbook/internal/cli/formatter"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/alexanderramin/costbook/internal/importer"
	"github.com/alexanderramin/costbook/internal/service"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var header importer.Header
	var strict, dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Build an estimate from a .csv, .json or .xlsx file of flat rows",
		Long: `Import reads one row per line item. Rows carry an optional level
(0 group, 1 section, 2 subsection); without it, the level is inferred from
dotted codes such as 1, 1.1, 1.1.1. Malformed rows are reported and either
skipped or repaired; --strict refuses to save when any were found.`,
		Args: cobra.ExactArgs(1),
	}
	summaryConfig := addTaxRateFlag(cmd, app)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if _, err := parseDateFlag("issued", header.IssueDate); err != nil {
			return err
		}
		cfg := summaryConfig()
		if err := cfg.Validate(); err != nil {
			return err
		}
		res, err := app.Import.ImportFile(context.Background(), args[0], service.ImportOptions{
			Header: header,
			DryRun: dryRun,
			Strict: strict,
		})
		out := cmd.OutOrStdout()
		if res != nil && len(res.Errors) > 0 {
			fmt.Fprintln(out, formatter.Header(fmt.Sprintf("%d row issue(s)", len(res.Errors))))
			fmt.Fprint(out, formatter.FormatImportErrors(res.Errors))
			fmt.Fprintln(out)
		}
		if err != nil {
			if errors.Is(err, service.ErrImportRejected) {
				return fmt.Errorf("%w; nothing was saved (drop --strict to keep valid rows)", err)
			}
			return err
		}

		e := res.Estimate
		switch {
		case res.Saved:
			fmt.Fprintf(out, "Imported %d node(s) from %d row(s) into %s (%s)\n", e.NodeCount(), res.Rows, e.Name, e.ID)
		default:
			fmt.Fprintf(out, "Dry run: %d node(s) from %d row(s), nothing saved\n", e.NodeCount(), res.Rows)
		}
		if res.Skipped > 0 {
			fmt.Fprintln(out, formatter.Dim(fmt.Sprintf("%d row(s) skipped", res.Skipped)))
		}
		fmt.Fprint(out, formatter.FormatSummary(estimate.ComputeSummary(e, cfg)))
		return nil
	}

	cmd.Flags().StringVar(&header.Name, "name", "", "Estimate name (default: from file, then file name)")
	cmd.Flags().StringVar(&header.ProjectRef, "project", "", "Project reference")
	cmd.Flags().StringVar(&header.ClientRef, "client", "", "Client reference")
	cmd.Flags().StringVar(&header.IssueDate, "issued", "", "Issue date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&header.Notes, "notes", "", "Free-form notes")
	cmd.Flags().BoolVar(&strict, "strict", false, "Refuse to save when any row has an issue")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and report without saving")

	return cmd
}
