package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/costbook/internal/cli/formatter"
	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/spf13/cobra"
)

func newEstimateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "estimate",
		Aliases: []string{"est"},
		Short:   "Manage estimates",
	}

	cmd.AddCommand(
		newEstimateAddCmd(app),
		newEstimateListCmd(app),
		newEstimateShowCmd(app),
		newEstimateSummaryCmd(app),
		newEstimateValidateCmd(app),
		newEstimateStatusCmd(app),
		newEstimateRemoveCmd(app),
	)

	return cmd
}

func newEstimateAddCmd(app *App) *cobra.Command {
	var name, project, client, issued, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an empty estimate",
		RunE: func(cmd *cobra.Command, args []string) error {
			issueDate, err := parseDateFlag("issued", issued)
			if err != nil {
				return err
			}
			e := &domain.Estimate{
				Name:       strings.TrimSpace(name),
				ProjectRef: project,
				ClientRef:  client,
				IssueDate:  issueDate,
				Notes:      notes,
			}
			if err := app.Estimates.Create(context.Background(), e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created estimate %s (%s)\n", e.Name, e.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Estimate name")
	cmd.Flags().StringVar(&project, "project", "", "Project reference")
	cmd.Flags().StringVar(&client, "client", "", "Client reference")
	cmd.Flags().StringVar(&issued, "issued", "", "Issue date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newEstimateListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List estimates with their subtotals",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter domain.EstimateStatus
			if status != "" {
				s, err := domain.ParseEstimateStatus(status)
				if err != nil {
					return err
				}
				filter = s
			}
			listings, err := app.Estimates.List(context.Background(), filter)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEstimateList(listings))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (draft|pending|approved|rejected)")
	return cmd
}

func newEstimateShowCmd(app *App) *cobra.Command {
	var asTree, fullIDs bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show an estimate's nodes and totals",
		Args:  cobra.ExactArgs(1),
	}
	summaryConfig := addTaxRateFlag(cmd, app)
	cmd.Flags().BoolVar(&asTree, "tree", false, "Render nodes as a tree")
	cmd.Flags().BoolVar(&fullIDs, "ids", false, "Show full node IDs")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id, err := resolveEstimateID(ctx, app, args[0])
		if err != nil {
			return err
		}
		sum, err := app.Estimates.Summary(ctx, id, summaryConfig())
		if err != nil {
			return err
		}
		e, err := app.Estimates.Get(ctx, id)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString(formatter.FormatEstimateHeader(e))
		b.WriteString("\n\n")
		if asTree {
			b.WriteString(formatter.FormatEstimateTree(e))
		} else {
			b.WriteString(formatter.FormatNodeTable(e, fullIDs))
		}
		b.WriteString("\n")
		b.WriteString(formatter.FormatSummary(sum))

		fmt.Fprintln(cmd.OutOrStdout(), formatter.RenderBox("Estimate", strings.TrimRight(b.String(), "\n")))
		return nil
	}
	return cmd
}

func newEstimateSummaryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary ID",
		Short: "Show subtotal, tax and grand total",
		Args:  cobra.ExactArgs(1),
	}
	summaryConfig := addTaxRateFlag(cmd, app)

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		id, err := resolveEstimateID(ctx, app, args[0])
		if err != nil {
			return err
		}
		sum, err := app.Estimates.Summary(ctx, id, summaryConfig())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSummary(sum))
		return nil
	}
	return cmd
}

func newEstimateValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate ID",
		Short: "Check a stored estimate for structural and rollup issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveEstimateID(ctx, app, args[0])
			if err != nil {
				return err
			}
			issues, err := app.Estimates.Validate(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIssues(issues))
			return nil
		},
	}
}

func newEstimateStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Move an estimate to draft, pending, approved or rejected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			status, err := domain.ParseEstimateStatus(args[1])
			if err != nil {
				return err
			}
			id, err := resolveEstimateID(ctx, app, args[0])
			if err != nil {
				return err
			}
			e, err := app.Estimates.SetStatus(ctx, id, status)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", e.Name, formatter.StatusPill(e.Status))
			return nil
		},
	}
}

func newEstimateRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete an estimate and all of its nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveEstimateID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Estimates.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed estimate %s\n", id)
			return nil
		},
	}
}
