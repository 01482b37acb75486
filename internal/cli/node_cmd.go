package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/costbook/internal/cli/formatter"
	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Edit the groups, sections and subsections of an estimate",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeUpdateCmd(app),
		newNodeRemoveCmd(app),
	)

	return cmd
}

// loadEstimateFlag resolves --estimate and loads the estimate.
func loadEstimateFlag(ctx context.Context, app *App, input string) (*domain.Estimate, error) {
	id, err := resolveEstimateID(ctx, app, input)
	if err != nil {
		return nil, err
	}
	return app.Estimates.Get(ctx, id)
}

func newNodeAddCmd(app *App) *cobra.Command {
	var estimateRef, parentRef, kind, description string
	var notes []string
	var interactive bool
	var quantity, rate decimal.Decimal
	v := nodeFormValues{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a node to an estimate",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, err := loadEstimateFlag(ctx, app, estimateRef)
			if err != nil {
				return err
			}

			parentID := ""
			if parentRef != "" {
				if parentID, err = resolveNodeID(e, parentRef); err != nil {
					return err
				}
			}

			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive requires a terminal")
				}
				if cmd.Flags().Changed("qty") {
					v.Qty = quantity.String()
				}
				if cmd.Flags().Changed("rate") {
					v.Rate = rate.String()
				}
				if err := runForm(nodeForm(&v)); err != nil {
					return err
				}
				if quantity, err = parseOptionalDecimal(v.Qty, quantity); err != nil {
					return fmt.Errorf("quantity: %w", err)
				}
				if rate, err = parseOptionalDecimal(v.Rate, rate); err != nil {
					return fmt.Errorf("rate: %w", err)
				}
			}
			if v.Name == "" {
				return fmt.Errorf("node name is required (use --name or --interactive)")
			}

			n := &domain.Node{
				Code:        v.Code,
				Name:        v.Name,
				Description: description,
				Unit:        v.Unit,
				Quantity:    quantity,
				Rate:        rate,
				Notes:       notes,
			}
			if kind != "" {
				if n.Kind, err = domain.ParseNodeKind(kind); err != nil {
					return err
				}
			}

			if err := app.Estimates.InsertNode(ctx, e.ID, parentID, n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s) = %s\n",
				n.Kind, n.Name, formatter.TruncID(n.ID), formatter.Money(n.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&estimateRef, "estimate", "", "Estimate ID or prefix")
	cmd.Flags().StringVar(&parentRef, "parent", "", "Parent node ID or code (omit for a group)")
	cmd.Flags().StringVar(&kind, "kind", "", "Node kind (group|section|subsection); inferred from the parent when omitted")
	cmd.Flags().StringVar(&v.Code, "code", "", "Hierarchical code, e.g. 1.2")
	cmd.Flags().StringVar(&v.Name, "name", "", "Node name")
	cmd.Flags().StringVar(&description, "description", "", "Longer description")
	cmd.Flags().StringVar(&v.Unit, "unit", "", "Unit of measure")
	decimalVar(cmd.Flags(), &quantity, "qty", decimal.NewFromInt(1), "Quantity")
	decimalVar(cmd.Flags(), &rate, "rate", decimal.Zero, "Unit rate")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Note (repeatable)")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for node fields")
	_ = cmd.MarkFlagRequired("estimate")

	return cmd
}

func parseOptionalDecimal(s string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if s == "" {
		return fallback, nil
	}
	return domain.ParseDecimal(s)
}

func newNodeUpdateCmd(app *App) *cobra.Command {
	var estimateRef, code, name, description, unit string
	var notes []string
	var quantity, rate decimal.Decimal

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a node; amounts are recomputed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, err := loadEstimateFlag(ctx, app, estimateRef)
			if err != nil {
				return err
			}
			nodeID, err := resolveNodeID(e, args[0])
			if err != nil {
				return err
			}

			var patch estimate.Patch
			flags := cmd.Flags()
			if flags.Changed("code") {
				patch.Code = &code
			}
			if flags.Changed("name") {
				patch.Name = &name
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("unit") {
				patch.Unit = &unit
			}
			if flags.Changed("qty") {
				patch.Quantity = &quantity
			}
			if flags.Changed("rate") {
				patch.Rate = &rate
			}
			if flags.Changed("note") {
				patch.Notes = &notes
			}

			n, err := app.Estimates.UpdateNode(ctx, e.ID, nodeID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s = %s\n", n.Kind, n.Name, formatter.Money(n.Amount))
			return nil
		},
	}

	cmd.Flags().StringVar(&estimateRef, "estimate", "", "Estimate ID or prefix")
	cmd.Flags().StringVar(&code, "code", "", "New code")
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().StringVar(&unit, "unit", "", "New unit")
	decimalVar(cmd.Flags(), &quantity, "qty", decimal.Zero, "New quantity")
	decimalVar(cmd.Flags(), &rate, "rate", decimal.Zero, "New rate")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "Replace notes (repeatable)")
	_ = cmd.MarkFlagRequired("estimate")

	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	var estimateRef string

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a node and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			e, err := loadEstimateFlag(ctx, app, estimateRef)
			if err != nil {
				return err
			}
			nodeID, err := resolveNodeID(e, args[0])
			if err != nil {
				return err
			}
			if err := app.Estimates.RemoveNode(ctx, e.ID, nodeID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed node %s\n", formatter.TruncID(nodeID))
			return nil
		},
	}

	cmd.Flags().StringVar(&estimateRef, "estimate", "", "Estimate ID or prefix")
	_ = cmd.MarkFlagRequired("estimate")

	return cmd
}
