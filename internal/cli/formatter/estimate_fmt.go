package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/costbook/internal/domain"
	"github.com/alexanderramin/costbook/internal/estimate"
	"github.com/alexanderramin/costbook/internal/importer"
	"github.com/alexanderramin/costbook/internal/repository"
)

// FormatEstimateHeader renders the header fields of an estimate.
func FormatEstimateHeader(e *domain.Estimate) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n\n", Bold(e.Name), StatusPill(e.Status)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("ID     "), e.ID))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("PROJECT"), orDash(e.ProjectRef)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("CLIENT "), orDash(e.ClientRef)))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("ISSUED "), HumanDate(e.IssueDate)))
	b.WriteString(fmt.Sprintf("  %s  %s", Dim("UPDATED"), HumanTimestamp(e.UpdatedAt)))
	if e.Notes != "" {
		b.WriteString(fmt.Sprintf("\n  %s  %s", Dim("NOTES  "), e.Notes))
	}
	return b.String()
}

// FormatNodeTable renders every node in display order, names indented by
// depth. Node IDs are truncated; use --ids on the command for full values.
func FormatNodeTable(e *domain.Estimate, fullIDs bool) string {
	if e.NodeCount() == 0 {
		return Dim("No nodes yet.") + "\n"
	}
	headers := []string{"ID", "CODE", "NAME", "QTY", "UNIT", "RATE", "AMOUNT"}
	aligns := []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignLeft, AlignRight, AlignRight}
	var rows [][]string
	e.Walk(func(n, _ *domain.Node, depth int) bool {
		id := TruncID(n.ID)
		if fullIDs {
			id = Dim(n.ID)
		}
		name := strings.Repeat("  ", depth) + n.Name
		if depth == 0 {
			name = Bold(name)
		}
		amount := Money(n.Amount)
		if n.HasChildren() {
			amount = Bold(amount)
		}
		rows = append(rows, []string{
			id, n.Code, name, Number(n.Quantity), n.Unit, Money(n.Rate), amount,
		})
		return true
	})
	return RenderAlignedTable(headers, aligns, rows)
}

// FormatEstimateTree renders the estimate as a connector tree with amounts.
func FormatEstimateTree(e *domain.Estimate) string {
	var items []TreeItem
	var walk func(nodes []*domain.Node, level int)
	walk = func(nodes []*domain.Node, level int) {
		for i, n := range nodes {
			items = append(items, TreeItem{
				Code:   n.Code,
				Title:  n.Name,
				Level:  level,
				IsLast: i == len(nodes)-1,
				Detail: Money(n.Amount),
			})
			walk(n.Children, level+1)
		}
	}
	walk(e.Groups, 0)
	if len(items) == 0 {
		return Dim("No nodes yet.") + "\n"
	}
	return RenderTree(items)
}

// FormatSummary renders subtotal, tax and grand total right-aligned.
func FormatSummary(s estimate.Summary) string {
	labels := []string{"Subtotal", fmt.Sprintf("Tax (%s)", Percent(s.TaxRatePercent)), "Grand total"}
	values := []string{Money(s.Subtotal), Money(s.TaxAmount), Money(s.GrandTotal)}

	labelW, valueW := 0, 0
	for i := range labels {
		labelW = max(labelW, len(labels[i]))
		valueW = max(valueW, len(values[i]))
	}
	var b strings.Builder
	for i := range labels {
		line := fmt.Sprintf("%-*s  %*s", labelW, labels[i], valueW, values[i])
		if i == len(labels)-1 {
			b.WriteString(StyleDim.Render(strings.Repeat("─", labelW+2+valueW)) + "\n")
			line = Bold(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// FormatEstimateList renders a listing table, one estimate per row.
func FormatEstimateList(listings []repository.EstimateListing) string {
	if len(listings) == 0 {
		return Dim("No estimates found.") + "\n"
	}
	headers := []string{"ID", "NAME", "STATUS", "PROJECT", "NODES", "SUBTOTAL", "UPDATED"}
	aligns := []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft}
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		e := l.Estimate
		rows = append(rows, []string{
			TruncID(e.ID),
			e.Name,
			StatusPill(e.Status),
			orDash(e.ProjectRef),
			strconv.Itoa(l.NodeCount),
			Money(l.Subtotal),
			HumanTimestamp(e.UpdatedAt),
		})
	}
	return RenderAlignedTable(headers, aligns, rows)
}

// FormatIssues renders validation findings, or a confirmation when clean.
func FormatIssues(issues []estimate.Issue) string {
	if len(issues) == 0 {
		return StyleGreen.Render("✔ No issues found.") + "\n"
	}
	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, []string{StyleYellow.Render(string(is.Kind)), orDash(is.Code), is.Message})
	}
	return RenderTable([]string{"KIND", "CODE", "MESSAGE"}, rows) +
		StyleYellow.Render(fmt.Sprintf("%d issue(s)", len(issues))) + "\n"
}

// FormatImportErrors renders row-level import problems in input order.
func FormatImportErrors(errs []importer.ImportError) string {
	if len(errs) == 0 {
		return ""
	}
	rows := make([][]string, 0, len(errs))
	for _, e := range errs {
		line := "-"
		if e.Line > 0 {
			line = strconv.Itoa(e.Line)
		}
		rows = append(rows, []string{
			strconv.Itoa(e.RowIndex),
			line,
			StyleRed.Render(string(e.Kind)),
			orDash(e.Column),
			orDash(e.Value),
			e.Message,
		})
	}
	return RenderTable([]string{"ROW", "LINE", "KIND", "COLUMN", "VALUE", "MESSAGE"}, rows)
}
