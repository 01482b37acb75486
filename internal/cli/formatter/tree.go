package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one line of a rendered estimate tree.
type TreeItem struct {
	Code   string
	Title  string
	Level  int
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree draws items as an indented tree with box-drawing connectors.
// Details (amounts) are right-aligned in a column after the widest title.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	// lastAt[d] tracks whether the most recent item at depth d was the last
	// of its siblings, which decides between a pipe and a blank below it.
	var lastAt []bool
	contents := make([]string, len(items))
	width := 0
	for idx, item := range items {
		var prefix strings.Builder
		if item.Level > 0 {
			for d := 1; d < item.Level; d++ {
				if d < len(lastAt) && lastAt[d] {
					prefix.WriteString(treeBlank)
				} else {
					prefix.WriteString(treePipe)
				}
			}
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		for len(lastAt) <= item.Level {
			lastAt = append(lastAt, false)
		}
		lastAt[item.Level] = item.IsLast

		title := item.Title
		if item.Level == 0 {
			title = Bold(title)
		}
		if item.Code != "" {
			title = StyleDim.Render(item.Code) + " " + title
		}
		contents[idx] = StyleDim.Render(prefix.String()) + title
		width = max(width, lipgloss.Width(contents[idx]))
	}

	var b strings.Builder
	for idx, item := range items {
		b.WriteString(contents[idx])
		if item.Detail != "" {
			pad := width - lipgloss.Width(contents[idx])
			b.WriteString(strings.Repeat(" ", pad+2))
			b.WriteString(StyleBlue.Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
