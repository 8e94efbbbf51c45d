package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/myseum/pkg/grid"
	"github.com/matzehuels/myseum/pkg/wall"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, valid candidates
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors, conflicts
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	StyleError   = lipgloss.NewStyle().Foreground(colorRed)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)

	styleCell      = lipgloss.NewStyle().Foreground(colorWhite)
	styleSelected  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	styleValid     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	styleInvalid   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleConflict  = lipgloss.NewStyle().Foreground(colorRed)
	styleEmptyCell = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Walls
// =============================================================================

// printWall prints a wall's metadata, its grid and the item legend.
func printWall(w *wall.Wall) {
	printKeyValue("Wall", w.Name+" "+StyleDim.Render(w.ID))
	printKeyValue("Owner", w.OwnerID)
	printKeyValue("Grid", fmt.Sprintf("%s cells of %.2g in", w.Size(), w.Unit))
	printKeyValue("Shared", fmt.Sprintf("%v", w.Public))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, renderGrid(w.Items, w.Size(), gridView{}))
	if len(w.Items) > 0 {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, renderLegend(w.Items, ""))
	}
}

// printSummaries prints a table of walls.
func printSummaries(walls []wall.Summary) {
	rows := make([][]string, 0, len(walls))
	for _, s := range walls {
		shared := ""
		if s.Public {
			shared = iconSuccess
		}
		rows = append(rows, []string{
			s.ID, s.Name, fmt.Sprintf("%dx%d", s.Width, s.Height),
			fmt.Sprintf("%d", s.ItemCount), shared, s.UpdatedAt.Local().Format("Jan 2 15:04"),
		})
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Grid", "Items", "Shared", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 || col == 5 {
				return StyleDim
			}
			return StyleValue
		})
	fmt.Fprintln(stdout, t.Render())
}

// gridView is the interaction overlay drawn on a grid.
type gridView struct {
	Selected  string
	Candidate *wall.Item
	Valid     bool
	Conflicts []string
}

// itemLabel returns the one-character label of the i-th item.
func itemLabel(i int) string {
	const labels = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	return string(labels[i%len(labels)])
}

// renderGrid draws items as labelled cells, two columns per grid unit. A
// candidate is drawn over the arrangement in place of its item, green when
// valid and red otherwise. Candidate cells past the grid are clipped.
func renderGrid(items []wall.Item, size grid.Size, v gridView) string {
	height := size.Height
	if v.Candidate != nil {
		height = max(height, v.Candidate.Position.Y+v.Candidate.Size.Height)
	}

	cells := make([][]string, height)
	for y := range cells {
		cells[y] = make([]string, size.Width)
		for x := range cells[y] {
			cells[y][x] = styleEmptyCell.Render("· ")
		}
	}
	paint := func(r grid.Rect, s string) {
		for y := max(r.Y, 0); y < min(r.Bottom(), height); y++ {
			for x := max(r.X, 0); x < min(r.Right(), size.Width); x++ {
				cells[y][x] = s
			}
		}
	}

	for i, it := range items {
		if v.Candidate != nil && it.ID == v.Candidate.ID {
			continue
		}
		style := styleCell
		switch {
		case slices.Contains(v.Conflicts, it.ID):
			style = styleConflict
		case it.ID == v.Selected:
			style = styleSelected
		}
		paint(it.Rect(), style.Render(itemLabel(i)+" "))
	}
	if c := v.Candidate; c != nil {
		style := styleInvalid
		if v.Valid {
			style = styleValid
		}
		paint(c.Rect(), style.Render("▓▓"))
	}

	var b strings.Builder
	border := StyleDim.Render("+" + strings.Repeat("--", size.Width) + "+")
	b.WriteString(border + "\n")
	for y, row := range cells {
		edge := StyleDim.Render("|")
		if y >= size.Height {
			edge = StyleWarning.Render(":")
		}
		b.WriteString(edge + strings.Join(row, "") + edge + "\n")
	}
	b.WriteString(border)
	return b.String()
}

// renderLegend lists every item with its label, marking the selected one.
func renderLegend(items []wall.Item, selected string) string {
	var b strings.Builder
	for i, it := range items {
		marker := "  "
		if it.ID == selected {
			marker = styleSelected.Render("▸ ")
		}
		title := it.Payload.Title
		if title == "" {
			title = StyleDim.Render("untitled")
		}
		fmt.Fprintf(&b, "%s%s %-24s %s %s %s\n", marker, styleCell.Bold(true).Render(itemLabel(i)),
			title, StyleDim.Render(it.Position.String()), StyleDim.Render(it.Size.String()), StyleDim.Render(it.ID))
	}
	return strings.TrimRight(b.String(), "\n")
}
