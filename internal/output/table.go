package output

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/sheetwm/internal/theme"
)

// Table renders the outputs and views of a snapshot as bordered tables.
func Table(snap Snapshot) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableKey())

	styled := func(row, _ int) lipgloss.Style {
		if row == -1 {
			return headerStyle
		}
		return cellStyle
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s mode=%s focused=%d pending=%d\n",
		titleStyle.Render("STATE"), snap.Mode, snap.Focused, snap.Pending)

	var rows [][]string
	for _, o := range snap.Outputs {
		alt := "-"
		if o.Alternate >= 0 {
			alt = strconv.Itoa(o.Alternate)
		}
		rows = append(rows, []string{
			o.Name,
			boxString(o.Geometry),
			strconv.Itoa(o.Sheet),
			alt,
			joinInts(o.Inhabited),
			joinIDs(o.Stack),
		})
	}
	sb.WriteString(titleStyle.Render("OUTPUTS") + "\n")
	sb.WriteString(newTable(styled).
		Headers("Name", "Geometry", "Sheet", "Alt", "Inhabited", "Stack").
		Rows(rows...).Render() + "\n")

	rows = rows[:0]
	for _, v := range snap.Views {
		rows = append(rows, []string{
			strconv.Itoa(int(v.ID)),
			v.AppID,
			v.Output,
			strconv.Itoa(v.Sheet),
			v.Group,
			boxString(v.Geometry),
			flags(v),
			v.Mark,
		})
	}
	sb.WriteString(titleStyle.Render("VIEWS") + "\n")
	sb.WriteString(newTable(styled).
		Headers("ID", "App", "Output", "Sheet", "Group", "Geometry", "Flags", "Mark").
		Rows(rows...).Render() + "\n")
	return sb.String()
}

func newTable(styled func(row, col int) lipgloss.Style) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		StyleFunc(styled)
}

func boxString(b [4]int) string {
	return fmt.Sprintf("%d,%d %dx%d", b[0], b[1], b[2], b[3])
}

func joinInts(in []int) string {
	parts := make([]string, len(in))
	for i, n := range in {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func joinIDs(in []uint32) string {
	parts := make([]string, len(in))
	for i, n := range in {
		parts[i] = strconv.FormatUint(uint64(n), 10)
	}
	return strings.Join(parts, " ")
}

// flags abbreviates the view state: h hidden, d dirty, f floating,
// i iconified, p public, t tiled, plus the maximization.
func flags(v ViewState) string {
	var sb strings.Builder
	for _, f := range []struct {
		on bool
		c  byte
	}{
		{v.Hidden, 'h'}, {v.Dirty, 'd'}, {v.Floating, 'f'},
		{v.Iconified, 'i'}, {v.Public, 'p'}, {v.Tiled, 't'},
	} {
		if f.on {
			sb.WriteByte(f.c)
		}
	}
	if v.Maximized != "" {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(v.Maximized)
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}
