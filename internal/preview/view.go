package preview

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/pool"
	"github.com/Gaurav-Gosain/sheetwm/internal/theme"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
	"github.com/charmbracelet/x/ansi"
)

const statusBarHeight = 1

// View renders the desktop with the status bar below it, or the help
// overlay.
func (m *Model) View() tea.View {
	var view tea.View

	var content string
	if m.showHelp {
		content = m.renderHelp()
	} else {
		content = m.renderDesktop() + "\n" + m.renderStatusBar()
	}
	view.SetContent(content)

	view.AltScreen = true
	view.MouseMode = tea.MouseModeAllMotion
	return view
}

// renderDesktop crops the composed outputs to the terminal.
func (m *Model) renderDesktop() string {
	rows := max(m.height-statusBarHeight, 0)
	lines := strings.Split(m.exec.Render(), "\n")
	if m.width <= 0 {
		return strings.Join(lines, "\n")
	}

	sb := pool.GetStringBuilder()
	defer pool.PutStringBuilder(sb)
	for i := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if i < len(lines) {
			sb.WriteString(ansi.Truncate(lines[i], m.width, ""))
		}
	}
	return sb.String()
}

// renderStatusBar shows the mode, the current sheet, the focused view and
// either a notification or the pending acknowledgements.
func (m *Model) renderStatusBar() string {
	s := m.exec.Server()
	st := s.Mode()

	base := pool.GetStyle()
	defer pool.PutStyle(base)
	*base = base.Background(theme.StatusBg()).Foreground(theme.StatusFg())

	pill := base.Background(theme.StatusMode()).Foreground(theme.StatusBg()).Bold(true).Padding(0, 1)
	left := pill.Render(strings.ToUpper(st.Mode.String()))

	if ws := s.Workspace(); ws != nil {
		sheet := fmt.Sprintf(" sheet %d", ws.CurrentSheet().Nr)
		if alt := ws.AlternateSheet(); alt != nil {
			sheet += fmt.Sprintf(" (%d)", alt.Nr)
		}
		left += base.Bold(true).Render(sheet)
	}
	if v, ok := s.Focused(); ok {
		left += base.Render(" " + describe(v))
	}
	if m.recorder.IsRecording() {
		left += base.Foreground(theme.StatusError()).Bold(true).Render(" ● REC")
	}
	if m.player != nil && !m.player.IsFinished() {
		left += base.Foreground(theme.StatusAccent()).Render(fmt.Sprintf(" ▶ %d%%", m.player.Progress()))
	}

	right := m.statusHint(st)
	if m.notice.text != "" && time.Now().Before(m.notice.until) {
		fg := theme.StatusAccent()
		if m.notice.isError {
			fg = theme.StatusError()
		}
		right = base.Foreground(fg).Render(m.notice.text + " ")
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	bar := left + base.Render(strings.Repeat(" ", gap)) + right
	if m.width > 0 {
		bar = ansi.Truncate(bar, m.width, "…")
	}
	return bar
}

func (m *Model) statusHint(st wm.ModeState) string {
	style := lipgloss.NewStyle().Background(theme.StatusBg()).Foreground(theme.StatusFg())
	switch st.Mode {
	case wm.ModeGroupAssign:
		text := "group: " + st.Input.String()
		if m.exec.Server().GroupAssignConflict() {
			return style.Foreground(theme.StatusError()).Render(text + " (names a sheet) ")
		}
		return style.Render(text + " ")
	case wm.ModeMarkSelect:
		if st.SwitchOnSelect {
			return style.Render("switch to mark ")
		}
		return style.Render("show mark ")
	}
	if n := m.exec.Display().Pending(); n > 0 {
		return style.Render(fmt.Sprintf("%d pending ", n))
	}
	keys := m.exec.Registry().GetKeysForDisplay("toggle_help")
	if keys == "" {
		return ""
	}
	return style.Foreground(theme.HelpGray()).Render(keys + " help ")
}

// describe labels a view the way the indicator does.
func describe(v *wm.View) string {
	label := v.Title()
	if label == "" {
		label = v.AppID
	}
	if v.Group() != nil && !v.Group().IsSheetGroup() {
		label += " [" + v.Group().Name + "]"
	}
	if mark := v.Mark(); mark != 0 {
		label += " '" + string(mark)
	}
	if mx := v.Maximized(); mx != nil {
		label += " " + mx.Maximization.String()
	}
	return label
}

// resizeHelp fits the help viewport above its footer line.
func (m *Model) resizeHelp() {
	m.help.SetWidth(max(m.width, 0))
	m.help.SetHeight(max(m.height-1, 1))
}

// renderHelp lists the keybindings, or the keys of the active mode, in a
// scrollable viewport.
func (m *Model) renderHelp() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Padding(0, 1)
	keyStyle := lipgloss.NewStyle().Foreground(theme.HelpKeyBadge()).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	sections := config.GetKeybindings(m.exec.Registry())
	if mode := m.exec.Server().Mode().Mode; mode != wm.ModeNormal {
		sections = []config.KeybindingSection{{
			Title:    strings.ToUpper(mode.String()),
			Bindings: config.GetModeKeybindings(mode.String()),
		}}
	}

	var rows [][]string
	for _, section := range sections {
		rows = append(rows, []string{strings.TrimSuffix(section.Title, ":"), ""})
		for _, b := range section.Bindings {
			rows = append(rows, []string{b.Key, b.Description})
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.HelpBorder())).
		Headers("Keys", "Action").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case rows[row][1] == "":
				return headerStyle
			case col == 0:
				return keyStyle
			}
			return cellStyle
		})

	body := t.Render()
	footerText := "esc to close"
	if m.width <= 0 || m.height <= 0 {
		return lipgloss.JoinVertical(lipgloss.Center, body,
			lipgloss.NewStyle().Foreground(theme.HelpGray()).Italic(true).Render(footerText))
	}

	m.help.SetContent(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, body))
	if !m.help.AtTop() || !m.help.AtBottom() {
		footerText = fmt.Sprintf("↑/↓ scroll %3.f%%  esc to close", m.help.ScrollPercent()*100)
	}
	footer := lipgloss.NewStyle().Foreground(theme.HelpGray()).Italic(true).Render(footerText)
	return m.help.View() + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}
