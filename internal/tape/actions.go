package tape

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Gaurav-Gosain/sheetwm/internal/sim"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
)

var (
	// ErrUnboundKey is returned by Key for keys without an action.
	ErrUnboundKey = errors.New("unbound key")
	// ErrUnknownAction is returned for action names nothing implements.
	ErrUnknownAction = errors.New("unknown action")
	// ErrShellAction marks actions only an interactive shell can carry out
	// (help, recording, quitting).
	ErrShellAction = errors.New("action needs an interactive shell")
)

var modeActions = map[string]wm.Mode{
	"mode_group_assign": wm.ModeGroupAssign,
	"mode_mark_assign":  wm.ModeMarkAssign,
	"mode_mark_select":  wm.ModeMarkSelect,
	"mode_move":         wm.ModeMove,
	"mode_resize":       wm.ModeResize,
	"mode_sheet_assign": wm.ModeSheetAssign,
	"mode_lock":         wm.ModeLock,
	"mode_input_grab":   wm.ModeInputGrab,
}

// Action runs a keybinding action by name.
func (e *Executor) Action(name string) error {
	e.EnsureOutput()
	s := e.server
	step := s.Settings().Step

	if m, ok := modeActions[name]; ok {
		return s.EnterMode(m)
	}
	if rest, ok := strings.CutPrefix(name, "switch_sheet_"); ok {
		nr, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownAction, name)
		}
		return s.SwitchSheet(nr)
	}
	if rest, ok := strings.CutPrefix(name, "pin_to_sheet_"); ok {
		nr, err := strconv.Atoi(rest)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnknownAction, name)
		}
		return e.onFocused(func(id wm.ViewID) error { return s.PinToSheet(id, nr) })
	}

	switch name {
	case "map_view":
		app := fmt.Sprintf("client-%d", e.mapped+1)
		_, err := e.MapClient(app, "", sim.ClientOptions{
			Protocol: e.protocol,
			Width:    DefaultClientWidth,
			Height:   DefaultClientHeight,
		})
		return err
	case "close_view":
		return e.onFocused(e.unmap)
	case "cycle_next_view":
		s.CycleNextView()
	case "cycle_prev_view":
		s.CyclePrevView()
	case "raise_view":
		return e.onFocused(s.Raise)
	case "lower_view":
		return e.onFocused(s.Lower)
	case "hide_view":
		return e.onFocused(s.Hide)
	case "move_left":
		return e.onFocused(func(id wm.ViewID) error { return s.Move(id, -step, 0) })
	case "move_right":
		return e.onFocused(func(id wm.ViewID) error { return s.Move(id, step, 0) })
	case "move_up":
		return e.onFocused(func(id wm.ViewID) error { return s.Move(id, 0, -step) })
	case "move_down":
		return e.onFocused(func(id wm.ViewID) error { return s.Move(id, 0, step) })
	case "shrink_width":
		return e.onFocused(func(id wm.ViewID) error { return s.Resize(id, -step, 0) })
	case "grow_width":
		return e.onFocused(func(id wm.ViewID) error { return s.Resize(id, step, 0) })
	case "shrink_height":
		return e.onFocused(func(id wm.ViewID) error { return s.Resize(id, 0, -step) })
	case "grow_height":
		return e.onFocused(func(id wm.ViewID) error { return s.Resize(id, 0, step) })
	case "toggle_maximize":
		return e.onFocused(s.ToggleFullMaximize)
	case "toggle_vmaximize":
		return e.onFocused(s.ToggleVerticalMaximize)
	case "toggle_hmaximize":
		return e.onFocused(s.ToggleHorizontalMaximize)
	case "toggle_floating":
		return e.onFocused(s.ToggleFloating)
	case "toggle_iconified":
		return e.onFocused(s.ToggleIconified)
	case "reset_geometry":
		return e.onFocused(s.ResetGeometry)

	case "cycle_next_group":
		s.CycleNextGroup()
	case "cycle_prev_group":
		s.CyclePrevGroup()
	case "raise_group":
		return e.onFocused(s.RaiseGroup)
	case "lower_group":
		return e.onFocused(s.LowerGroup)
	case "hide_group":
		return e.onFocused(s.HideGroup)
	case "show_group":
		return e.onFocused(s.ShowGroup)
	case "ungroup":
		return e.onFocused(s.Ungroup)

	case "switch_alternate_sheet":
		return s.SwitchToAlternateSheet()
	case "next_sheet":
		return s.SwitchToNextInhabitedSheet()
	case "prev_sheet":
		return s.SwitchToPrevInhabitedSheet()

	case "cycle_layout":
		return e.cycleLayout()
	case "reset_layout":
		return s.ResetLayout()
	case "next_tile":
		return e.stepTile(s.NextTiledView)
	case "prev_tile":
		return e.stepTile(s.PrevTiledView)
	case "exchange_tiles":
		return e.onFocused(func(id wm.ViewID) error {
			next, ok := s.NextTiledView(id)
			if !ok {
				return fmt.Errorf("%w: %d", wm.ErrNotTiled, id)
			}
			return s.Exchange(id, next)
		})

	case "ack":
		return e.display.Flush()
	case "toggle_record", "toggle_help", "quit":
		return fmt.Errorf("%w: %s", ErrShellAction, name)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, name)
	}
	return nil
}

func (e *Executor) onFocused(fn func(wm.ViewID) error) error {
	id, err := e.focused()
	if err != nil {
		return err
	}
	return fn(id)
}

// stepTile focuses the tile next to the focused one, or the first tile when
// the focused view is not tiled.
func (e *Executor) stepTile(next func(wm.ViewID) (wm.ViewID, bool)) error {
	s := e.server
	if v, ok := s.Focused(); ok && v.IsTiled() {
		if id, ok := next(v.ID); ok {
			return s.Focus(id)
		}
	}
	id, ok := s.FirstTiledView()
	if !ok {
		return nil
	}
	return s.Focus(id)
}

// cycleLayout applies the layout register after the current sheet's one,
// in register order.
func (e *Executor) cycleLayout() error {
	layouts, err := e.cfg.LayoutRegisters()
	if err != nil {
		return err
	}
	if len(layouts) == 0 {
		return fmt.Errorf("%w: no layouts configured", wm.ErrUnknownLayout)
	}
	registers := make([]rune, 0, len(layouts))
	for r := range layouts {
		registers = append(registers, r)
	}
	slices.Sort(registers)

	next := registers[0]
	if ws := e.server.Workspace(); ws != nil {
		if l := ws.CurrentSheet().Layout(); l != nil {
			if i := slices.Index(registers, l.Register); i >= 0 {
				next = registers[(i+1)%len(registers)]
			}
		}
	}
	return e.server.ApplyLayout(next)
}
