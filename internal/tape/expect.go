package tape

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
)

// ErrExpectation is returned when an Expect command does not hold.
var ErrExpectation = errors.New("expectation failed")

func (e *Executor) expect(a []string) error {
	what := Expectation(a[0])
	args := a[1:]

	switch what {
	case ExpectVisibleGroups:
		return check(what, "", len(e.server.VisibleGroups()), atoi(args[0]))
	case ExpectPending:
		return check(what, "", e.display.Pending(), atoi(args[0]))
	case ExpectViews:
		n := 0
		for _, v := range e.server.Views() {
			if v.Managed() {
				n++
			}
		}
		return check(what, "", n, atoi(args[0]))
	case ExpectMode:
		return check(what, "", e.server.Mode().Mode.String(), args[0])
	case ExpectCurrentSheet:
		ws := e.server.Workspace()
		if len(args) > 1 {
			o, ok := e.server.OutputByName(args[1])
			if !ok {
				return fmt.Errorf("unknown output %q", args[1])
			}
			ws = o.Workspace()
		}
		if ws == nil {
			return wm.ErrNoOutput
		}
		return check(what, "", ws.CurrentSheet().Nr, atoi(args[0]))
	case ExpectScreen:
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		text, err := e.Screen(name)
		if err != nil {
			return err
		}
		if !strings.Contains(text, args[0]) {
			return fmt.Errorf("%w: screen does not show %q:\n%s", ErrExpectation, args[0], text)
		}
		return nil
	}

	id, err := e.resolve(args[0])
	if err != nil {
		return err
	}
	v, err := e.server.View(id)
	if err != nil {
		return err
	}
	ref := args[0]

	switch what {
	case ExpectVisible:
		return check(what, ref, !v.IsHidden(), true)
	case ExpectHidden:
		return check(what, ref, v.IsHidden(), true)
	case ExpectDirty:
		return check(what, ref, v.IsDirty(), true)
	case ExpectClean:
		return check(what, ref, v.IsDirty(), false)
	case ExpectFloating:
		return check(what, ref, v.IsFloating(), true)
	case ExpectTiled:
		return check(what, ref, v.IsTiled(), true)
	case ExpectFocused:
		f, ok := e.server.Focused()
		return check(what, ref, ok && f.ID == id, true)
	case ExpectGeometry:
		want := geometry.NewBox(atoi(args[1]), atoi(args[2]), atoi(args[3]), atoi(args[4]))
		return check(what, ref, v.CurrentGeometry(), want)
	case ExpectSheet:
		if !v.Managed() {
			return fmt.Errorf("%w: %s", wm.ErrNotManaged, ref)
		}
		return check(what, ref, v.Sheet().Nr, atoi(args[1]))
	case ExpectGroup:
		if !v.Managed() {
			return fmt.Errorf("%w: %s", wm.ErrNotManaged, ref)
		}
		return check(what, ref, v.Group().Name, args[1])
	case ExpectMark:
		return check(what, ref, string(v.Mark()), args[1])
	case ExpectMaximized:
		got := wm.Maximization(0).String()
		if m := v.Maximized(); m != nil {
			got = m.Maximization.String()
		}
		return check(what, ref, got, args[1])
	default:
		return fmt.Errorf("unknown expectation %q", what)
	}
}

func check[T comparable](what Expectation, ref string, got, want T) error {
	if got == want {
		return nil
	}
	if ref != "" {
		return fmt.Errorf("%w: %s %s: expected %v, got %v", ErrExpectation, what, ref, want, got)
	}
	return fmt.Errorf("%w: %s: expected %v, got %v", ErrExpectation, what, want, got)
}

// atoi is only used on arguments the parser already checked.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
