package tape

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/canvas"
	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/output"
	"github.com/Gaurav-Gosain/sheetwm/internal/render"
	"github.com/Gaurav-Gosain/sheetwm/internal/sim"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
)

// Default client size when a script or the map_view action gives none.
const (
	DefaultClientWidth  = 40
	DefaultClientHeight = 12
)

// ErrUnknownView is returned when a script names a view it never mapped.
var ErrUnknownView = errors.New("unknown view")

// Executor applies script commands and keybinding actions to a simulated
// desktop: a window manager, a client display and a canvas to draw on.
type Executor struct {
	cfg      *config.Config
	server   *wm.Server
	display  *sim.Display
	canvas   *canvas.Canvas
	renderer *render.Renderer
	registry *config.KeybindRegistry
	logger   *log.Logger

	canvasOpts []canvas.Option
	names      map[string]wm.ViewID
	protocol   sim.Protocol
	mapped     int
	out        io.Writer
	format     output.Format
	realtime   bool
	checks     bool
}

// Option configures an Executor.
type Option func(*Executor)

// WithLogger routes window manager and script logs to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithOutput sets where Snapshot and Screen write, and the default
// snapshot format.
func WithOutput(w io.Writer, f output.Format) Option {
	return func(e *Executor) { e.out, e.format = w, f }
}

// WithRealtime makes Sleep and @delays actually wait.
func WithRealtime(on bool) Option {
	return func(e *Executor) { e.realtime = on }
}

// WithInvariantChecks verifies the window manager bookkeeping after every
// command.
func WithInvariantChecks(on bool) Option {
	return func(e *Executor) { e.checks = on }
}

// WithCanvas passes options to the canvas.
func WithCanvas(opts ...canvas.Option) Option {
	return func(e *Executor) { e.canvasOpts = append(e.canvasOpts, opts...) }
}

// WithProtocol sets the protocol of clients mapped without one.
func WithProtocol(p sim.Protocol) Option {
	return func(e *Executor) { e.protocol = p }
}

// NewExecutor builds a desktop configured by cfg. A nil cfg uses the
// defaults. Outputs are added by Output commands or, failing that, from the
// configuration on first use.
func NewExecutor(cfg *config.Config, opts ...Option) (*Executor, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	e := &Executor{
		cfg:      cfg,
		names:    make(map[string]wm.ViewID),
		protocol: sim.Async,
		out:      io.Discard,
		format:   output.FormatYAML,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}

	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	serverOpts, err := cfg.ServerOptions()
	if err != nil {
		return nil, err
	}

	e.server = wm.NewServer(append(serverOpts, wm.WithLogger(e.logger))...)
	e.display = sim.NewDisplay(e.server)
	e.canvas = canvas.New(append([]canvas.Option{canvas.WithPalette(palette)}, e.canvasOpts...)...)
	e.renderer = render.New(e.server, e.canvas, render.WithLogger(e.logger))
	e.registry = config.NewKeybindRegistry(cfg)
	return e, nil
}

// Server returns the window manager.
func (e *Executor) Server() *wm.Server { return e.server }

// Display returns the simulated clients.
func (e *Executor) Display() *sim.Display { return e.display }

// Canvas returns the drawing surface.
func (e *Executor) Canvas() *canvas.Canvas { return e.canvas }

// Renderer returns the renderer drawing onto the canvas.
func (e *Executor) Renderer() *render.Renderer { return e.renderer }

// Registry returns the keybindings in effect.
func (e *Executor) Registry() *config.KeybindRegistry { return e.registry }

// Config returns the configuration the desktop was built from.
func (e *Executor) Config() *config.Config { return e.cfg }

// Realtime reports whether delays should be waited out.
func (e *Executor) Realtime() bool { return e.realtime }

// Reconfigure applies a reloaded configuration to the running desktop.
func (e *Executor) Reconfigure(cfg *config.Config) error {
	palette, err := cfg.Palette()
	if err != nil {
		return err
	}
	if err := cfg.Apply(e.server); err != nil {
		return err
	}
	e.cfg = cfg
	e.canvas.SetPalette(palette)
	e.registry = config.NewKeybindRegistry(cfg)
	return nil
}

// EnsureOutput adds the configured outputs when none exist yet.
func (e *Executor) EnsureOutput() {
	if len(e.server.Outputs()) > 0 {
		return
	}
	for _, o := range e.cfg.AddOutputs(e.server) {
		e.logger.Debug("added configured output", "output", o.Name, "geometry", o.Geometry)
	}
}

// Frame renders every damaged output.
func (e *Executor) Frame() int {
	return e.renderer.Frame(time.Now())
}

// Screen renders and returns the plain text of one output, or of all
// outputs composed when name is empty.
func (e *Executor) Screen(name string) (string, error) {
	e.Frame()
	if name == "" {
		var parts []string
		for _, o := range e.server.Outputs() {
			parts = append(parts, e.canvas.Text(o))
		}
		return strings.Join(parts, "\n"), nil
	}
	o, ok := e.server.OutputByName(name)
	if !ok {
		return "", fmt.Errorf("unknown output %q", name)
	}
	return e.canvas.Text(o), nil
}

// Render renders and returns all outputs composed with styling.
func (e *Executor) Render() string {
	e.Frame()
	return e.canvas.Composite(e.server.Outputs())
}

// ViewName returns the script alias of id, or its number.
func (e *Executor) ViewName(id wm.ViewID) string {
	for name, v := range e.names {
		if v == id {
			return name
		}
	}
	return strconv.Itoa(int(id))
}

// Execute runs one command. Sleep and delays are left to the caller.
func (e *Executor) Execute(cmd Command) error {
	switch cmd.Type {
	case CommandType_Output, CommandType_Set, CommandType_Sleep:
	default:
		e.EnsureOutput()
	}

	if err := e.execute(cmd); err != nil {
		return err
	}
	if e.checks {
		return e.server.CheckInvariants()
	}
	return nil
}

func (e *Executor) execute(cmd Command) error {
	s := e.server
	a := cmd.Args

	switch cmd.Type {
	case CommandType_Output:
		return e.addOutput(a)
	case CommandType_Set:
		return e.set(a[0], a[1])
	case CommandType_Sleep:
		return nil

	case CommandType_Map:
		return e.mapCommand(a)
	case CommandType_Unmap:
		return e.withView(a[0], e.unmap)
	case CommandType_Title:
		return e.withView(a[0], func(id wm.ViewID) error {
			if c, ok := e.display.Client(id); ok {
				return c.SetTitle(a[1])
			}
			return s.SetTitle(id, a[1])
		})
	case CommandType_Commit:
		return e.withView(a[0], func(id wm.ViewID) error {
			c, ok := e.display.Client(id)
			if !ok {
				return s.DamageWhole(id)
			}
			index := 0
			if len(a) > 1 {
				index, _ = strconv.Atoi(a[1])
			}
			return c.Commit(index)
		})
	case CommandType_Ack:
		if len(a) == 0 {
			return e.display.Flush()
		}
		return e.withView(a[0], e.display.FlushView)

	case CommandType_Focus:
		return e.withView(a[0], s.Focus)
	case CommandType_Raise:
		return e.withView(a[0], s.Raise)
	case CommandType_Lower:
		return e.withView(a[0], s.Lower)
	case CommandType_Hide:
		return e.withView(a[0], s.Hide)
	case CommandType_Show:
		return e.withView(a[0], s.Show)
	case CommandType_NextView:
		s.CycleNextView()
	case CommandType_PrevView:
		s.CyclePrevView()

	case CommandType_Move:
		return e.withViewXY(a, s.Move)
	case CommandType_MoveTo:
		return e.withViewXY(a, s.MoveAbsolute)
	case CommandType_Resize:
		return e.withViewXY(a, s.Resize)
	case CommandType_ResizeTo:
		return e.withViewXY(a, s.ResizeAbsolute)
	case CommandType_Maximize:
		return e.withView(a[0], s.ToggleFullMaximize)
	case CommandType_VMaximize:
		return e.withView(a[0], s.ToggleVerticalMaximize)
	case CommandType_HMaximize:
		return e.withView(a[0], s.ToggleHorizontalMaximize)
	case CommandType_Floating:
		return e.withView(a[0], s.ToggleFloating)
	case CommandType_Iconify:
		return e.withView(a[0], s.ToggleIconified)
	case CommandType_Reset:
		return e.withView(a[0], s.ResetGeometry)

	case CommandType_Group:
		return e.withView(a[0], func(id wm.ViewID) error { return s.Group(id, a[1]) })
	case CommandType_Ungroup:
		return e.withView(a[0], s.Ungroup)
	case CommandType_NextGroup:
		s.CycleNextGroup()
	case CommandType_PrevGroup:
		s.CyclePrevGroup()
	case CommandType_RaiseGroup:
		return e.withView(a[0], s.RaiseGroup)
	case CommandType_LowerGroup:
		return e.withView(a[0], s.LowerGroup)
	case CommandType_HideGroup:
		return e.withView(a[0], s.HideGroup)
	case CommandType_ShowGroup:
		return e.withView(a[0], s.ShowGroup)

	case CommandType_Pin:
		nr, err := strconv.Atoi(a[1])
		if err != nil {
			return err
		}
		return e.withView(a[0], func(id wm.ViewID) error {
			if len(a) > 2 {
				return s.PinToOutputSheet(id, a[2], nr)
			}
			return s.PinToSheet(id, nr)
		})
	case CommandType_SwitchSheet:
		nr, err := strconv.Atoi(a[0])
		if err != nil {
			return err
		}
		return s.SwitchSheet(nr)
	case CommandType_AlternateSheet:
		return s.SwitchToAlternateSheet()
	case CommandType_NextSheet:
		return s.SwitchToNextInhabitedSheet()
	case CommandType_PrevSheet:
		return s.SwitchToPrevInhabitedSheet()

	case CommandType_Layout:
		return s.ApplyLayout(firstRune(a[0]))
	case CommandType_Relayout:
		return s.Relayout()
	case CommandType_ResetLayout:
		return s.ResetLayout()
	case CommandType_Exchange:
		first, err := e.resolve(a[0])
		if err != nil {
			return err
		}
		second, err := e.resolve(a[1])
		if err != nil {
			return err
		}
		return s.Exchange(first, second)

	case CommandType_Mark:
		return e.withView(a[0], func(id wm.ViewID) error { return s.SetMark(id, firstRune(a[1])) })
	case CommandType_ClearMark:
		return e.withView(a[0], s.ClearMark)
	case CommandType_ShowMark:
		return s.ShowMark(firstRune(a[0]))
	case CommandType_SwitchToMark:
		return s.SwitchToMark(firstRune(a[0]))

	case CommandType_Mode:
		m, err := wm.ParseMode(a[0])
		if err != nil {
			return err
		}
		return s.EnterMode(m)
	case CommandType_ExitMode:
		s.ExitMode()
	case CommandType_Pointer:
		x, _ := strconv.Atoi(a[0])
		y, _ := strconv.Atoi(a[1])
		s.PointerMotion(x, y)
	case CommandType_Input:
		return e.Input(a[0])
	case CommandType_Erase:
		if err := e.requireMode(wm.ModeGroupAssign); err != nil {
			return err
		}
		s.GroupAssignErase()
	case CommandType_Select:
		return e.Select(firstRune(a[0]))
	case CommandType_Cycle:
		if err := e.requireMode(wm.ModeSheetAssign); err != nil {
			return err
		}
		s.SheetAssignCycle(len(a) == 0 || a[0] != "backward")
	case CommandType_Confirm:
		return e.Confirm()

	case CommandType_Key:
		return e.Key(a[0])
	case CommandType_Action:
		return e.Action(a[0])

	case CommandType_Frame:
		e.Frame()
	case CommandType_Screen:
		name := ""
		if len(a) > 0 {
			name = a[0]
		}
		text, err := e.Screen(name)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(e.out, text)
		return err
	case CommandType_Snapshot:
		format := e.format
		if len(a) > 0 {
			f, err := output.ParseFormat(a[0])
			if err != nil {
				return err
			}
			format = f
		}
		return output.Write(e.out, output.Capture(s), format)
	case CommandType_Expect:
		return e.expect(a)

	default:
		return fmt.Errorf("unsupported command %s", cmd.Type)
	}
	return nil
}

func (e *Executor) addOutput(a []string) error {
	if _, ok := e.server.OutputByName(a[0]); ok {
		return fmt.Errorf("output %q already exists", a[0])
	}
	n := make([]int, 4)
	for i := range n {
		v, err := strconv.Atoi(a[i+1])
		if err != nil {
			return err
		}
		n[i] = v
	}
	if n[2] <= 0 || n[3] <= 0 {
		return fmt.Errorf("output %q needs a positive size", a[0])
	}
	e.server.AddOutput(a[0], geometry.NewBox(n[0], n[1], n[2], n[3]))
	return nil
}

func (e *Executor) mapCommand(a []string) error {
	arg := func(i int) string {
		if i < len(a) {
			return a[i]
		}
		return ""
	}

	width, height := DefaultClientWidth, DefaultClientHeight
	if arg(1) != "" {
		width, _ = strconv.Atoi(arg(1))
		height, _ = strconv.Atoi(arg(2))
	}
	protocol := e.protocol
	if arg(3) != "" {
		p, err := sim.ParseProtocol(arg(3))
		if err != nil {
			return err
		}
		protocol = p
	}
	_, err := e.MapClient(arg(0), arg(4), sim.ClientOptions{Protocol: protocol, Width: width, Height: height})
	return err
}

// MapClient maps a client and remembers it under name, or its app id when
// name is empty.
func (e *Executor) MapClient(app, name string, opts sim.ClientOptions) (*sim.Client, error) {
	e.EnsureOutput()
	c, err := e.display.Map(app, opts)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = app
	}
	e.names[name] = c.View()
	e.mapped++
	e.logger.Debug("mapped client", "name", name, "view", c.View(), "protocol", opts.Protocol)
	return c, nil
}

func (e *Executor) unmap(id wm.ViewID) error {
	if err := e.display.Unmap(id); err != nil {
		return err
	}
	for name, v := range e.names {
		if v == id {
			delete(e.names, name)
		}
	}
	return nil
}

func (e *Executor) set(key, value string) error {
	st := e.server.Settings()
	setInt := func(dst *int, min int) error {
		n, err := strconv.Atoi(value)
		if err != nil || n < min {
			return fmt.Errorf("Set %s: want an integer >= %d, got %q", key, min, value)
		}
		*dst = n
		e.server.SetSettings(st)
		return nil
	}

	switch key {
	case "border":
		return setInt(&st.Border, 0)
	case "gap":
		return setInt(&st.Gap, 0)
	case "step":
		return setInt(&st.Step, 1)
	case "indicator-width":
		return setInt(&st.IndicatorWidth, 1)
	case "indicator-height":
		return setInt(&st.IndicatorHeight, 1)
	case "protocol":
		p, err := sim.ParseProtocol(value)
		if err != nil {
			return err
		}
		e.protocol = p
	case "format":
		f, err := output.ParseFormat(value)
		if err != nil {
			return err
		}
		e.format = f
	case "theme":
		e.cfg.Theme = value
		palette, err := e.cfg.Palette()
		if err != nil {
			return err
		}
		e.canvas.SetPalette(palette)
		e.damageOutputs()
	case "switch-on-select":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		e.server.SetSwitchOnSelect(on)
	case "modifier":
		on, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		e.renderer.SetModifier(on)
	default:
		return fmt.Errorf("unknown setting %q", key)
	}
	return nil
}

func (e *Executor) damageOutputs() {
	for _, o := range e.server.Outputs() {
		o.DamageWhole()
	}
}

// resolve turns a script view reference into an id: an alias from Map, a
// numeric id, or "focused".
func (e *Executor) resolve(ref string) (wm.ViewID, error) {
	if id, ok := e.names[ref]; ok {
		return id, nil
	}
	if ref == "focused" {
		return e.focused()
	}
	if n, err := strconv.Atoi(ref); err == nil && n > 0 {
		return wm.ViewID(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownView, ref)
}

func (e *Executor) focused() (wm.ViewID, error) {
	v, ok := e.server.Focused()
	if !ok {
		return 0, fmt.Errorf("%w: nothing focused", wm.ErrViewNotFound)
	}
	return v.ID, nil
}

func (e *Executor) withView(ref string, fn func(wm.ViewID) error) error {
	id, err := e.resolve(ref)
	if err != nil {
		return err
	}
	return fn(id)
}

func (e *Executor) withViewXY(a []string, fn func(wm.ViewID, int, int) error) error {
	x, err := strconv.Atoi(a[1])
	if err != nil {
		return err
	}
	y, err := strconv.Atoi(a[2])
	if err != nil {
		return err
	}
	return e.withView(a[0], func(id wm.ViewID) error { return fn(id, x, y) })
}

func (e *Executor) requireMode(m wm.Mode) error {
	if cur := e.server.Mode().Mode; cur != m {
		return fmt.Errorf("needs %s mode, in %s mode", m, cur)
	}
	return nil
}

// Input types text into the group-assign prompt.
func (e *Executor) Input(text string) error {
	if err := e.requireMode(wm.ModeGroupAssign); err != nil {
		return err
	}
	for _, r := range text {
		e.server.GroupAssignInput(r)
	}
	return nil
}

// Select feeds one character to the active mode: a mark, a sheet digit or a
// group name rune.
func (e *Executor) Select(r rune) error {
	s := e.server
	switch m := s.Mode().Mode; m {
	case wm.ModeMarkAssign:
		return s.MarkAssignSelect(r)
	case wm.ModeMarkSelect:
		return s.MarkSelect(r)
	case wm.ModeSheetAssign:
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: %q", wm.ErrInvalidSheet, r)
		}
		return s.SheetAssignSelect(int(r - '0'))
	case wm.ModeGroupAssign:
		s.GroupAssignInput(r)
		return nil
	default:
		return fmt.Errorf("nothing to select in %s mode", m)
	}
}

// Confirm finishes the active mode.
func (e *Executor) Confirm() error {
	s := e.server
	switch m := s.Mode().Mode; m {
	case wm.ModeGroupAssign:
		return s.GroupAssignConfirm()
	case wm.ModeMarkAssign:
		return s.MarkAssignConfirm()
	case wm.ModeSheetAssign:
		return s.SheetAssignConfirm()
	case wm.ModeNormal:
		return fmt.Errorf("nothing to confirm in %s mode", m)
	default:
		s.ExitMode()
		return nil
	}
}

// Key resolves a key through the keybindings and runs its action.
func (e *Executor) Key(key string) error {
	action := e.registry.GetAction(ConvertKey(key))
	if action == "" {
		return fmt.Errorf("%w: %q", ErrUnboundKey, key)
	}
	return e.Action(action)
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}
