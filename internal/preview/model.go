// Package preview is the interactive terminal shell around the window
// manager: it renders the simulated desktop, turns keys into actions and
// mode input, records sessions and plays scripts back.
package preview

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/geometry"
	"github.com/Gaurav-Gosain/sheetwm/internal/tape"
	"github.com/Gaurav-Gosain/sheetwm/internal/wm"
)

const (
	// FPS is the preview refresh rate.
	FPS = 30
	// NotificationDuration is how long status messages stay visible.
	NotificationDuration = 3 * time.Second
	// minScriptStep paces script playback so every step is visible.
	minScriptStep = 150 * time.Millisecond
)

// TickerMsg drives acknowledgements and frame rendering.
type TickerMsg time.Time

// ScriptStepMsg asks the model to run the next script command.
type ScriptStepMsg struct{}

// ConfigReloadMsg carries a configuration reloaded from disk.
type ConfigReloadMsg struct {
	Config *config.Config
	Err    error
}

// Options configures a Model.
type Options struct {
	Config *config.Config
	Logger *log.Logger
	// Script is played back once the preview starts.
	Script []tape.Command
	// AutoAck makes the simulated clients acknowledge configures on every
	// tick. Scripts usually want to acknowledge explicitly.
	AutoAck bool
	// ConfigPath is watched for changes when set.
	ConfigPath string
	// RecordPath receives the recorded script when recording stops.
	RecordPath string
	// Width and Height size the desktop before the first resize arrives.
	Width, Height int
}

type notification struct {
	text    string
	isError bool
	until   time.Time
}

// Model is the bubbletea model of the preview.
type Model struct {
	exec       *tape.Executor
	logger     *log.Logger
	recorder   *tape.Recorder
	player     *tape.Player
	autoAck    bool
	recordPath string

	width, height int
	showHelp      bool
	help          viewport.Model
	notice        notification

	reloads chan ConfigReloadMsg
	cancel  context.CancelFunc
}

// New builds a preview on a fresh server.
func New(opts Options) (*Model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	exec, err := tape.NewExecutor(opts.Config,
		tape.WithLogger(logger),
		tape.WithInvariantChecks(true),
	)
	if err != nil {
		return nil, err
	}

	m := &Model{
		exec:       exec,
		logger:     logger,
		recorder:   tape.NewRecorder(),
		autoAck:    opts.AutoAck,
		recordPath: opts.RecordPath,
		width:      opts.Width,
		height:     opts.Height,
		help:       viewport.New(),
	}
	m.resizeHelp()
	if len(opts.Script) > 0 {
		m.player = tape.NewPlayer(opts.Script)
	}
	if opts.ConfigPath != "" {
		m.watch(opts.ConfigPath)
	}
	if m.width > 0 && m.height > 0 {
		m.ensureOutput()
	}
	return m, nil
}

// Executor exposes the executor driving the server.
func (m *Model) Executor() *tape.Executor { return m.exec }

// Recorder exposes the session recorder.
func (m *Model) Recorder() *tape.Recorder { return m.recorder }

// Close stops the config watcher.
func (m *Model) Close() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Model) watch(path string) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.reloads = make(chan ConfigReloadMsg, 1)
	go func() {
		err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
			select {
			case m.reloads <- ConfigReloadMsg{Config: cfg, Err: err}:
			default:
			}
		})
		if err != nil {
			m.logger.Warn("config watcher stopped", "path", path, "err", err)
		}
	}()
}

// ListenForReloads waits for the next configuration reload.
func ListenForReloads(ch <-chan ConfigReloadMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// TickCmd schedules the next frame.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second/FPS, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

func scriptStepCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(max(delay, minScriptStep), func(time.Time) tea.Msg {
		return ScriptStepMsg{}
	})
}

// Init starts the tick loop, script playback and the reload listener.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd()}
	if m.player != nil {
		cmds = append(cmds, scriptStepCmd(0))
	}
	if m.reloads != nil {
		cmds = append(cmds, ListenForReloads(m.reloads))
	}
	return tea.Batch(cmds...)
}

// Update handles all incoming messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickerMsg:
		if m.autoAck && m.exec.Display().Pending() > 0 {
			if err := m.exec.Display().Flush(); err != nil {
				m.notifyError(err)
			}
		}
		m.exec.Frame()
		return m, TickCmd()

	case ScriptStepMsg:
		return m, m.stepScript()

	case ConfigReloadMsg:
		if msg.Err != nil {
			m.notifyError(fmt.Errorf("config reload: %w", msg.Err))
		} else if err := m.exec.Reconfigure(msg.Config); err != nil {
			m.notifyError(err)
		} else {
			m.notify("Configuration reloaded")
		}
		if m.reloads == nil {
			return m, nil
		}
		return m, ListenForReloads(m.reloads)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ensureOutput()
		m.resizeHelp()
		return m, nil

	case tea.MouseWheelMsg:
		if !m.showHelp {
			return m, nil
		}
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		x, y := m.toDesktop(mouse.X, mouse.Y)
		if err := m.run(tape.NewCommand(tape.CommandType_Pointer, strconv.Itoa(x), strconv.Itoa(y))); err != nil {
			m.notifyError(err)
		}
		if m.exec.Server().Mode().Mode == wm.ModeNormal {
			m.exec.Server().CursorFocus()
		}
		return m, nil

	case tea.MouseMotionMsg:
		switch m.exec.Server().Mode().Mode {
		case wm.ModeMove, wm.ModeResize:
			mouse := msg.Mouse()
			x, y := m.toDesktop(mouse.X, mouse.Y)
			_ = m.run(tape.NewCommand(tape.CommandType_Pointer, strconv.Itoa(x), strconv.Itoa(y)))
		}
		return m, nil
	}
	return m, nil
}

// ensureOutput sizes the desktop to the terminal the first time a size is
// known, unless the configuration declares outputs of its own.
func (m *Model) ensureOutput() {
	s := m.exec.Server()
	if len(s.Outputs()) > 0 {
		return
	}
	if len(m.exec.Config().Outputs) > 1 || m.width <= 0 || m.height <= 1 {
		m.exec.EnsureOutput()
		return
	}
	name := "main"
	if outs := m.exec.Config().Outputs; len(outs) == 1 && outs[0].Name != "" {
		name = outs[0].Name
	}
	s.AddOutput(name, geometry.NewBox(0, 0, m.width, m.height-statusBarHeight))
	m.logger.Debug("sized output to terminal", "output", name, "width", m.width, "height", m.height-statusBarHeight)
}

// toDesktop converts screen cells to global layout coordinates.
func (m *Model) toDesktop(x, y int) (int, int) {
	var bounds geometry.Box
	for i, o := range m.exec.Server().Outputs() {
		if i == 0 {
			bounds = o.Geometry
			continue
		}
		bounds = geometry.FromRect(bounds.Rect().Union(o.Geometry.Rect()))
	}
	return x + bounds.X, y + bounds.Y
}

// run executes cmd and records it when recording.
func (m *Model) run(cmd tape.Command) error {
	if err := m.exec.Execute(cmd); err != nil {
		return err
	}
	m.recorder.Record(cmd)
	return nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.showHelp {
		switch key {
		case "esc", "q", "enter":
			m.showHelp = false
		default:
			if m.exec.Registry().GetAction(key) == "toggle_help" {
				m.showHelp = false
				return m, nil
			}
			var cmd tea.Cmd
			m.help, cmd = m.help.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if mode := m.exec.Server().Mode().Mode; mode != wm.ModeNormal {
		if err := m.handleModeKey(mode, msg); err != nil {
			m.notifyError(err)
		}
		return m, nil
	}

	action := m.exec.Registry().GetAction(key)
	if action == "" {
		return m, nil
	}
	switch action {
	case "quit":
		m.stopRecording()
		return m, tea.Quit
	case "toggle_help":
		m.showHelp = true
		m.help.GotoTop()
		return m, nil
	case "toggle_record":
		if m.recorder.IsRecording() {
			m.stopRecording()
		} else {
			m.recorder.Start()
			m.notify("Recording started")
		}
		return m, nil
	}

	if err := m.exec.Action(action); err != nil {
		m.notifyError(err)
		return m, nil
	}
	m.recorder.RecordAction(action)
	return m, nil
}

// handleModeKey feeds a key to the active interaction mode.
func (m *Model) handleModeKey(mode wm.Mode, msg tea.KeyPressMsg) error {
	key := msg.String()
	if key == "esc" {
		return m.run(tape.NewCommand(tape.CommandType_ExitMode))
	}

	s := m.exec.Server()
	switch mode {
	case wm.ModeGroupAssign:
		switch key {
		case "enter":
			return m.run(tape.NewCommand(tape.CommandType_Confirm))
		case "backspace":
			return m.run(tape.NewCommand(tape.CommandType_Erase))
		}
		if msg.Text != "" {
			return m.run(tape.NewCommand(tape.CommandType_Input, msg.Text))
		}

	case wm.ModeMarkAssign:
		switch key {
		case "enter":
			return m.run(tape.NewCommand(tape.CommandType_Confirm))
		case "backspace":
			target := m.exec.ViewName(s.Mode().Target)
			if err := m.run(tape.NewCommand(tape.CommandType_ExitMode)); err != nil {
				return err
			}
			return m.run(tape.NewCommand(tape.CommandType_ClearMark, target))
		}
		if len(msg.Text) == 1 {
			return m.run(tape.NewCommand(tape.CommandType_Select, msg.Text))
		}

	case wm.ModeMarkSelect:
		if key == "tab" {
			s.SetSwitchOnSelect(!s.Mode().SwitchOnSelect)
			return nil
		}
		if len(msg.Text) == 1 {
			return m.run(tape.NewCommand(tape.CommandType_Select, msg.Text))
		}

	case wm.ModeSheetAssign:
		switch key {
		case "enter":
			return m.run(tape.NewCommand(tape.CommandType_Confirm))
		case "tab":
			return m.run(tape.NewCommand(tape.CommandType_Cycle))
		case "shift+tab":
			return m.run(tape.NewCommand(tape.CommandType_Cycle, "backward"))
		}
		if len(msg.Text) == 1 && msg.Text[0] >= '0' && msg.Text[0] <= '9' {
			return m.run(tape.NewCommand(tape.CommandType_Select, msg.Text))
		}

	case wm.ModeMove, wm.ModeResize:
		step := s.Settings().Step
		x, y := s.Cursor().Position()
		switch key {
		case "enter":
			return m.run(tape.NewCommand(tape.CommandType_Confirm))
		case "left", "h":
			x -= step
		case "right", "l":
			x += step
		case "up", "k":
			y -= step
		case "down", "j":
			y += step
		default:
			return nil
		}
		return m.run(tape.NewCommand(tape.CommandType_Pointer, strconv.Itoa(x), strconv.Itoa(y)))
	}
	return nil
}

// stepScript runs the next script command and schedules the one after.
func (m *Model) stepScript() tea.Cmd {
	if m.player == nil || m.player.IsFinished() || m.player.Err() != nil {
		return nil
	}
	delay, err := m.player.Step(m.exec)
	if err != nil {
		m.notifyError(fmt.Errorf("script: %w", err))
		return nil
	}
	if m.player.IsFinished() {
		m.notify("Script finished")
		return nil
	}
	return scriptStepCmd(delay)
}

func (m *Model) stopRecording() {
	if !m.recorder.IsRecording() {
		return
	}
	m.recorder.Stop()
	if m.recordPath == "" {
		m.notify(fmt.Sprintf("Recorded %d commands", m.recorder.CommandCount()))
		return
	}
	if err := m.recorder.WriteToFile(m.recordPath, "sheetwm session"); err != nil {
		m.notifyError(err)
		return
	}
	m.notify(fmt.Sprintf("Recording saved to %s", m.recordPath))
}

func (m *Model) notify(text string) {
	m.logger.Info(text)
	m.notice = notification{text: text, until: time.Now().Add(NotificationDuration)}
}

func (m *Model) notifyError(err error) {
	m.logger.Warn("preview", "err", err)
	m.notice = notification{text: err.Error(), isError: true, until: time.Now().Add(NotificationDuration)}
}
