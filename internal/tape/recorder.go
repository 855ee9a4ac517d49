package tape

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// minRecordedPause drops the short gaps between keypresses from recordings.
const minRecordedPause = 100 * time.Millisecond

// Recorder turns what happens in the preview into a replayable script.
// Pauses between commands become Sleep lines.
type Recorder struct {
	on       bool
	started  time.Time
	last     time.Time
	commands []Command
}

func NewRecorder() *Recorder {
	r := &Recorder{}
	r.Clear()
	return r
}

// Start clears the previous recording and starts a new one.
func (r *Recorder) Start() {
	r.Clear()
	r.on = true
}

func (r *Recorder) Stop()             { r.on = false }
func (r *Recorder) IsRecording() bool { return r.on }
func (r *Recorder) CommandCount() int { return len(r.commands) }

// Clear drops the recorded commands without changing whether the recorder
// is on.
func (r *Recorder) Clear() {
	r.commands = nil
	r.started = time.Now()
	r.last = r.started
}

// Record appends cmd, preceded by a Sleep when enough time passed since the
// previous command. It does nothing while the recorder is off.
func (r *Recorder) Record(cmd Command) {
	if !r.on {
		return
	}
	now := time.Now()
	if pause := now.Sub(r.last).Round(10 * time.Millisecond); pause >= minRecordedPause {
		r.add(NewCommand(CommandType_Sleep, pause.String()))
	}
	r.add(cmd)
	r.last = now
}

// RecordAction records a keybinding action by name.
func (r *Recorder) RecordAction(action string) {
	r.Record(NewCommand(CommandType_Action, action))
}

// RecordSleep records an explicit pause.
func (r *Recorder) RecordSleep(d time.Duration) {
	if !r.on {
		return
	}
	r.add(NewCommand(CommandType_Sleep, d.String()))
	r.last = time.Now()
}

func (r *Recorder) add(cmd Command) {
	cmd.Line = len(r.commands) + 1
	cmd.Column = 1
	cmd.Raw = cmd.String()
	r.commands = append(r.commands, cmd)
}

// String renders the recording as a script. A non-empty header becomes a
// comment block with the recording time.
func (r *Recorder) String(header string) string {
	var sb strings.Builder
	if header != "" {
		fmt.Fprintf(&sb, "# %s\n# Recorded: %s\n\n", header, r.started.Format(time.RFC3339))
	}
	for _, cmd := range r.commands {
		sb.WriteString(cmd.Raw)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteToFile saves the script produced by String.
func (r *Recorder) WriteToFile(path, header string) error {
	return os.WriteFile(path, []byte(r.String(header)), 0o644)
}
