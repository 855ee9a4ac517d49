package tape

import "time"

// PlaybackState is where a Player stands in its script.
type PlaybackState int

const (
	StatePlaying PlaybackState = iota
	StatePaused
	StateFinished
	StateFailed
)

func (s PlaybackState) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StateFinished:
		return "finished"
	case StateFailed:
		return "failed"
	}
	return "playing"
}

// PlaybackStatus is a snapshot of a Player for status displays.
type PlaybackStatus struct {
	State    PlaybackState
	Line     int
	Done     int
	Total    int
	Progress int
	// Next is the command about to run, or the failure once playback failed.
	Next string
}

// Player steps through a script one command at a time so an interactive
// shell can show playback between commands.
type Player struct {
	commands []Command
	pos      int
	paused   bool
	err      error
}

// NewPlayer returns a player positioned at the first command.
func NewPlayer(commands []Command) *Player {
	return &Player{commands: commands}
}

// pending returns the command at the cursor.
func (p *Player) pending() (Command, bool) {
	if p.err != nil || p.pos >= len(p.commands) {
		return Command{}, false
	}
	return p.commands[p.pos], true
}

// Step executes the next command on e and moves past it. The returned delay
// is the command's @delay, to be waited before the following step. A paused
// or finished player does nothing; a failing command stops playback.
func (p *Player) Step(e *Executor) (time.Duration, error) {
	cmd, ok := p.pending()
	if !ok || p.paused {
		return 0, nil
	}
	if err := e.Execute(cmd); err != nil {
		p.err = &ScriptError{Line: cmd.Line, Command: cmd.String(), Err: err}
		return 0, p.err
	}
	p.pos++
	return cmd.Delay, nil
}

// Err returns the failure that stopped playback.
func (p *Player) Err() error { return p.err }

// IsFinished reports whether playback ran out of commands or failed.
func (p *Player) IsFinished() bool {
	return p.err != nil || p.pos >= len(p.commands)
}

func (p *Player) SetPaused(paused bool) { p.paused = paused }

// Rewind starts the script over and clears a previous failure.
func (p *Player) Rewind() {
	p.pos = 0
	p.paused = false
	p.err = nil
}

// CurrentIndex is the number of commands executed so far.
func (p *Player) CurrentIndex() int { return p.pos }

// Progress is the executed share of the script in percent.
func (p *Player) Progress() int {
	if len(p.commands) == 0 {
		return 100
	}
	return p.pos * 100 / len(p.commands)
}

// Status summarizes the player.
func (p *Player) Status() PlaybackStatus {
	st := PlaybackStatus{
		Done:     p.pos,
		Total:    len(p.commands),
		Progress: p.Progress(),
	}
	switch {
	case p.err != nil:
		st.State = StateFailed
		st.Next = p.err.Error()
	case p.pos >= len(p.commands):
		st.State = StateFinished
	case p.paused:
		st.State = StatePaused
	}
	if cmd, ok := p.pending(); ok {
		st.Line = cmd.Line
		st.Next = cmd.String()
	}
	return st
}
