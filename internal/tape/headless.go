package tape

import (
	"context"
	"fmt"
	"time"

	"github.com/Gaurav-Gosain/sheetwm/internal/config"
)

// ScriptError is a command failure tied to its script line.
type ScriptError struct {
	Line    int
	Command string
	Err     error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Command, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// ParseError collects the syntax errors of a script.
type ParseError struct {
	Errors []string
}

func (e *ParseError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0]
	}
	return fmt.Sprintf("%s (and %d more)", e.Errors[0], len(e.Errors)-1)
}

// HeadlessRunner runs a script against a fresh simulated desktop without a
// terminal.
type HeadlessRunner struct {
	commands []Command
	exec     *Executor
	verbose  bool
}

// NewHeadlessRunner prepares commands to run on a desktop configured by
// cfg (nil for defaults).
func NewHeadlessRunner(commands []Command, cfg *config.Config, opts ...Option) (*HeadlessRunner, error) {
	exec, err := NewExecutor(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &HeadlessRunner{commands: commands, exec: exec}, nil
}

// LoadScript parses content and prepares a runner for it.
func LoadScript(content string, cfg *config.Config, opts ...Option) (*HeadlessRunner, error) {
	commands, errs := ParseFile(content)
	if len(errs) > 0 {
		return nil, &ParseError{Errors: errs}
	}
	return NewHeadlessRunner(commands, cfg, opts...)
}

// SetVerbose logs every command at info level instead of debug
func (hr *HeadlessRunner) SetVerbose(verbose bool) {
	hr.verbose = verbose
}

// Executor returns the desktop the script runs on.
func (hr *HeadlessRunner) Executor() *Executor { return hr.exec }

// Run executes all commands in order and stops at the first failure, which
// is returned as a *ScriptError.
func (hr *HeadlessRunner) Run(ctx context.Context) (ScriptExecutionStats, error) {
	stats := ScriptExecutionStats{
		TotalCommands: len(hr.commands),
		StartTime:     time.Now(),
	}
	logger := hr.exec.logger

	err := func() error {
		for i, cmd := range hr.commands {
			if err := ctx.Err(); err != nil {
				return err
			}

			msg := fmt.Sprintf("[%d/%d] %s", i+1, len(hr.commands), cmd.String())
			if hr.verbose {
				logger.Info(msg, "line", cmd.Line)
			} else {
				logger.Debug(msg, "line", cmd.Line)
			}

			if err := hr.exec.Execute(cmd); err != nil {
				return &ScriptError{Line: cmd.Line, Command: cmd.String(), Err: err}
			}
			stats.ExecutedCount++

			if cmd.Delay > 0 && hr.exec.Realtime() {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(cmd.Delay):
				}
			}
		}
		return nil
	}()

	stats.EndTime = time.Now()
	stats.ExecutedTime = stats.EndTime.Sub(stats.StartTime)
	if stats.ExecutedCount > 0 {
		stats.AvgTimePerCmd = stats.ExecutedTime / time.Duration(stats.ExecutedCount)
	}
	stats.Success = err == nil
	if err != nil {
		stats.ErrorMessage = err.Error()
		logger.Error("script failed", "err", err)
	} else if hr.verbose {
		logger.Info("script completed", "commands", stats.ExecutedCount, "elapsed", stats.ExecutedTime)
	}
	return stats, err
}

// ScriptExecutionStats contains statistics about a script execution
type ScriptExecutionStats struct {
	TotalCommands int
	ExecutedCount int
	ExecutedTime  time.Duration
	AvgTimePerCmd time.Duration
	StartTime     time.Time
	EndTime       time.Time
	Success       bool
	ErrorMessage  string
}

// ValidateScript checks if a script is valid (parses without errors)
func ValidateScript(content string) (bool, []string) {
	commands, errors := ParseFile(content)
	if len(errors) > 0 {
		return false, errors
	}
	if len(commands) == 0 {
		return false, []string{"no commands found in script"}
	}
	return true, nil
}
