package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/output"
	"github.com/Gaurav-Gosain/sheetwm/internal/preview"
	"github.com/Gaurav-Gosain/sheetwm/internal/server"
	"github.com/Gaurav-Gosain/sheetwm/internal/tape"
	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type previewFlags struct {
	script  string
	record  string
	logFile string
	autoAck bool
	noWatch bool
}

func (f *previewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.script, "script", "", "Play a script in the preview")
	cmd.Flags().StringVar(&f.record, "record", "", "Save recordings to this file")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "Write logs to this file")
	cmd.Flags().BoolVar(&f.autoAck, "auto-ack", true, "Let clients acknowledge configures on their own (off while a script plays)")
	cmd.Flags().BoolVar(&f.noWatch, "no-watch", false, "Do not reload the configuration when it changes")
}

type runFlags struct {
	render   bool
	verbose  bool
	realtime bool
	format   string
}

// loadConfig loads --config or the user configuration, falling back to the
// defaults with a warning.
func loadConfig(logger *log.Logger) (*config.Config, string) {
	path := configPath
	if path == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			logger.Warn("could not determine config path", "err", err)
			return config.DefaultConfig(), ""
		}
		path = p
	}

	var cfg *config.Config
	var err error
	if configPath == "" {
		cfg, err = config.LoadUserConfig()
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		logger.Warn("failed to load config, using defaults", "path", path, "err", err)
		return config.DefaultConfig(), path
	}
	logger.Debug("loaded configuration", "path", path)
	return cfg, path
}

func readScript(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read script: %w", err)
	}
	return string(data), nil
}

func runPreview(cmd *cobra.Command, flags previewFlags) error {
	logOut := io.Discard
	if flags.logFile != "" {
		f, err := os.OpenFile(flags.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("could not open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut)
	cfg, path := loadConfig(logger)

	opts := preview.Options{
		Config:     cfg,
		Logger:     logger,
		AutoAck:    flags.autoAck,
		RecordPath: flags.record,
	}
	if !flags.noWatch {
		opts.ConfigPath = path
	}
	if flags.script != "" {
		content, err := readScript(flags.script)
		if err != nil {
			return err
		}
		commands, errs := tape.ParseFile(content)
		if len(errs) > 0 {
			return &tape.ParseError{Errors: errs}
		}
		opts.Script = commands
		opts.AutoAck = false
	}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		opts.Width, opts.Height = w, h
	}

	model, err := preview.New(opts)
	if err != nil {
		return err
	}
	defer model.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithFPS(preview.FPS),
	)
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runScript(cmd *cobra.Command, path string, flags runFlags) error {
	logger := newLogger(cmd.ErrOrStderr())
	content, err := readScript(path)
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(flags.format)
	if err != nil {
		return err
	}
	cfg, _ := loadConfig(logger)

	stdout := cmd.OutOrStdout()
	runner, err := tape.LoadScript(content, cfg,
		tape.WithLogger(logger),
		tape.WithOutput(stdout, format),
		tape.WithRealtime(flags.realtime),
		tape.WithInvariantChecks(debugMode),
	)
	if err != nil {
		return err
	}
	runner.SetVerbose(flags.verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if flags.render {
		if err := printFrame(stdout, runner.Executor()); err != nil {
			return err
		}
	}
	logger.Info("script finished",
		"commands", stats.ExecutedCount,
		"elapsed", stats.ExecutedTime,
	)
	return nil
}

// printFrame writes the final frame, styled and downsampled to the
// terminal's color profile, or as plain text when stdout is not a terminal.
func printFrame(w io.Writer, e *tape.Executor) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, err := fmt.Fprintln(colorprofile.NewWriter(f, os.Environ()), e.Render())
		return err
	}
	text, err := e.Screen("")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, text)
	return err
}

func validateScript(cmd *cobra.Command, path string) error {
	content, err := readScript(path)
	if err != nil {
		return err
	}
	ok, errs := tape.ValidateScript(content)
	if !ok {
		return &tape.ParseError{Errors: errs}
	}
	commands, _ := tape.ParseFile(content)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d commands OK\n", path, len(commands))
	return nil
}

func snapshotScript(cmd *cobra.Command, path, formatName string) error {
	logger := newLogger(cmd.ErrOrStderr())
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}
	content, err := readScript(path)
	if err != nil {
		return err
	}
	cfg, _ := loadConfig(logger)

	runner, err := tape.LoadScript(content, cfg, tape.WithLogger(logger))
	if err != nil {
		return err
	}
	if _, err := runner.Run(cmd.Context()); err != nil {
		return err
	}
	snap := output.Capture(runner.Executor().Server())
	return output.Write(cmd.OutOrStdout(), snap, format)
}

func runSSHServer(cmd *cobra.Command, host, port, keyPath string, autoAck bool) error {
	logger := newLogger(cmd.ErrOrStderr())
	cfg, _ := loadConfig(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	return server.StartSSHServer(ctx, &server.SSHServerConfig{
		Host:    host,
		Port:    port,
		KeyPath: keyPath,
		Config:  cfg,
		Logger:  logger,
		AutoAck: autoAck,
	})
}
