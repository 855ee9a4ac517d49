// Package server serves the preview over SSH: every session gets its own
// window manager sized to the client's terminal.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"charm.land/wish/v2"
	"charm.land/wish/v2/bubbletea"
	"charm.land/wish/v2/logging"
	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/preview"
	"github.com/charmbracelet/ssh"
	"github.com/google/uuid"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	Host    string
	Port    string
	KeyPath string
	// Config is shared by all sessions; nil loads the user configuration.
	Config *config.Config
	Logger *log.Logger
	// AutoAck makes session clients acknowledge on their own.
	AutoAck bool
}

// hostKeyPath returns the configured key path or ~/.ssh/sheetwm_host_key.
func (cfg *SSHServerConfig) hostKeyPath() (string, error) {
	if cfg.KeyPath != "" {
		return cfg.KeyPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh", "sheetwm_host_key"), nil
}

// NewSSHServer builds the wish server without starting it.
func NewSSHServer(cfg *SSHServerConfig) (*ssh.Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Config == nil {
		userConfig, err := config.LoadUserConfig()
		if err != nil {
			cfg.Logger.Warn("failed to load config, using defaults", "err", err)
			userConfig = config.DefaultConfig()
		}
		cfg.Config = userConfig
	}

	keyPath, err := cfg.hostKeyPath()
	if err != nil {
		return nil, err
	}

	server, err := wish.NewServer(
		wish.WithAddress(net.JoinHostPort(cfg.Host, cfg.Port)),
		wish.WithHostKeyPath(keyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(cfg.teaHandler),
			logging.Middleware(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH server: %w", err)
	}
	return server, nil
}

// StartSSHServer runs the SSH server until ctx is done.
func StartSSHServer(ctx context.Context, cfg *SSHServerConfig) error {
	server, err := NewSSHServer(cfg)
	if err != nil {
		return err
	}

	errc := make(chan error, 1)
	go func() {
		cfg.Logger.Info("starting SSH server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("SSH server error: %w", err)
	case <-ctx.Done():
	}

	cfg.Logger.Info("shutting down SSH server")
	return server.Shutdown(context.WithoutCancel(ctx))
}

// teaHandler creates a preview for each SSH session.
func (cfg *SSHServerConfig) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, active := sess.Pty()
	if !active {
		wish.Fatalln(sess, "sheetwm needs an interactive terminal (ssh -t)")
		return nil, nil
	}

	id := uuid.NewString()
	logger := cfg.Logger.With("session", id[:8], "user", sess.User())

	model, err := preview.New(preview.Options{
		Config:  cfg.Config,
		Logger:  logger,
		AutoAck: cfg.AutoAck,
		Width:   pty.Window.Width,
		Height:  pty.Window.Height,
	})
	if err != nil {
		logger.Error("failed to create preview", "err", err)
		wish.Fatalln(sess, err)
		return nil, nil
	}

	go func() {
		<-sess.Context().Done()
		model.Close()
		logger.Debug("session closed")
	}()

	logger.Info("session started", "width", pty.Window.Width, "height", pty.Window.Height)
	return model, []tea.ProgramOption{tea.WithFPS(preview.FPS)}
}
