// Package main implements sheetwm, a sheet-and-group window manager core
// with a terminal preview. The preview shows a simulated desktop; scripts
// drive the same core headlessly for tests and snapshots.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"charm.land/log/v2"
	"github.com/Gaurav-Gosain/sheetwm/internal/output"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode  bool
	configPath string
)

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the CLI logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "sheetwm",
	})
	if debugMode {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func newRootCmd() *cobra.Command {
	var previewOpts previewFlags

	rootCmd := &cobra.Command{
		Use:   "sheetwm",
		Short: "Sheet and group window manager",
		Long: `sheetwm - a sheet and group window manager

Views live on numbered sheets and in named groups. The preview shows a
simulated desktop driven by your keybindings; scripts drive the same
window manager headlessly.`,
		Example: `  # Run the interactive preview
  sheetwm

  # Play a script in the preview
  sheetwm preview --script demo.tape

  # Run a script headlessly and print the final frame
  sheetwm run demo.tape --render

  # Print the final state as a table
  sheetwm snapshot demo.tape --format table

  # Serve the preview over SSH
  sheetwm ssh --port 2222`,
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, previewOpts)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (defaults to the XDG config path)")
	previewOpts.register(rootCmd)

	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Run the interactive preview",
		Long: `Run the interactive preview of a simulated desktop

Keys run the configured actions; simulated clients acknowledge
configures on every frame unless a script is playing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, previewOpts)
		},
	}
	previewOpts.register(previewCmd)

	var render, verbose, realtime bool
	var format string
	runCmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Run a script headlessly",
		Long: `Run a script against a fresh window manager without a terminal UI

Snapshot and Screen commands print to stdout. The script fails on the
first failing command or expectation.`,
		Example: `  sheetwm run demo.tape
  sheetwm run demo.tape --render --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, args[0], runFlags{
				render:   render,
				verbose:  verbose,
				realtime: realtime,
				format:   format,
			})
		},
	}
	runCmd.Flags().BoolVar(&render, "render", false, "Print the final frame")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every command")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "Honor Sleep and @delay")
	runCmd.Flags().StringVar(&format, "format", string(output.FormatYAML), "Snapshot format: yaml, json or table")

	validateCmd := &cobra.Command{
		Use:   "validate <script>",
		Short: "Check a script for syntax errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateScript(cmd, args[0])
		},
	}

	var snapshotFormat string
	snapshotCmd := &cobra.Command{
		Use:   "snapshot <script>",
		Short: "Run a script and print the final state",
		Example: `  sheetwm snapshot demo.tape --format json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return snapshotScript(cmd, args[0], snapshotFormat)
		},
	}
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "f", string(output.FormatYAML), "Output format: yaml, json or table")

	// SSH command variables
	var sshPort, sshHost, sshKeyPath string
	var sshAutoAck bool

	sshCmd := &cobra.Command{
		Use:   "ssh",
		Short: "Serve the preview over SSH",
		Long: `Serve the preview over SSH

Every session gets its own window manager sized to the client's
terminal. The server generates a host key if none exists.`,
		Example: `  # Start SSH server on default port
  sheetwm ssh

  # Specify custom host key
  sheetwm ssh --key-path /path/to/host_key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSSHServer(cmd, sshHost, sshPort, sshKeyPath, sshAutoAck)
		},
	}
	sshCmd.Flags().StringVar(&sshPort, "port", "2222", "SSH server port")
	sshCmd.Flags().StringVar(&sshHost, "host", "localhost", "SSH server host")
	sshCmd.Flags().StringVar(&sshKeyPath, "key-path", "", "Path to SSH host key (auto-generated if not specified)")
	sshCmd.Flags().BoolVar(&sshAutoAck, "auto-ack", true, "Let clients acknowledge configures on their own")

	rootCmd.AddCommand(previewCmd, runCmd, validateCmd, snapshotCmd, sshCmd, newConfigCmd(), newKeybindsCmd())
	return rootCmd
}
