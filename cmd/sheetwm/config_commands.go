package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/Gaurav-Gosain/sheetwm/internal/config"
	"github.com/Gaurav-Gosain/sheetwm/internal/theme"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage sheetwm configuration",
		Long:  `Manage the sheetwm configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolveConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	configEditCmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		Long: `Open the sheetwm configuration file in your default editor

The editor is determined by checking $EDITOR, $VISUAL, or common editors
like vim, vi, nano, and emacs in that order. A running preview reloads
the file when you save it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigFile(cmd)
		},
	}

	var yes bool
	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the sheetwm configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return resetConfigToDefaults(cmd, yes)
		},
	}
	configResetCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	configShowCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := loadConfig(newLogger(cmd.ErrOrStderr()))
			data, err := toml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	configCmd.AddCommand(configPathCmd, configEditCmd, configResetCmd, configShowCmd)
	return configCmd
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	path, err := config.GetConfigPath()
	if err != nil {
		return "", fmt.Errorf("could not determine config path: %w", err)
	}
	return path, nil
}

// findEditor returns $EDITOR, $VISUAL or the first common editor found.
func findEditor() (string, error) {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor, nil
	}
	if editor := os.Getenv("VISUAL"); editor != "" {
		return editor, nil
	}
	for _, e := range []string{"vim", "vi", "nano", "emacs"} {
		if _, err := exec.LookPath(e); err == nil {
			return e, nil
		}
	}
	return "", errors.New("no editor found, set $EDITOR")
}

func editConfigFile(cmd *cobra.Command) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Config file doesn't exist, creating default at: %s\n", path)
		if err := config.DefaultConfig().Save(path); err != nil {
			return fmt.Errorf("could not create config file: %w", err)
		}
	}

	editor, err := findEditor()
	if err != nil {
		return err
	}
	c := exec.Command(editor, path)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}

	// Report mistakes right away instead of on the next start.
	if _, err := config.Load(path); err != nil {
		return fmt.Errorf("saved configuration is invalid: %w", err)
	}
	return nil
}

func resetConfigToDefaults(cmd *cobra.Command, yes bool) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !yes {
		fmt.Fprintf(out, "Warning: This will overwrite your existing configuration at:\n  %s\n\n", path)
		fmt.Fprint(out, "Are you sure you want to reset to defaults? (yes/no): ")
		if !confirm(cmd.InOrStdin()) {
			fmt.Fprintln(out, "Reset cancelled.")
			return nil
		}
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	fmt.Fprintf(out, "Configuration reset to defaults\n  Location: %s\n", path)
	return nil
}

func confirm(r io.Reader) bool {
	line, _ := bufio.NewReader(r).ReadString('\n')
	response := strings.ToLower(strings.TrimSpace(line))
	return response == "yes" || response == "y"
}

func newKeybindsCmd() *cobra.Command {
	keybindsCmd := &cobra.Command{
		Use:     "keybinds",
		Aliases: []string{"keys", "kb"},
		Short:   "View keybinding configuration",
	}

	keybindsListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all keybindings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := loadConfig(newLogger(cmd.ErrOrStderr()))
			printKeybindingsTable(cmd.OutOrStdout(), config.NewKeybindRegistry(cfg))
			return nil
		},
	}

	keybindsCustomCmd := &cobra.Command{
		Use:   "list-custom",
		Short: "List customized keybindings",
		Long:  `Display only keybindings that differ from defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _ := loadConfig(newLogger(cmd.ErrOrStderr()))
			listCustomKeybindings(cmd.OutOrStdout(), cfg)
			return nil
		},
	}

	keybindsCmd.AddCommand(keybindsListCmd, keybindsCustomCmd)
	return keybindsCmd
}

func tableStyles() (header, cell lipgloss.Style) {
	header = lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableHeader()).Padding(0, 1)
	cell = lipgloss.NewStyle().Padding(0, 1)
	return header, cell
}

func newTable(headers ...string) *table.Table {
	headerStyle, cellStyle := tableStyles()
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.CLITableBorder())).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		})
}

// printKeybindingsTable prints one table per help section.
func printKeybindingsTable(w io.Writer, registry *config.KeybindRegistry) {
	title := lipgloss.NewStyle().Bold(true).Foreground(theme.CLITableKey())

	fmt.Fprintln(w)
	fmt.Fprintln(w, title.Render("sheetwm keybindings"))
	fmt.Fprintln(w)

	for _, section := range config.GetKeybindings(registry) {
		if len(section.Bindings) == 0 {
			continue
		}
		t := newTable("Keys", "Action")
		for _, b := range section.Bindings {
			t.Row(b.Key, b.Description)
		}
		fmt.Fprintln(w, title.Render(strings.TrimSuffix(section.Title, ":")))
		fmt.Fprintln(w, t.Render())
		fmt.Fprintln(w)
	}
}

// Customization is a keybinding that differs from the defaults.
type Customization struct {
	Action      string
	DefaultKeys string
	CustomKeys  string
}

// findCustomizations lists actions whose keys differ from the defaults.
func findCustomizations(cfg *config.Config) []Customization {
	defaults := config.DefaultKeybindings()
	var out []Customization
	for _, action := range config.Actions() {
		keys, ok := cfg.Keybindings[action]
		if !ok || slices.Equal(keys, defaults[action]) {
			continue
		}
		out = append(out, Customization{
			Action:      formatActionName(action),
			DefaultKeys: strings.Join(defaults[action], ", "),
			CustomKeys:  strings.Join(keys, ", "),
		})
	}
	return out
}

func listCustomKeybindings(w io.Writer, cfg *config.Config) {
	dim := lipgloss.NewStyle().Foreground(theme.CLITableDim())
	customizations := findCustomizations(cfg)
	if len(customizations) == 0 {
		fmt.Fprintln(w, dim.Render("No custom keybindings configured. All keybindings are using defaults."))
		return
	}

	t := newTable("Action", "Default", "Custom")
	for _, c := range customizations {
		t.Row(c.Action, c.DefaultKeys, c.CustomKeys)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, dim.Render(fmt.Sprintf("Found %d customized keybinding(s)", len(customizations))))
}

// formatActionName formats an action name for display
func formatActionName(action string) string {
	if desc, ok := config.ActionDescriptions[action]; ok {
		return desc
	}
	return strings.ReplaceAll(action, "_", " ")
}
