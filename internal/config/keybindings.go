package config

import (
	"fmt"
	"slices"
	"strings"
)

// Keybinding represents a single keybinding entry
type Keybinding struct {
	Key         string
	Description string
}

// KeybindingSection represents a section of related keybindings
type KeybindingSection struct {
	Title    string
	Bindings []Keybinding
}

// ActionDescriptions names every bindable action.
var ActionDescriptions = map[string]string{
	"map_view":         "Map a new client",
	"close_view":       "Close focused view",
	"cycle_next_view":  "Focus next view",
	"cycle_prev_view":  "Focus previous view",
	"raise_view":       "Raise view",
	"lower_view":       "Lower view",
	"hide_view":        "Hide view",
	"move_left":        "Move view left",
	"move_right":       "Move view right",
	"move_up":          "Move view up",
	"move_down":        "Move view down",
	"shrink_width":     "Shrink view width",
	"grow_width":       "Grow view width",
	"shrink_height":    "Shrink view height",
	"grow_height":      "Grow view height",
	"toggle_maximize":  "Toggle full maximization",
	"toggle_vmaximize": "Toggle vertical maximization",
	"toggle_hmaximize": "Toggle horizontal maximization",
	"toggle_floating":  "Toggle floating",
	"toggle_iconified": "Toggle iconified",
	"reset_geometry":   "Reset geometry",

	"cycle_next_group": "Focus next group",
	"cycle_prev_group": "Focus previous group",
	"raise_group":      "Raise group",
	"lower_group":      "Lower group",
	"hide_group":       "Hide group",
	"show_group":       "Show group",
	"ungroup":          "Move view back to its sheet group",

	"switch_alternate_sheet": "Switch to alternate sheet",
	"next_sheet":             "Next inhabited sheet",
	"prev_sheet":             "Previous inhabited sheet",

	"cycle_layout":   "Apply next layout register",
	"reset_layout":   "Reset layout",
	"next_tile":      "Focus next tile",
	"prev_tile":      "Focus previous tile",
	"exchange_tiles": "Exchange with next tile",

	"mode_group_assign": "Assign group",
	"mode_mark_assign":  "Assign mark",
	"mode_mark_select":  "Select mark",
	"mode_move":         "Move with pointer",
	"mode_resize":       "Resize with pointer",
	"mode_sheet_assign": "Pin to sheet",
	"mode_lock":         "Lock",
	"mode_input_grab":   "Grab input",

	"ack":           "Deliver client acknowledgements",
	"toggle_record": "Toggle script recording",
	"toggle_help":   "Toggle help",
	"quit":          "Quit",
}

func init() {
	for i := range 10 {
		ActionDescriptions[fmt.Sprintf("switch_sheet_%d", i)] = fmt.Sprintf("Switch to sheet %d", i)
		ActionDescriptions[fmt.Sprintf("pin_to_sheet_%d", i)] = fmt.Sprintf("Pin view to sheet %d", i)
	}
}

// actionSections orders actions for help and listings.
var actionSections = []struct {
	title   string
	actions []string
}{
	{"VIEWS", []string{
		"map_view", "close_view", "cycle_next_view", "cycle_prev_view",
		"raise_view", "lower_view", "hide_view",
		"move_left", "move_right", "move_up", "move_down",
		"shrink_width", "grow_width", "shrink_height", "grow_height",
		"toggle_maximize", "toggle_vmaximize", "toggle_hmaximize",
		"toggle_floating", "toggle_iconified", "reset_geometry",
	}},
	{"GROUPS", []string{
		"cycle_next_group", "cycle_prev_group", "raise_group", "lower_group",
		"hide_group", "show_group", "ungroup",
	}},
	{"SHEETS", sheetActions()},
	{"LAYOUT", []string{"cycle_layout", "reset_layout", "next_tile", "prev_tile", "exchange_tiles"}},
	{"MODES", []string{
		"mode_group_assign", "mode_mark_assign", "mode_mark_select", "mode_move",
		"mode_resize", "mode_sheet_assign", "mode_lock", "mode_input_grab",
	}},
	{"SYSTEM", []string{"ack", "toggle_record", "toggle_help", "quit"}},
}

func sheetActions() []string {
	actions := []string{"switch_alternate_sheet", "next_sheet", "prev_sheet"}
	for i := range 10 {
		actions = append(actions, fmt.Sprintf("switch_sheet_%d", i))
	}
	for i := range 10 {
		actions = append(actions, fmt.Sprintf("pin_to_sheet_%d", i))
	}
	return actions
}

// Actions returns every action in display order.
func Actions() []string {
	var out []string
	for _, s := range actionSections {
		out = append(out, s.actions...)
	}
	return out
}

// DefaultKeybindings returns the stock action to key mapping.
func DefaultKeybindings() map[string][]string {
	kb := map[string][]string{
		"map_view":         {"alt+enter"},
		"close_view":       {"alt+q"},
		"cycle_next_view":  {"alt+tab"},
		"cycle_prev_view":  {"alt+shift+tab"},
		"raise_view":       {"alt+r"},
		"lower_view":       {"alt+l"},
		"hide_view":        {"alt+x"},
		"move_left":        {"alt+left"},
		"move_right":       {"alt+right"},
		"move_up":          {"alt+up"},
		"move_down":        {"alt+down"},
		"shrink_width":     {"alt+shift+left"},
		"grow_width":       {"alt+shift+right"},
		"shrink_height":    {"alt+shift+up"},
		"grow_height":      {"alt+shift+down"},
		"toggle_maximize":  {"alt+f"},
		"toggle_vmaximize": {"alt+v"},
		"toggle_hmaximize": {"alt+shift+v"},
		"toggle_floating":  {"alt+space"},
		"toggle_iconified": {"alt+i"},
		"reset_geometry":   {"alt+backspace"},

		"cycle_next_group": {"alt+n"},
		"cycle_prev_group": {"alt+p"},
		"raise_group":      {"alt+shift+r"},
		"lower_group":      {"alt+shift+l"},
		"hide_group":       {"alt+shift+x"},
		"show_group":       {"alt+shift+s"},
		"ungroup":          {"alt+u"},

		"switch_alternate_sheet": {"alt+`"},
		"next_sheet":             {"alt+pgdown"},
		"prev_sheet":             {"alt+pgup"},

		"cycle_layout":   {"alt+t"},
		"reset_layout":   {"alt+shift+t"},
		"next_tile":      {"alt+j"},
		"prev_tile":      {"alt+k"},
		"exchange_tiles": {"alt+shift+j"},

		"mode_group_assign": {"alt+g"},
		"mode_mark_assign":  {"alt+m"},
		"mode_mark_select":  {"alt+'"},
		"mode_move":         {"alt+shift+m"},
		"mode_resize":       {"alt+shift+z"},
		"mode_sheet_assign": {"alt+s"},
		"mode_lock":         {"alt+shift+q"},
		"mode_input_grab":   {"alt+shift+i"},

		"ack":           {"alt+a"},
		"toggle_record": {"alt+shift+w"},
		"toggle_help":   {"alt+?"},
		"quit":          {"ctrl+c"},
	}
	for i := range 10 {
		kb[fmt.Sprintf("switch_sheet_%d", i)] = []string{fmt.Sprintf("alt+%d", i)}
		kb[fmt.Sprintf("pin_to_sheet_%d", i)] = []string{fmt.Sprintf("alt+shift+%d", i)}
	}
	return kb
}

// KeybindRegistry resolves keys to actions and back.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry builds a registry from cfg. Actions missing from the
// configuration keep their default keys.
func NewKeybindRegistry(cfg *Config) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}

	bindings := DefaultKeybindings()
	if cfg != nil {
		for action, keys := range cfg.Keybindings {
			bindings[action] = keys
		}
	}

	// Display order decides which action wins a key bound twice.
	for _, action := range Actions() {
		r.bind(action, bindings[action])
		delete(bindings, action)
	}
	rest := make([]string, 0, len(bindings))
	for action := range bindings {
		rest = append(rest, action)
	}
	slices.Sort(rest)
	for _, action := range rest {
		r.bind(action, bindings[action])
	}
	return r
}

func (r *KeybindRegistry) bind(action string, keys []string) {
	if len(keys) == 0 {
		return
	}
	r.actionToKeys[action] = keys
	for _, key := range keys {
		for _, variant := range r.normalizer.NormalizeKey(key) {
			if _, taken := r.keyToAction[variant]; !taken {
				r.keyToAction[variant] = action
			}
		}
	}
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	if action, ok := r.keyToAction[key]; ok {
		return action
	}
	for _, variant := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyToAction[variant]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay returns the keys of action joined for display.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	return strings.Join(r.actionToKeys[action], ", ")
}

// GetKeybindings returns the help sections for registry, or for the
// defaults when registry is nil.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(nil)
	}

	var sections []KeybindingSection
	for _, s := range actionSections {
		section := KeybindingSection{Title: s.title}
		for _, action := range s.actions {
			addBinding(&section, registry, action, ActionDescriptions[action])
		}
		if len(section.Bindings) > 0 {
			sections = append(sections, section)
		}
	}
	return append(sections, getStaticHelpSections()...)
}

// addBinding adds a keybinding to a section if the action has keys configured
func addBinding(section *KeybindingSection, registry *KeybindRegistry, action, description string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: description,
		})
	}
}

// GetModeKeybindings returns the keys understood inside a mode.
func GetModeKeybindings(mode string) []Keybinding {
	switch mode {
	case "group-assign":
		return []Keybinding{
			{"text", "Group name"},
			{"Backspace", "Erase"},
			{"Enter", "Assign"},
			{"Esc", "Cancel"},
		}
	case "mark-assign":
		return []Keybinding{
			{"a-z", "Choose mark"},
			{"Backspace", "Clear mark"},
			{"Enter", "Assign"},
			{"Esc", "Cancel"},
		}
	case "mark-select":
		return []Keybinding{
			{"a-z", "Show marked view"},
			{"Tab", "Toggle switch to sheet"},
			{"Esc", "Cancel"},
		}
	case "sheet-assign":
		return []Keybinding{
			{"0-9", "Choose sheet"},
			{"Tab/Shift+Tab", "Next/previous output"},
			{"Enter", "Pin"},
			{"Esc", "Cancel"},
		}
	case "move", "resize":
		return []Keybinding{
			{"Arrows", "Move pointer"},
			{"Enter, Esc", "Finish"},
		}
	case "lock", "input-grab":
		return []Keybinding{
			{"Esc", "Leave mode"},
		}
	}
	return nil
}

// getStaticHelpSections returns help sections that don't depend on the registry
func getStaticHelpSections() []KeybindingSection {
	return []KeybindingSection{
		{
			Title: "POINTER:",
			Bindings: []Keybinding{
				{"Click", "Focus view under pointer"},
				{"Modifier held", "Show group indicators"},
			},
		},
		{
			Title:    "SHEET ASSIGN:",
			Bindings: GetModeKeybindings("sheet-assign"),
		},
		{
			Title:    "GROUP ASSIGN:",
			Bindings: GetModeKeybindings("group-assign"),
		},
	}
}
