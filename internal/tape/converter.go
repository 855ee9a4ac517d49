package tape

import (
	"fmt"
	"strings"
)

// KeyCombo represents a key combination (e.g., Alt+T, Alt+Shift+1)
type KeyCombo struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Super bool
	Key   string // The key itself (t, 1, enter, etc.)
}

// String returns the key combo in keybinding notation ("alt+shift+t")
func (kc *KeyCombo) String() string {
	var sb strings.Builder
	if kc.Ctrl {
		sb.WriteString("ctrl+")
	}
	if kc.Alt {
		sb.WriteString("alt+")
	}
	if kc.Shift {
		sb.WriteString("shift+")
	}
	if kc.Super {
		sb.WriteString("super+")
	}
	sb.WriteString(kc.Key)
	return sb.String()
}

// ParseKeyCombo parses "Alt+T", "alt+shift+1" or "Ctrl+Alt+Enter". A lone
// "+" as the key is kept ("alt++").
func ParseKeyCombo(s string) (*KeyCombo, error) {
	if s == "" {
		return nil, fmt.Errorf("empty key combo")
	}
	kc := &KeyCombo{}

	parts := strings.Split(s, "+")
	key := parts[len(parts)-1]
	mods := parts[:len(parts)-1]
	if key == "" && len(parts) > 1 {
		key = "+"
		mods = parts[:len(parts)-2]
	}
	if key == "" {
		return nil, fmt.Errorf("key combo %q has no key", s)
	}

	for _, m := range mods {
		switch strings.ToLower(m) {
		case "ctrl", "control":
			kc.Ctrl = true
		case "alt", "meta", "option":
			kc.Alt = true
		case "shift":
			kc.Shift = true
		case "super", "cmd", "win":
			kc.Super = true
		default:
			return nil, fmt.Errorf("unknown modifier: %s", m)
		}
	}
	kc.Key = mapKeyName(key)
	return kc, nil
}

// keyNames maps script key names to keybinding key names
var keyNames = map[string]string{
	"enter":     "enter",
	"return":    "enter",
	"space":     "space",
	"tab":       "tab",
	"escape":    "esc",
	"esc":       "esc",
	"backspace": "backspace",
	"delete":    "delete",
	"up":        "up",
	"down":      "down",
	"left":      "left",
	"right":     "right",
	"home":      "home",
	"end":       "end",
	"pageup":    "pgup",
	"pgup":      "pgup",
	"pagedown":  "pgdown",
	"pgdown":    "pgdown",
	"pgdn":      "pgdown",
	"backtick":  "`",
}

// mapKeyName maps a key name to its keybinding spelling. Single characters
// keep their case so "T" still reads as shift+t to the normalizer.
func mapKeyName(key string) string {
	if len(key) == 1 {
		return key
	}
	if mapped, ok := keyNames[strings.ToLower(key)]; ok {
		return mapped
	}
	return strings.ToLower(key)
}

// ConvertKey turns a script key argument into keybinding notation. Keys
// that do not parse are passed through unchanged.
func ConvertKey(s string) string {
	kc, err := ParseKeyCombo(s)
	if err != nil {
		return s
	}
	return kc.String()
}
