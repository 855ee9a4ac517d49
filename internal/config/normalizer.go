package config

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var modifierOrder = []string{"ctrl", "alt", "shift", "super", "meta", "hyper"}

// KeyNormalizer turns user-written key strings into the spellings key
// events report, so "Ctrl+A" and "alt+shift+1" match "ctrl+a" and "alt+!".
type KeyNormalizer struct {
	aliases map[string][]string
	shifted map[string]string
	named   map[string]bool
}

// NewKeyNormalizer creates a normalizer for a US keyboard layout.
func NewKeyNormalizer() *KeyNormalizer {
	n := &KeyNormalizer{
		aliases: map[string][]string{
			"return":   {"enter"},
			"enter":    {"return"},
			"escape":   {"esc"},
			"esc":      {"escape"},
			" ":        {"space"},
			"pageup":   {"pgup"},
			"pagedown": {"pgdown"},
			"pgup":     {"pageup"},
			"pgdown":   {"pagedown"},
			"del":      {"delete"},
		},
		shifted: map[string]string{
			"1": "!", "2": "@", "3": "#", "4": "$", "5": "%",
			"6": "^", "7": "&", "8": "*", "9": "(", "0": ")",
			"-": "_", "=": "+", "[": "{", "]": "}", "\\": "|",
			";": ":", "'": "\"", ",": "<", ".": ">", "/": "?", "`": "~",
		},
		named: map[string]bool{},
	}
	for _, k := range []string{
		"enter", "return", "esc", "escape", "tab", "space", "backspace",
		"delete", "del", "insert", "up", "down", "left", "right", "home",
		"end", "pgup", "pgdown", "pageup", "pagedown",
	} {
		n.named[k] = true
	}
	for i := 1; i <= 12; i++ {
		n.named["f"+strconv.Itoa(i)] = true
	}
	return n
}

// split returns the modifiers and base key of key.
func split(key string) ([]string, string) {
	if key == "+" {
		return nil, "+"
	}
	if strings.HasSuffix(key, "++") {
		return strings.Split(strings.TrimSuffix(key, "++"), "+"), "+"
	}
	parts := strings.Split(key, "+")
	return parts[:len(parts)-1], parts[len(parts)-1]
}

func join(mods []string, base string) string {
	if len(mods) == 0 {
		return base
	}
	return strings.Join(mods, "+") + "+" + base
}

func canonicalMods(mods []string) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		m = strings.ToLower(strings.TrimSpace(m))
		if m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b string) int {
		return rank(a) - rank(b)
	})
	return out
}

func rank(m string) int {
	if i := slices.Index(modifierOrder, m); i >= 0 {
		return i
	}
	return len(modifierOrder)
}

// NormalizeKey returns every spelling key may be reported as. The first
// entry is the canonical form.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}

	rawMods, base := split(key)
	mods := canonicalMods(rawMods)

	var out []string
	add := func(s string) {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}

	if utf8.RuneCountInString(base) == 1 {
		r, _ := utf8.DecodeRuneInString(base)
		if unicode.IsUpper(r) {
			lower := string(unicode.ToLower(r))
			if len(mods) == 0 {
				add(base)
			} else {
				add(join(mods, lower))
			}
			add(join(withShift(mods), lower))
			return out
		}
	} else {
		base = strings.ToLower(base)
	}

	add(join(mods, base))
	for _, alias := range n.aliases[base] {
		add(join(mods, alias))
	}
	if slices.Contains(mods, "shift") {
		if s, ok := n.shifted[base]; ok {
			add(join(without(mods, "shift"), s))
		}
	}
	return out
}

func withShift(mods []string) []string {
	if slices.Contains(mods, "shift") {
		return mods
	}
	return canonicalMods(append(slices.Clone(mods), "shift"))
}

func without(mods []string, m string) []string {
	return slices.DeleteFunc(slices.Clone(mods), func(s string) bool { return s == m })
}

// ValidateKey reports whether key is well formed, with a reason when not.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, "empty key"
	}
	mods, base := split(key)
	for _, m := range mods {
		if !slices.Contains(modifierOrder, strings.ToLower(strings.TrimSpace(m))) {
			return false, "unknown modifier " + m
		}
	}
	if base == "" {
		return false, "missing key after modifiers"
	}
	if utf8.RuneCountInString(base) > 1 && !n.named[strings.ToLower(base)] {
		return false, "unknown key " + base
	}
	return true, ""
}
