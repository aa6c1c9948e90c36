package config

import (
	"sort"
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

// ActionDescriptions maps desktop actions to human readable descriptions.
var ActionDescriptions = map[string]string{
	"new_terminal":      "New terminal",
	"close_window":      "Close focused window",
	"minimize_window":   "Minimize focused window",
	"toggle_fullscreen": "Toggle fullscreen",
	"next_window":       "Focus next window",
	"prev_window":       "Focus previous window",
	"restore_all":       "Restore minimized windows",
	"open_menu":         "Open the menu bar",
	"focus_desktop":     "Focus the desktop",
	"quit":              "Quit",
}

func defaultKeybindings() map[string][]string {
	return map[string][]string{
		"new_terminal":      {"ctrl+n"},
		"close_window":      {"ctrl+w"},
		"minimize_window":   {"alt+m"},
		"toggle_fullscreen": {"ctrl+f", "f11"},
		"next_window":       {"alt+tab", "alt+]"},
		"prev_window":       {"alt+shift+tab", "alt+["},
		"restore_all":       {"alt+shift+m"},
		"open_menu":         {"f10"},
		"focus_desktop":     {"alt+d"},
		"quit":              {"ctrl+q"},
	}
}

// KeybindRegistry resolves keys to actions and back.
type KeybindRegistry struct {
	actionToKeys map[string][]string
	keyToAction  map[string]string
	normalizer   *KeyNormalizer
}

// NewKeybindRegistry indexes the keybindings of cfg.
func NewKeybindRegistry(cfg *Config) *KeybindRegistry {
	r := &KeybindRegistry{
		actionToKeys: make(map[string][]string),
		keyToAction:  make(map[string]string),
		normalizer:   NewKeyNormalizer(),
	}
	bindings := cfg.Keybindings
	if bindings == nil {
		bindings = defaultKeybindings()
	}
	for action, keys := range bindings {
		r.actionToKeys[action] = append([]string(nil), keys...)
		for _, key := range keys {
			for _, k := range r.normalizer.NormalizeKey(key) {
				r.keyToAction[k] = action
			}
		}
	}
	return r
}

// GetKeys returns the keys bound to action.
func (r *KeybindRegistry) GetKeys(action string) []string {
	return r.actionToKeys[action]
}

// GetAction returns the action bound to key, or "".
func (r *KeybindRegistry) GetAction(key string) string {
	for _, k := range r.normalizer.NormalizeKey(key) {
		if action, ok := r.keyToAction[k]; ok {
			return action
		}
	}
	return ""
}

// GetKeysForDisplay formats the keys of action for help screens.
func (r *KeybindRegistry) GetKeysForDisplay(action string) string {
	keys := r.GetKeys(action)
	display := make([]string, 0, len(keys))
	for _, k := range keys {
		display = append(display, formatKey(k))
	}
	return strings.Join(display, ", ")
}

// Actions returns every bound action, sorted.
func (r *KeybindRegistry) Actions() []string {
	actions := make([]string, 0, len(r.actionToKeys))
	for a := range r.actionToKeys {
		actions = append(actions, a)
	}
	sort.Strings(actions)
	return actions
}

func formatKey(k string) string {
	parts := strings.Split(k, "+")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "+")
}

// KeyNormalizer maps user-written key names onto the names the terminal
// reports.
type KeyNormalizer struct {
	aliases map[string]string
}

// NewKeyNormalizer creates a normalizer with the common aliases.
func NewKeyNormalizer() *KeyNormalizer {
	return &KeyNormalizer{aliases: map[string]string{
		"return": "enter",
		"escape": "esc",
		"del":    "delete",
		"opt":    "alt",
		"option": "alt",
		"cmd":    "super",
	}}
}

// NormalizeKey lowercases key and returns it together with its aliased form.
func (n *KeyNormalizer) NormalizeKey(key string) []string {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return nil
	}
	out := []string{key}
	parts := strings.Split(key, "+")
	changed := false
	for i, p := range parts {
		if alias, ok := n.aliases[p]; ok {
			parts[i] = alias
			changed = true
		}
	}
	if changed {
		out = append(out, strings.Join(parts, "+"))
	}
	return out
}

// ValidateKey reports whether key is usable as a binding.
func (n *KeyNormalizer) ValidateKey(key string) (bool, string) {
	key = strings.TrimSpace(key)
	if key == "" {
		return false, "empty key"
	}
	if strings.HasSuffix(key, "+") && key != "+" {
		return false, "dangling modifier"
	}
	for _, p := range strings.Split(key, "+") {
		if p == "" && key != "+" {
			return false, "empty key component"
		}
	}
	return true, ""
}

// GetKeybindings returns all keybinding sections for help output.
// If registry is nil the built-in defaults are described.
func GetKeybindings(registry *KeybindRegistry) []KeybindingSection {
	if registry == nil {
		registry = NewKeybindRegistry(DefaultConfig())
	}

	windows := KeybindingSection{Title: "WINDOWS"}
	for _, action := range []string{"new_terminal", "close_window", "minimize_window", "toggle_fullscreen", "next_window", "prev_window", "restore_all", "focus_desktop"} {
		addBinding(&windows, registry, action)
	}

	desktop := KeybindingSection{Title: "DESKTOP"}
	addBinding(&desktop, registry, "open_menu")
	addBinding(&desktop, registry, "quit")

	sections := []KeybindingSection{windows, desktop}
	return append(sections, getStaticHelpSections()...)
}

func addBinding(section *KeybindingSection, registry *KeybindRegistry, action string) {
	keys := registry.GetKeysForDisplay(action)
	if keys != "" {
		section.Bindings = append(section.Bindings, Keybinding{
			Key:         keys,
			Description: ActionDescriptions[action],
		})
	}
}

func getStaticHelpSections() []KeybindingSection {
	return []KeybindingSection{
		{
			Title: "MOUSE",
			Bindings: []Keybinding{
				{"Drag title bar", "Move window"},
				{"Drag bottom corners", "Resize window"},
				{"Click ● ● ●", "Close, minimize, maximize"},
				{"Click dock item", "Restore or launch"},
				{"Click desktop file", "Open in editor"},
			},
		},
		{
			Title: "TERMINAL",
			Bindings: []Keybinding{
				{"Up/Down", "Command history"},
				{"Ctrl+L", "Clear screen"},
				{"Ctrl+U", "Clear input line"},
			},
		},
	}
}
