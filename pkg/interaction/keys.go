package interaction

// LargeStep is the nudge distance, in grid units, of shifted arrow keys.
const LargeStep = 4

// KeyBinding documents the keys that produce an intent.
type KeyBinding struct {
	Keys []string
	Help string
}

var keyIntents = map[string]Intent{
	"up":    Nudge{DY: -1},
	"k":     Nudge{DY: -1},
	"down":  Nudge{DY: 1},
	"j":     Nudge{DY: 1},
	"left":  Nudge{DX: -1},
	"h":     Nudge{DX: -1},
	"right": Nudge{DX: 1},
	"l":     Nudge{DX: 1},

	"shift+up":    Nudge{DY: -LargeStep},
	"K":           Nudge{DY: -LargeStep},
	"shift+down":  Nudge{DY: LargeStep},
	"J":           Nudge{DY: LargeStep},
	"shift+left":  Nudge{DX: -LargeStep},
	"H":           Nudge{DX: -LargeStep},
	"shift+right": Nudge{DX: LargeStep},
	"L":           Nudge{DX: LargeStep},

	"enter": Commit{},
	"esc":   Cancel{},
}

// KeyIntent returns the intent for a key name as reported by terminal
// input libraries ("up", "shift+left", "enter"). It reports false for keys
// with no placement meaning.
//
// During a resize, nudges move the dragged edge; during a move they move
// the whole item.
func KeyIntent(key string) (Intent, bool) {
	in, ok := keyIntents[key]
	return in, ok
}

// KeyBindings lists the placement keys for help output.
func KeyBindings() []KeyBinding {
	return []KeyBinding{
		{Keys: []string{"←↓↑→", "hjkl"}, Help: "nudge"},
		{Keys: []string{"shift+arrows", "HJKL"}, Help: "nudge ×4"},
		{Keys: []string{"enter"}, Help: "commit"},
		{Keys: []string{"esc"}, Help: "cancel"},
	}
}
