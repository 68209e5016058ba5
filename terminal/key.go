package terminal

// Key represents a parsed input key
type Key uint8

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyCtrlC
	KeyOther // Recognized sequence without game meaning (arrows, function keys, modifiers)
)

// Modifier flags
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
	ModSuper Modifier = 1 << 3
)

// Action is the key transition reported by the terminal
// Legacy input only ever produces ActionPress
type Action uint8

const (
	ActionPress Action = iota
	ActionRepeat
	ActionRelease
)

func (a Action) String() string {
	switch a {
	case ActionRepeat:
		return "repeat"
	case ActionRelease:
		return "release"
	}
	return "press"
}

// Kitty functional key codes with fixed meaning
const (
	codeTab       = 9
	codeEnter     = 13
	codeEscape    = 27
	codeBackspace = 127

	// Private use area: keypad, media and lone modifier keys
	codePrivateStart = 57344
	codePrivateEnd   = 63743
)

// keyFromCode maps a CSI u key code and modifier set to a key
func keyFromCode(code int, mods Modifier) (Key, rune) {
	switch code {
	case codeEscape:
		return KeyEscape, 0
	case codeEnter:
		return KeyEnter, 0
	case codeTab:
		return KeyTab, 0
	case codeBackspace, 8:
		return KeyBackspace, 0
	}

	if mods&ModCtrl != 0 && (code == 'c' || code == 'C') {
		return KeyCtrlC, 0
	}
	if code >= codePrivateStart && code <= codePrivateEnd {
		return KeyOther, 0
	}
	if code < 0x20 || code == 0x7f {
		return KeyOther, 0
	}

	r := rune(code)
	// Base code is the unshifted key; letters report as lower case
	if mods&ModShift != 0 && r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	return KeyRune, r
}
