// Package term implements the terminal-session core: translating key
// events into interpreter input bytes, tracking keypad application
// mode, and driving the session lifecycle around the interpreter
// process.
package term

// KeyCode identifies a key on the input device. The set is fixed; the
// UI layer maps whatever its event source produces onto these codes.
type KeyCode int

const (
	KeyUnknown KeyCode = iota

	// Directional pad.
	KeyDpadUp
	KeyDpadDown
	KeyDpadLeft
	KeyDpadRight
	KeyDpadCenter

	// Letters.
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	// Digits.
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9

	// Whitespace and editing.
	KeySpace
	KeyEnter
	KeyTab
	KeyDel

	// Punctuation.
	KeyAt
	KeyPeriod
	KeyComma
	KeyMinus
	KeyEquals
	KeySlash
	KeyBackslash
	KeySemicolon
	KeyApostrophe
	KeyGrave
	KeyLeftBracket
	KeyRightBracket
	KeyStar
	KeyPound
	KeyPlus

	// Modifiers.
	KeyShiftLeft
	KeyShiftRight
	KeyAltLeft
	KeyAltRight
)

// ControlKeySchemes are the keys that may be configured to act as the
// control modifier, indexed by the "controlkey" preference.
var ControlKeySchemes = []KeyCode{KeyDpadCenter, KeyAt, KeyAltLeft, KeyAltRight}

// ControlKeyNames are the user-facing names for ControlKeySchemes,
// index for index.
var ControlKeyNames = []string{"Center", "@", "Left-Alt", "Right-Alt"}

// Sink receives translated bytes on their way to the interpreter's
// stdin. Sequence hands over a complete multi-byte escape sequence in
// one call; implementations must not split it across writes, because
// the underlying stream may be shared with other writers.
type Sink interface {
	Print(b byte)
	Sequence(seq []byte)
}

// ModeFunc reports whether the terminal screen is in keypad
// application mode. It is consulted before each D-pad translation.
type ModeFunc func() bool

// Translator converts key events into interpreter input. It tracks
// the configured control key plus shift/alt state between events.
//
// Calls are expected to arrive sequentially from a single event loop;
// Translator is not safe for concurrent use.
type Translator struct {
	controlKey  KeyCode
	controlDown bool
	shiftDown   bool
	altDown     bool
	appMode     ModeFunc
	sink        Sink
}

// NewTranslator creates a translator emitting to sink. appMode may be
// nil, in which case cursor keys always use the normal ("[")
// introducer.
func NewTranslator(controlKey KeyCode, appMode ModeFunc, sink Sink) *Translator {
	return &Translator{
		controlKey: controlKey,
		appMode:    appMode,
		sink:       sink,
	}
}

// SetControlKey reconfigures which key acts as the control modifier.
// A pending control-down from the previous key is cleared so the old
// key's release can't leak into the new configuration.
func (t *Translator) SetControlKey(code KeyCode) {
	if t.controlKey != code {
		t.controlDown = false
	}
	t.controlKey = code
}

// ControlKey returns the currently configured control key.
func (t *Translator) ControlKey() KeyCode { return t.controlKey }

// ControlDown reports whether the control key is currently held.
func (t *Translator) ControlDown() bool { return t.controlDown }

// HandleKeyDown processes a key-press event. It returns false only
// for system keys, which the host must handle itself; every other key
// is consumed here, even when it produces no output.
func (t *Translator) HandleKeyDown(code KeyCode, system bool) bool {
	if code == t.controlKey {
		t.controlDown = true
		return true
	}
	if system {
		return false
	}
	if isDpad(code) {
		t.emitDpad(code)
		return true
	}

	switch code {
	case KeyShiftLeft, KeyShiftRight:
		t.shiftDown = true
		return true
	case KeyAltLeft, KeyAltRight:
		t.altDown = true
		return true
	}

	if b, ok := t.translate(code); ok {
		t.sink.Print(b)
	}
	return true
}

// HandleKeyUp processes a key-release event. System keys are left to
// the host; releasing the control key or a modifier clears its flag;
// everything else is consumed with no output.
func (t *Translator) HandleKeyUp(code KeyCode, system bool) bool {
	if code == t.controlKey {
		t.controlDown = false
		return true
	}
	if system {
		return false
	}
	switch code {
	case KeyShiftLeft, KeyShiftRight:
		t.shiftDown = false
	case KeyAltLeft, KeyAltRight:
		t.altDown = false
	}
	return true
}

func isDpad(code KeyCode) bool {
	return code >= KeyDpadUp && code <= KeyDpadCenter
}

// emitDpad implements the cursor-key policy: center sends a carriage
// return, the arrows send a three-byte VT100 sequence whose
// introducer depends on keypad application mode. The sequence goes to
// the sink as a single write.
func (t *Translator) emitDpad(code KeyCode) {
	if code == KeyDpadCenter {
		t.sink.Print('\r')
		return
	}

	var final byte
	switch code {
	case KeyDpadUp:
		final = 'A'
	case KeyDpadDown:
		final = 'B'
	case KeyDpadLeft:
		final = 'D'
	default:
		final = 'C'
	}

	introducer := byte('[')
	if t.appMode != nil && t.appMode() {
		introducer = 'O'
	}
	t.sink.Sequence([]byte{0x1b, introducer, final})
}

// translate maps a key to at most one byte given the current modifier
// state. Unmapped keys produce nothing.
func (t *Translator) translate(code KeyCode) (byte, bool) {
	base, ok := baseKeymap[code]
	if !ok {
		return 0, false
	}

	if t.controlDown {
		if b, ok := controlChar(base); ok {
			return b, true
		}
	}

	if t.shiftDown {
		if b, ok := shiftKeymap[code]; ok {
			return b, true
		}
	}
	return base, true
}

// controlChar maps a base character to its ASCII control code while
// the control key is held. The digit and punctuation chords follow
// the classic terminal convention: 1=ESC 5=US .=FS 0=GS 6=RS.
func controlChar(base byte) (byte, bool) {
	switch {
	case base == ' ':
		return 0x00, true
	case base >= 'a' && base <= 'z':
		return base - 'a' + 1, true
	case base >= 'A' && base <= 'Z':
		return base - 'A' + 1, true
	case base == '1':
		return 0x1b, true
	case base == '.':
		return 0x1c, true
	case base == '0':
		return 0x1d, true
	case base == '6':
		return 0x1e, true
	case base == '5':
		return 0x1f, true
	}
	return 0, false
}

// KeyForRune maps a printable rune back to the key that produces it,
// reporting whether the shift modifier is needed. Base characters win
// over shifted ones when a rune appears in both tables ('@' is the
// at-key, not shift-2).
func KeyForRune(r rune) (code KeyCode, shifted, ok bool) {
	if r > 0x7f {
		return KeyUnknown, false, false
	}
	b := byte(r)
	if code, ok := baseRunes[b]; ok {
		return code, false, true
	}
	if code, ok := shiftRunes[b]; ok {
		return code, true, true
	}
	return KeyUnknown, false, false
}

var (
	baseRunes  map[byte]KeyCode
	shiftRunes map[byte]KeyCode
)

func init() {
	baseRunes = make(map[byte]KeyCode, len(baseKeymap))
	for code, b := range baseKeymap {
		baseRunes[b] = code
	}
	shiftRunes = make(map[byte]KeyCode, len(shiftKeymap))
	for code, b := range shiftKeymap {
		if _, taken := baseRunes[b]; !taken {
			shiftRunes[b] = code
		}
	}
}

var baseKeymap = map[KeyCode]byte{
	KeyA: 'a', KeyB: 'b', KeyC: 'c', KeyD: 'd', KeyE: 'e', KeyF: 'f',
	KeyG: 'g', KeyH: 'h', KeyI: 'i', KeyJ: 'j', KeyK: 'k', KeyL: 'l',
	KeyM: 'm', KeyN: 'n', KeyO: 'o', KeyP: 'p', KeyQ: 'q', KeyR: 'r',
	KeyS: 's', KeyT: 't', KeyU: 'u', KeyV: 'v', KeyW: 'w', KeyX: 'x',
	KeyY: 'y', KeyZ: 'z',

	Key0: '0', Key1: '1', Key2: '2', Key3: '3', Key4: '4',
	Key5: '5', Key6: '6', Key7: '7', Key8: '8', Key9: '9',

	KeySpace: ' ',
	KeyEnter: '\r',
	KeyTab:   '\t',
	KeyDel:   0x7f,

	KeyAt:           '@',
	KeyPeriod:       '.',
	KeyComma:        ',',
	KeyMinus:        '-',
	KeyEquals:       '=',
	KeySlash:        '/',
	KeyBackslash:    '\\',
	KeySemicolon:    ';',
	KeyApostrophe:   '\'',
	KeyGrave:        '`',
	KeyLeftBracket:  '[',
	KeyRightBracket: ']',
	KeyStar:         '*',
	KeyPound:        '#',
	KeyPlus:         '+',
}

var shiftKeymap = map[KeyCode]byte{
	KeyA: 'A', KeyB: 'B', KeyC: 'C', KeyD: 'D', KeyE: 'E', KeyF: 'F',
	KeyG: 'G', KeyH: 'H', KeyI: 'I', KeyJ: 'J', KeyK: 'K', KeyL: 'L',
	KeyM: 'M', KeyN: 'N', KeyO: 'O', KeyP: 'P', KeyQ: 'Q', KeyR: 'R',
	KeyS: 'S', KeyT: 'T', KeyU: 'U', KeyV: 'V', KeyW: 'W', KeyX: 'X',
	KeyY: 'Y', KeyZ: 'Z',

	Key1: '!', Key2: '@', Key3: '#', Key4: '$', Key5: '%',
	Key6: '^', Key7: '&', Key8: '*', Key9: '(', Key0: ')',

	KeyPeriod:       '>',
	KeyComma:        '<',
	KeyMinus:        '_',
	KeyEquals:       '+',
	KeySlash:        '?',
	KeyBackslash:    '|',
	KeySemicolon:    ':',
	KeyApostrophe:   '"',
	KeyGrave:        '~',
	KeyLeftBracket:  '{',
	KeyRightBracket: '}',
}
