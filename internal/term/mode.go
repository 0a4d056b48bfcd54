package term

// ModeTracker derives the keypad-application-mode flag from the
// interpreter's output stream by watching for DECKPAM (ESC =) and
// DECKPNM (ESC >). The emulator we render through does not expose the
// flag, but the session already relays every output byte, so the
// tracker taps that stream instead.
//
// Observe tolerates arbitrary chunk boundaries: the two-byte sequence
// may be split across reads.
type ModeTracker struct {
	app        bool
	pendingEsc bool
}

// Observe scans a chunk of interpreter output for keypad mode
// changes.
func (m *ModeTracker) Observe(p []byte) {
	for _, b := range p {
		if m.pendingEsc {
			switch b {
			case '=':
				m.app = true
			case '>':
				m.app = false
			}
			m.pendingEsc = b == 0x1b
			continue
		}
		m.pendingEsc = b == 0x1b
	}
}

// ApplicationMode reports whether the screen is in keypad application
// mode. It satisfies the translator's ModeFunc.
func (m *ModeTracker) ApplicationMode() bool { return m.app }
