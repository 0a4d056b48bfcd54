package terminal

import (
	tea "charm.land/bubbletea/v2"

	"github.com/bqam/scriptterm/internal/term"
)

// mapKey converts a bubbletea key into the translator's key code plus
// the shift flag the chord needs. Keys outside the fixed set map to
// KeyUnknown, which the translator swallows.
func mapKey(k tea.Key) (term.KeyCode, bool) {
	switch k.Code {
	case tea.KeyUp:
		return term.KeyDpadUp, false
	case tea.KeyDown:
		return term.KeyDpadDown, false
	case tea.KeyLeft:
		return term.KeyDpadLeft, false
	case tea.KeyRight:
		return term.KeyDpadRight, false
	case tea.KeyEnter:
		return term.KeyEnter, false
	case tea.KeyTab:
		return term.KeyTab, false
	case tea.KeyBackspace:
		return term.KeyDel, false
	case tea.KeySpace:
		return term.KeySpace, false
	}

	// Prefer the text the terminal reported (it already reflects the
	// keyboard layout); fall back to the base code rune.
	r := k.Code
	if len(k.Text) > 0 {
		r = []rune(k.Text)[0]
	}
	if code, shifted, ok := term.KeyForRune(r); ok {
		return code, shifted
	}
	return term.KeyUnknown, false
}
