// Package styles defines the terminal color schemes and the lipgloss
// styles derived from them.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// Scheme is one foreground/background pairing selectable from the
// "color" preference.
type Scheme struct {
	Name       string
	Foreground color.Color
	Background color.Color
}

// Schemes is the fixed scheme table; the stored preference is an
// index into it, clamped on read.
var Schemes = []Scheme{
	{Name: "Black on White", Foreground: mustHex("#000000"), Background: mustHex("#ffffff")},
	{Name: "White on Black", Foreground: mustHex("#ffffff"), Background: mustHex("#000000")},
	{Name: "White on Blue", Foreground: mustHex("#ffffff"), Background: mustHex("#344ebd")},
}

// ForIndex returns the scheme for a preference index, clamping
// out-of-range values rather than panicking on a corrupted store.
func ForIndex(i int) Scheme {
	if i < 0 {
		i = 0
	}
	if i >= len(Schemes) {
		i = len(Schemes) - 1
	}
	return Schemes[i]
}

// Styles bundles the lipgloss styles the UI derives from a scheme.
type Styles struct {
	Scheme Scheme

	Base     lipgloss.Style
	Header   lipgloss.Style
	Status   lipgloss.Style
	StatusOK lipgloss.Style
	Help     lipgloss.Style
}

// New derives the UI styles from a scheme.
func New(s Scheme) Styles {
	base := lipgloss.NewStyle().
		Foreground(s.Foreground).
		Background(s.Background)

	return Styles{
		Scheme:   s,
		Base:     base,
		Header:   base.Bold(true).Padding(0, 1),
		Status:   base.Faint(true).Padding(0, 1),
		StatusOK: base.Bold(true),
		Help:     base.Faint(true),
	}
}

// mustHex parses a hex color string and panics on failure.
func mustHex(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}
