package term

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModeTracker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		chunks [][]byte
		want   bool
	}{
		{name: "initially normal", chunks: nil, want: false},
		{name: "deckpam enables", chunks: [][]byte{[]byte("\x1b=")}, want: true},
		{name: "deckpnm disables", chunks: [][]byte{[]byte("\x1b=\x1b>")}, want: false},
		{name: "split across chunks", chunks: [][]byte{[]byte("hello\x1b"), []byte("=world")}, want: true},
		{name: "csi does not trigger", chunks: [][]byte{[]byte("\x1b[0;=m")}, want: false},
		{name: "double escape then equals", chunks: [][]byte{[]byte("\x1b\x1b=")}, want: true},
		{name: "last wins", chunks: [][]byte{[]byte("\x1b="), []byte("\x1b>"), []byte("\x1b=")}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m ModeTracker
			for _, c := range tt.chunks {
				m.Observe(c)
			}
			require.Equal(t, tt.want, m.ApplicationMode())
		})
	}
}
