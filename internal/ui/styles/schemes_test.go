package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestForIndexClamps(t *testing.T) {
	t.Parallel()

	require.Equal(t, Schemes[0], ForIndex(-1))
	require.Equal(t, Schemes[1], ForIndex(1))
	require.Equal(t, Schemes[len(Schemes)-1], ForIndex(999))
}
