package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	k := DefaultKeyMap()

	assert.Equal(t, []string{"q", "ctrl+c"}, k.Quit.Keys())
	assert.Equal(t, []string{"esc"}, k.Back.Keys())
	assert.Equal(t, []string{"up", "k"}, k.Up.Keys())
	assert.Equal(t, []string{"down", "j"}, k.Down.Keys())
	assert.Equal(t, []string{"enter"}, k.Select.Keys())
	assert.Equal(t, []string{"r"}, k.Reload.Keys())
}

func TestMatches(t *testing.T) {
	k := DefaultKeyMap()

	assert.True(t, Matches("q", k.Quit))
	assert.True(t, Matches("ctrl+c", k.Quit))
	assert.True(t, Matches("k", k.Up))
	assert.False(t, Matches("x", k.Quit))
	assert.False(t, Matches("", k.Up))
}

func TestHelpSets(t *testing.T) {
	k := DefaultKeyMap()

	require.Len(t, k.ShortHelp(), 2)

	full := k.FullHelp()
	require.Len(t, full, 3)
	for _, row := range full {
		assert.NotEmpty(t, row)
	}
}
