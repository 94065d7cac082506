package keymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_QuitBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Quit.Keys()
	assert.Contains(t, keys, "ctrl+c")
}

func TestDefaultKeyMap_SendBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Send.Keys()
	assert.Contains(t, keys, "enter")
}

func TestDefaultKeyMap_ThreadsBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Threads.Keys()
	assert.Contains(t, keys, "ctrl+t")
}

func TestDefaultKeyMap_DocumentsBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Documents.Keys()
	assert.Contains(t, keys, "ctrl+d")
}

func TestDefaultKeyMap_RetryBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Retry.Keys()
	assert.Contains(t, keys, "ctrl+r")
}

func TestDefaultKeyMap_BackBinding(t *testing.T) {
	km := DefaultKeyMap()

	keys := km.Back.Keys()
	assert.Contains(t, keys, "esc")
}

func TestDefaultKeyMap_NavigationBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.Up.Keys(), "up")
	assert.Contains(t, km.Up.Keys(), "k")
	assert.Contains(t, km.Down.Keys(), "down")
	assert.Contains(t, km.Down.Keys(), "j")
	assert.Contains(t, km.Select.Keys(), "enter")
}

func TestDefaultKeyMap_ThreadListBindings(t *testing.T) {
	km := DefaultKeyMap()

	assert.Contains(t, km.New.Keys(), "n")
	assert.Contains(t, km.Rename.Keys(), "r")
	assert.Contains(t, km.Delete.Keys(), "d")
}

func TestKeyMap_ShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ShortHelp()
	assert.NotEmpty(t, help)
}

func TestKeyMap_ChatHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.ChatHelp()
	assert.NotEmpty(t, help)
}

func TestKeyMap_FullHelp(t *testing.T) {
	km := DefaultKeyMap()

	help := km.FullHelp()
	assert.NotEmpty(t, help)
	for _, group := range help {
		assert.NotEmpty(t, group)
	}
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("k", km.Up))
	assert.False(t, Matches("x", km.Up))
}
