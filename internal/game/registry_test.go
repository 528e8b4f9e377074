package game_test

import (
	"testing"

	"github.com/dyplomin-hash/Couture/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_DraftsCoexistUntilOneStarts(t *testing.T) {
	r := game.NewRegistry()

	a, err := r.Create(mainChatID, 1)
	require.NoError(t, err)
	b, err := r.Create(mainChatID, 2)
	require.NoError(t, err)

	assert.Same(t, a, r.ByHost(1))
	assert.Same(t, b, r.ByHost(2))
	assert.Nil(t, r.Active())

	require.NoError(t, r.MarkStarted(a))
	assert.Same(t, a, r.Active())

	// with a started game no new draft may appear and no draft may start
	_, err = r.Create(mainChatID, 3)
	assert.ErrorIs(t, err, game.ErrGameInProgress)
	assert.ErrorIs(t, r.MarkStarted(b), game.ErrGameInProgress)

	// removing the started game frees the slot
	r.Remove(1)
	assert.Nil(t, r.Active())
	require.NoError(t, r.MarkStarted(b))
}

func TestRegistry_OneDraftPerHost(t *testing.T) {
	r := game.NewRegistry()

	_, err := r.Create(mainChatID, 1)
	require.NoError(t, err)
	_, err = r.Create(mainChatID, 1)
	assert.ErrorIs(t, err, game.ErrAlreadyConfiguring)
}

func TestRegistry_MarkStartedIsIdempotentForSameGame(t *testing.T) {
	r := game.NewRegistry()

	g, err := r.Create(mainChatID, 1)
	require.NoError(t, err)
	require.NoError(t, r.MarkStarted(g))
	assert.NoError(t, r.MarkStarted(g))
}
