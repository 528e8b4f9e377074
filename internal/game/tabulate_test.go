package game_test

import (
	"testing"

	"github.com/dyplomin-hash/Couture/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameWith(participants ...*game.Participant) *game.Game {
	g := game.NewGame(mainChatID, hostID)
	for _, p := range participants {
		g.Participants[p.ID] = p
	}
	return g
}

func TestTabulate_OrdersByScore(t *testing.T) {
	g := gameWith(
		&game.Participant{ID: 1, Nickname: "a", Score: 7},
		&game.Participant{ID: 2, Nickname: "b", Score: 12},
		&game.Participant{ID: 3, Nickname: "c", Score: 3},
	)

	standings, tie := game.Tabulate(g)
	require.Len(t, standings, 3)
	assert.False(t, tie)
	assert.Equal(t, []int64{2, 1, 3}, ids(standings))
	assert.Equal(t, []int{1, 2, 3}, places(standings))
}

// Two participants on 10 points share place 1; the 7-point participant takes
// place 2 (dense places) and the tie flag is raised.
func TestTabulate_SharedFirstPlace(t *testing.T) {
	g := gameWith(
		&game.Participant{ID: 1, Nickname: "a", Score: 10},
		&game.Participant{ID: 2, Nickname: "b", Score: 10},
		&game.Participant{ID: 3, Nickname: "c", Score: 7},
	)

	standings, tie := game.Tabulate(g)
	assert.True(t, tie)
	assert.Equal(t, []int{1, 1, 2}, places(standings))
}

func TestTabulate_SurvivorOutranksEliminatedAtEqualScore(t *testing.T) {
	g := gameWith(
		&game.Participant{ID: 1, Nickname: "out-early", Score: 5, Eliminated: true, RoundOut: 1},
		&game.Participant{ID: 2, Nickname: "survivor", Score: 5},
		&game.Participant{ID: 3, Nickname: "out-late", Score: 5, Eliminated: true, RoundOut: 3},
	)

	standings, tie := game.Tabulate(g)
	assert.True(t, tie)
	assert.Equal(t, []int64{2, 3, 1}, ids(standings))
	// ordering within the run does not split the shared place
	assert.Equal(t, []int{1, 1, 1}, places(standings))
}

func TestTabulate_Empty(t *testing.T) {
	standings, tie := game.Tabulate(gameWith())
	assert.Empty(t, standings)
	assert.False(t, tie)
}

func ids(standings []game.Standing) []int64 {
	out := make([]int64, 0, len(standings))
	for _, s := range standings {
		out = append(out, s.Participant.ID)
	}
	return out
}

func places(standings []game.Standing) []int {
	out := make([]int, 0, len(standings))
	for _, s := range standings {
		out = append(out, s.Place)
	}
	return out
}
