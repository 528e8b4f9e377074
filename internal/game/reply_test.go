package game_test

import (
	"testing"

	"github.com/dyplomin-hash/Couture/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostReply_Ignored(t *testing.T) {
	e, _, _ := newTestEngine()
	startGame(t, e, pointsChoices("limit_no")...)
	msg := submitOK(t, e, sender(200, "X", "xuser"), "file-1")

	t.Run("non-host replies", func(t *testing.T) {
		assert.Nil(t, e.ApplyHostReplyCommand(200, msg, "+5б"))
	})
	t.Run("reply to a foreign message", func(t *testing.T) {
		assert.Nil(t, e.ApplyHostReplyCommand(hostID, msg+999, "+5б"))
	})
	t.Run("unrecognized text", func(t *testing.T) {
		assert.Nil(t, e.ApplyHostReplyCommand(hostID, msg, "красиво!"))
	})
	t.Run("score without the б suffix", func(t *testing.T) {
		assert.Nil(t, e.ApplyHostReplyCommand(hostID, msg, "+5"))
	})
}

func TestHostReply_AuthorQuery(t *testing.T) {
	e, _, _ := newTestEngine()
	startGame(t, e, pointsChoices("limit_no")...)
	msg := submitOK(t, e, sender(200, "X", "xuser"), "file-1")

	actions := e.ApplyHostReplyCommand(hostID, msg, "  Кто автор  ")
	assert.Equal(t, "Автор: @xuser", dmTo(t, actions, hostID))

	anon := submitOK(t, e, sender(201, "", ""), "file-2")
	actions = e.ApplyHostReplyCommand(hostID, anon, "автор?")
	assert.Equal(t, "Автор: 🤫 секретик 🤫", dmTo(t, actions, hostID))
}

func TestHostReply_Scoring(t *testing.T) {
	e, _, events := newTestEngine()
	startGame(t, e, pointsChoices("limit_no")...)
	msg := submitOK(t, e, sender(200, "X", "xuser"), "file-1")

	actions := e.ApplyHostReplyCommand(hostID, msg, "+5б")
	assert.Equal(t, "💸 Автору @xuser зачислено 5 б.", dmTo(t, actions, hostID))
	assert.Equal(t, "💸 Вам зачислено 5 б. Всего: 5 б.", dmTo(t, actions, 200))

	actions = e.ApplyHostReplyCommand(hostID, msg, "-2б")
	assert.Equal(t, "💸 У автора @xuser списано 2 б.", dmTo(t, actions, hostID))
	assert.Equal(t, "💸 С вас списано 2 б. Всего: 3 б.", dmTo(t, actions, 200))

	assert.Contains(t, events.events, "score_changed")
}

func TestHostReply_ScoringHidesNicknameWhenConfigured(t *testing.T) {
	e, _, _ := newTestEngine()
	startGame(t, e, "topic_blitz", "ref_no", "mode_points", "join_no", "skip_yes", "show_nicks_no", "limit_no")
	msg := submitOK(t, e, sender(200, "X", "xuser"), "file-1")

	actions := e.ApplyHostReplyCommand(hostID, msg, "+5б")
	assert.Equal(t, "💸 Автору игрок зачислено 5 б.", dmTo(t, actions, hostID))
}

func TestHostReply_ScoreRejectedOffRound(t *testing.T) {
	e, _, _ := newTestEngine()
	startGame(t, e, pointsChoices("limit_no")...)
	msg := submitOK(t, e, sender(200, "X", "xuser"), "file-1")
	e.NextRound(hostID)

	actions := e.ApplyHostReplyCommand(hostID, msg, "+5б")
	assert.Contains(t, dmTo(t, actions, hostID), "только фото текущего раунда")

	// elimination by reply still works across rounds
	actions = e.ApplyHostReplyCommand(hostID, msg, "минус")
	require.NotEmpty(t, actions)
	assert.Contains(t, dmTo(t, actions, 200), "Вы выбываете из игры в 1 раунде")
}

func TestHostReply_Elimination(t *testing.T) {
	e, _, _ := newTestEngine()
	startGame(t, e, pointsChoices("limit_no")...)
	msg := submitOK(t, e, sender(200, "X", "xuser"), "file-1")

	// the word is matched anywhere inside the reply
	actions := e.ApplyHostReplyCommand(hostID, msg, "увы, покидает нас 😢")
	posts := postTexts(actions)
	require.Len(t, posts, 1)
	assert.Equal(t, "🤝 Игрок @xuser выбывает из игры в 1 раунде.", posts[0])
	assert.Contains(t, dmTo(t, actions, 200), "Вы выбываете из игры в 1 раунде")

	actions = e.ApplyHostReplyCommand(hostID, msg, "выбыл")
	assert.Contains(t, dmTo(t, actions, hostID), "уже выбыл в раунде 1")
}

func TestHostReply_RepeatRequiresExactWord(t *testing.T) {
	e, _, _ := newTestEngine()
	startGame(t, e, pointsChoices("limit_no")...)
	msg := submitOK(t, e, sender(200, "X", "xuser"), "file-1")

	assert.Nil(t, e.ApplyHostReplyCommand(hostID, msg, "повтор пожалуйста"))

	actions := e.ApplyHostReplyCommand(hostID, msg, "Повтор")
	require.Len(t, actions, 2)
	edit, ok := actions[0].(game.EditCaption)
	require.True(t, ok)
	assert.Equal(t, msg, edit.MessageID)
	assert.Equal(t, "⛔️ Фото отклонено, отправьте новое.", edit.Caption)
	assert.Contains(t, dmTo(t, actions, 200), "отклонено")
}

// A rejected photo is replaced by a resend in the same round, and the replaced
// submission is scorable while the rejected one is not.
func TestScenario_RepeatAndResubmit(t *testing.T) {
	e, _, _ := newTestEngine()
	startGame(t, e, pointsChoices("limit_no")...)

	// play up to round 3
	submitOK(t, e, sender(200, "A", "auser"), "r1-a")
	e.NextRound(hostID)
	submitOK(t, e, sender(200, "A", "auser"), "r2-a")
	e.NextRound(hostID)
	oldMsg := submitOK(t, e, sender(200, "A", "auser"), "r3-a")

	require.NotEmpty(t, e.ApplyHostReplyCommand(hostID, oldMsg, "повтор"))

	// the withdrawn photo keeps resolving but cannot be scored
	actions := e.ApplyHostReplyCommand(hostID, oldMsg, "+10б")
	assert.Contains(t, dmTo(t, actions, hostID), "Фото не участвует в раунде")

	// a second repeat against the same photo bounces
	actions = e.ApplyHostReplyCommand(hostID, oldMsg, "повтор")
	assert.Contains(t, dmTo(t, actions, hostID), "Фото уже отклонено")

	newMsg := submitOK(t, e, sender(200, "A", "auser"), "r3-a-fixed")
	actions = e.ApplyHostReplyCommand(hostID, newMsg, "+10б")
	assert.Contains(t, dmTo(t, actions, 200), "Вам зачислено 10 б. Всего: 10 б.")
	assert.Equal(t, 1, e.LiveSnapshot().PhotosInRound)
}
