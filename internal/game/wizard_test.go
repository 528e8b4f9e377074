package game_test

import (
	"testing"

	"github.com/dyplomin-hash/Couture/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizard_PointsPath(t *testing.T) {
	e, _, events := newTestEngine()

	actions := e.CreateDraft(hostID)
	require.Len(t, actions, 1)
	menu, ok := actions[0].(game.PostText)
	require.True(t, ok)
	assert.Equal(t, game.NoteWizardMenu, menu.Note)
	require.Len(t, menu.Keyboard, 1)
	assert.Equal(t, "topic_blitz", menu.Keyboard[0][0].Data)

	e.NoteMessage(game.NoteWizardMenu, hostID, 42)

	for _, c := range pointsChoices("limit_no")[:6] {
		actions = e.ApplyConfigChoice(hostID, c)
		require.Len(t, actions, 1, "choice %q", c)
		edit, ok := actions[0].(game.EditText)
		require.True(t, ok, "choice %q should edit the wizard message in place", c)
		assert.Equal(t, int64(42), edit.MessageID)
	}

	actions = e.ApplyConfigChoice(hostID, "limit_no")
	require.Len(t, actions, 1)
	summary := actions[0].(game.EditText).Text
	assert.Contains(t, summary, "🪩 Игра готова!")
	assert.Contains(t, summary, "Режим: Баллы")
	assert.Contains(t, summary, "Лимит участников: Без ограничений")

	actions = e.ConfirmAndStart(hostID)
	require.NotEmpty(t, actions)
	assert.Contains(t, events.events, "game_started")
	assert.Contains(t, events.events, "round_started")

	snap := e.LiveSnapshot()
	assert.True(t, snap.Running)
	assert.Equal(t, "points", snap.Mode)
	assert.Equal(t, 1, snap.Round)
	assert.True(t, snap.RoundActive)
}

func TestWizard_EliminationForcesDefaultsAndSkipsQuestions(t *testing.T) {
	e, _, _ := newTestEngine()

	e.CreateDraft(hostID)
	e.NoteMessage(game.NoteWizardMenu, hostID, 42)
	e.ApplyConfigChoice(hostID, "topic_blitz")
	e.ApplyConfigChoice(hostID, "ref_no")
	e.ApplyConfigChoice(hostID, "mode_elimination")

	// the late-join and skip questions never come up in elimination mode
	assert.Nil(t, e.ApplyConfigChoice(hostID, "join_yes"))
	assert.Nil(t, e.ApplyConfigChoice(hostID, "skip_yes"))

	actions := e.ApplyConfigChoice(hostID, "show_out_no")
	require.Len(t, actions, 1)
	assert.Contains(t, actions[0].(game.EditText).Text, "ограничение участников")

	actions = e.ApplyConfigChoice(hostID, "limit_5")
	require.Len(t, actions, 1)
	summary := actions[0].(game.EditText).Text
	assert.Contains(t, summary, "Режим: Выбывание")
	assert.Contains(t, summary, "Позднее присоединение: ❌")
	assert.Contains(t, summary, "Пропуск раунда: ❌")
	assert.Contains(t, summary, "Показ выбывших: ❌")
	assert.Contains(t, summary, "Показ ников: ❌")
	assert.Contains(t, summary, "Лимит участников: 5")
}

func TestWizard_OutOfStepPressesIgnored(t *testing.T) {
	e, _, _ := newTestEngine()
	e.CreateDraft(hostID)

	assert.Nil(t, e.ApplyConfigChoice(hostID, "limit_5"))
	assert.Nil(t, e.ApplyConfigChoice(hostID, "mode_points"))
	assert.Nil(t, e.ApplyConfigChoice(hostID, "topic_unknown"))
	assert.Nil(t, e.ConfirmAndStart(hostID))

	// the draft is untouched: the topic question is still the pending one
	actions := e.ApplyConfigChoice(hostID, "topic_blitz")
	require.NotEmpty(t, actions)
}

func TestWizard_RegistryRejections(t *testing.T) {
	t.Run("host already configuring", func(t *testing.T) {
		e, _, _ := newTestEngine()
		e.CreateDraft(hostID)
		actions := e.CreateDraft(hostID)
		assert.Contains(t, dmTo(t, actions, hostID), "Вы уже создаёте игру")
	})

	t.Run("another game already started", func(t *testing.T) {
		e, _, _ := newTestEngine()
		startGame(t, e, pointsChoices("limit_no")...)
		actions := e.CreateDraft(hostID + 1)
		assert.Contains(t, dmTo(t, actions, hostID+1), "Игра уже начата")
	})
}

func TestWizard_Reset(t *testing.T) {
	e, _, _ := newTestEngine()
	e.CreateDraft(hostID)
	e.NoteMessage(game.NoteWizardMenu, hostID, 42)
	e.ApplyConfigChoice(hostID, "topic_blitz")

	actions := e.ApplyConfigChoice(hostID, "start_reset")
	require.Len(t, actions, 1)
	assert.Contains(t, actions[0].(game.EditText).Text, "🚩 Все настройки сброшены")

	// the draft is gone, further presses hit the not-found reply
	actions = e.ApplyConfigChoice(hostID, "ref_yes")
	assert.Contains(t, dmTo(t, actions, hostID), "Игра не найдена")
}

func TestWizard_ChoicesRejectedAfterStart(t *testing.T) {
	e, _, _ := newTestEngine()
	startGame(t, e, pointsChoices("limit_no")...)

	actions := e.ApplyConfigChoice(hostID, "mode_points")
	assert.Contains(t, dmTo(t, actions, hostID), "Игра не найдена")
}
