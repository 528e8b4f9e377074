package game_test

import (
	"testing"

	"github.com/dyplomin-hash/Couture/internal/game"
	"github.com/stretchr/testify/require"
)

const (
	mainChatID = int64(-1001234567890)
	topicBlitz = int64(77)
	hostID     = int64(100)
)

// archiveStub records SaveFinished calls in place of the gorm-backed archive.
type archiveStub struct {
	calls     int
	standings []game.Standing
	tie       bool
	err       error
}

func (a *archiveStub) SaveFinished(g *game.Game, standings []game.Standing, tie bool) error {
	a.calls++
	a.standings = standings
	a.tie = tie
	return a.err
}

// eventLog records published events in place of the ws hub.
type eventLog struct {
	events []string
}

func (l *eventLog) Publish(event string, data any) {
	l.events = append(l.events, event)
}

func newTestEngine() (*game.Engine, *archiveStub, *eventLog) {
	archive := &archiveStub{}
	events := &eventLog{}
	cfg := game.Config{
		MainChatID:  mainChatID,
		Topics:      []game.Topic{{Key: "blitz", Title: "⚡️БЛИЦ⚡️", ID: topicBlitz}},
		BotUsername: "couture_party_bot",
	}
	return game.NewEngine(cfg, game.NewRegistry(), archive, events), archive, events
}

// pointsChoices is the wizard walk for a points game with the given limit
// button. The limit argument is the raw callback data, e.g. "limit_no".
func pointsChoices(limit string) []string {
	return []string{"topic_blitz", "ref_no", "mode_points", "join_no", "skip_yes", "show_nicks_yes", limit}
}

func eliminationChoices() []string {
	return []string{"topic_blitz", "ref_no", "mode_elimination", "show_out_yes", "limit_no"}
}

// startGame walks the wizard from draft to a running game, failing the test
// if any step is silently ignored.
func startGame(t *testing.T, e *game.Engine, choices ...string) {
	t.Helper()
	e.CreateDraft(hostID)
	e.NoteMessage(game.NoteWizardMenu, hostID, 1)
	for _, c := range choices {
		require.NotEmpty(t, e.ApplyConfigChoice(hostID, c), "wizard choice %q was ignored", c)
	}
	require.NotEmpty(t, e.ConfirmAndStart(hostID))
}

var postedMessageID = int64(5000)

// submitOK submits a photo, plays the dispatcher's part by feeding the posted
// message id back, and returns that id for later host replies.
func submitOK(t *testing.T, e *game.Engine, from game.Sender, mediaRef string) int64 {
	t.Helper()
	for _, a := range e.SubmitPhoto(from, mediaRef, "") {
		if p, ok := a.(game.PostPhoto); ok && p.Note == game.NoteSubmission {
			postedMessageID++
			e.NoteMessage(game.NoteSubmission, p.NoteUser, postedMessageID)
			return postedMessageID
		}
	}
	t.Fatalf("photo from %d was not accepted", from.ID)
	return 0
}

func dmTexts(actions []game.Action) []string {
	var out []string
	for _, a := range actions {
		if d, ok := a.(game.DM); ok {
			out = append(out, d.Text)
		}
	}
	return out
}

func dmTo(t *testing.T, actions []game.Action, userID int64) string {
	t.Helper()
	for _, a := range actions {
		if d, ok := a.(game.DM); ok && d.UserID == userID {
			return d.Text
		}
	}
	t.Fatalf("no DM to %d in %v", userID, actions)
	return ""
}

func postTexts(actions []game.Action) []string {
	var out []string
	for _, a := range actions {
		if p, ok := a.(game.PostText); ok {
			out = append(out, p.Text)
		}
	}
	return out
}
