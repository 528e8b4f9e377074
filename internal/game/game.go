package game

// Mode defines how the game ends and how standings are read.
type Mode string

const (
	ModePoints      Mode = "points"
	ModeElimination Mode = "elimination"
)

// WizardStep is the outstanding choice of the pre-start configuration wizard.
type WizardStep string

const (
	StepChooseTopic          WizardStep = "choose_topic"
	StepChooseRefMode        WizardStep = "choose_ref_mode"
	StepChooseMode           WizardStep = "choose_mode"
	StepChooseShowEliminated WizardStep = "choose_show_eliminated"
	StepChooseJoinLate       WizardStep = "choose_join_late"
	StepChooseSkip           WizardStep = "choose_skip"
	StepChooseShowNicknames  WizardStep = "choose_show_nicknames"
	StepChooseLimit          WizardStep = "choose_limit"
	StepConfirm              WizardStep = "confirm"
	StepDone                 WizardStep = "done"
)

type Settings struct {
	ShowEliminatedNicknames bool
	CanJoinLate             bool
	SkipAllowed             bool
	ShowNicknames           bool
	ParticipantLimit        int // 0 = unlimited
}

// applyModeDefaults returns the settings patch forced by the chosen mode.
// Elimination turns off late joining and round skipping once, at selection
// time; the wizard never asks these questions again.
func applyModeDefaults(mode Mode, s Settings) Settings {
	if mode == ModeElimination {
		s.CanJoinLate = false
		s.SkipAllowed = false
	}
	return s
}

type Submission struct {
	MediaRef        string
	PostedMessageID int64
	Caption         string
}

// PhotoSlot is a participant's slot in the current round: either an accepted
// submission or a withdrawn mark (photo rejected, a resend is expected).
// A withdrawn slot keeps the rejected submission so host replies to the old
// posted message still resolve.
type PhotoSlot struct {
	Submission *Submission
	Withdrawn  bool
}

type Participant struct {
	ID           int64
	Nickname     string
	Username     string
	Score        int
	Eliminated   bool
	RoundOut     int // round of elimination, 0 = still in the game
	RoundsPlayed []int
}

// DisplayName prefers the @username handle, falling back to the nickname.
func (p *Participant) DisplayName() string {
	if p.Username != "" {
		return "@" + p.Username
	}
	return p.Nickname
}

type Game struct {
	HostID  int64
	ChatID  int64
	TopicID int64

	Mode     Mode
	RefMode  bool
	Settings Settings

	Started              bool
	CurrentRound         int
	RoundActive          bool
	PhotoReceptionActive bool
	CurrentRefSent       bool

	Participants    map[int64]*Participant
	PhotosThisRound map[int64]*PhotoSlot
	PhotosAllRounds map[int]map[int64]Submission

	LastRoundMessageID int64
	HostMenuMessageID  int64
	WizardMessageID    int64

	Step         WizardStep
	EndRequested bool
}

func NewGame(chatID, hostID int64) *Game {
	return &Game{
		HostID:          hostID,
		ChatID:          chatID,
		Settings:        Settings{SkipAllowed: true, ShowNicknames: true},
		Participants:    make(map[int64]*Participant),
		PhotosThisRound: make(map[int64]*PhotoSlot),
		PhotosAllRounds: make(map[int]map[int64]Submission),
		Step:            StepChooseTopic,
	}
}

// submittedCount counts accepted (non-withdrawn) photos of the current round.
func (g *Game) submittedCount() int {
	n := 0
	for _, slot := range g.PhotosThisRound {
		if !slot.Withdrawn {
			n++
		}
	}
	return n
}

// missing lists participants the host is still waiting on this round.
func (g *Game) missing() []int64 {
	var out []int64
	for id, p := range g.Participants {
		if p.Eliminated {
			continue
		}
		slot, ok := g.PhotosThisRound[id]
		if !ok || slot.Withdrawn {
			out = append(out, id)
		}
	}
	return out
}

// photoRef identifies a posted photo resolved from a host reply.
type photoRef struct {
	ParticipantID int64
	Round         int
	Withdrawn     bool
}

// findByPostedMessage resolves the author of a posted photo by the message id
// the host replied to: current round first, then the history of all rounds.
func (g *Game) findByPostedMessage(messageID int64) (photoRef, bool) {
	for uid, slot := range g.PhotosThisRound {
		if slot.Submission != nil && slot.Submission.PostedMessageID == messageID {
			return photoRef{ParticipantID: uid, Round: g.CurrentRound, Withdrawn: slot.Withdrawn}, true
		}
	}
	for round, photos := range g.PhotosAllRounds {
		for uid, sub := range photos {
			if sub.PostedMessageID == messageID {
				return photoRef{ParticipantID: uid, Round: round}, true
			}
		}
	}
	return photoRef{}, false
}
