package game

// Action is an outbound request the engine asks the gateway to perform.
// The engine mutates game state first and never talks to the transport
// itself; a failed action is logged by the gateway and the state stands.
type Action interface {
	action()
}

// Button is a transport-agnostic inline button: either a callback or a URL.
type Button struct {
	Text string
	Data string
	URL  string
}

// MessageNote tells the dispatcher what to do with the id of a message it
// just posted: the engine needs some ids back (round announcement, host
// menu, posted photos) to correlate later events.
type MessageNote int

const (
	NoteNone MessageNote = iota
	NoteWizardMenu
	NoteHostMenu
	NoteRoundAnnouncement
	NoteSubmission
	NoteReference
)

// PostText posts a text message. TopicID > 0 targets a forum topic.
// Pin asks the gateway to pin the posted message afterwards.
type PostText struct {
	ChatID   int64
	TopicID  int64
	Text     string
	Keyboard [][]Button
	Pin      bool
	Note     MessageNote
	NoteUser int64 // participant id for NoteSubmission
}

// PostPhoto posts a photo by its opaque media reference.
type PostPhoto struct {
	ChatID   int64
	TopicID  int64
	MediaRef string
	Caption  string
	Note     MessageNote
	NoteUser int64
}

type EditText struct {
	ChatID    int64
	MessageID int64
	Text      string
	Keyboard  [][]Button
}

type EditCaption struct {
	ChatID    int64
	MessageID int64
	Caption   string
}

type Unpin struct {
	ChatID    int64
	MessageID int64
}

// DM sends a private message to a user.
type DM struct {
	UserID   int64
	Text     string
	Keyboard [][]Button
}

func (PostText) action()    {}
func (PostPhoto) action()   {}
func (EditText) action()    {}
func (EditCaption) action() {}
func (Unpin) action()       {}
func (DM) action()          {}
