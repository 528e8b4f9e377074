package telegram

import (
	"fmt"
	"log"

	"github.com/dyplomin-hash/Couture/internal/game"
)

// Dispatcher executes the engine's outbound actions against the Bot API.
// Failures are logged and surfaced to the host when relevant, never
// retried: by the time an action is dispatched the state change behind it is
// already applied and must stand.
type Dispatcher struct {
	client *Client
	engine *game.Engine
	hostID func() int64
}

func NewDispatcher(client *Client, engine *game.Engine) *Dispatcher {
	return &Dispatcher{client: client, engine: engine, hostID: engine.ActiveHostID}
}

func (d *Dispatcher) Run(actions []game.Action) {
	for _, a := range actions {
		switch act := a.(type) {
		case game.PostText:
			d.postText(act)
		case game.PostPhoto:
			d.postPhoto(act)
		case game.EditText:
			if err := d.client.EditMessageText(act.ChatID, act.MessageID, act.Text, markupArg(act.Keyboard)); err != nil {
				log.Printf("[Dispatcher] edit message %d: %v", act.MessageID, err)
			}
		case game.EditCaption:
			if err := d.client.EditMessageCaption(act.ChatID, act.MessageID, act.Caption); err != nil {
				log.Printf("[Dispatcher] edit caption %d: %v", act.MessageID, err)
			}
		case game.Unpin:
			if err := d.client.UnpinChatMessage(act.ChatID, act.MessageID); err != nil {
				log.Printf("[Dispatcher] unpin %d: %v", act.MessageID, err)
			}
		case game.DM:
			if _, err := d.client.SendMessage(act.UserID, 0, act.Text, markupArg(act.Keyboard)); err != nil {
				log.Printf("[Dispatcher] dm %d: %v", act.UserID, err)
			}
		}
	}
}

func (d *Dispatcher) postText(act game.PostText) {
	msgID, err := d.client.SendMessage(act.ChatID, act.TopicID, act.Text, markupArg(act.Keyboard))
	if err != nil {
		log.Printf("[Dispatcher] send to %d: %v", act.ChatID, err)
		return
	}
	if act.Note != game.NoteNone {
		d.engine.NoteMessage(act.Note, act.NoteUser, msgID)
	}
	if act.Pin {
		if err := d.client.PinChatMessage(act.ChatID, msgID); err != nil {
			log.Printf("[Dispatcher] pin %d: %v", msgID, err)
			// pin failures matter to the host: the round link lives there
			d.notifyHost(fmt.Sprintf("⚠️ Не удалось закрепить сообщение раунда: %v", err))
		}
	}
}

func (d *Dispatcher) postPhoto(act game.PostPhoto) {
	msgID, err := d.client.SendPhoto(act.ChatID, act.TopicID, act.MediaRef, act.Caption, nil)
	if err != nil {
		log.Printf("[Dispatcher] send photo to %d: %v", act.ChatID, err)
		return
	}
	if act.Note != game.NoteNone {
		d.engine.NoteMessage(act.Note, act.NoteUser, msgID)
	}
}

func (d *Dispatcher) notifyHost(text string) {
	if d.hostID == nil {
		return
	}
	id := d.hostID()
	if id == 0 {
		return
	}
	if _, err := d.client.SendMessage(id, 0, text, nil); err != nil {
		log.Printf("[Dispatcher] notify host: %v", err)
	}
}

func markupArg(rows [][]game.Button) interface{} {
	m := markup(rows)
	if m == nil {
		return nil
	}
	return m
}
