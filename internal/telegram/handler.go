package telegram

import (
	"strings"
	"sync"

	"github.com/dyplomin-hash/Couture/internal/game"
)

// UpdateHandler translates inbound Telegram updates into engine operations
// and executes the actions the engine asks for. Updates are handled one at a
// time under the handler mutex: an event is fully applied, outbound sends
// included, before the next one starts.
type UpdateHandler struct {
	mu         sync.Mutex
	client     *Client
	engine     *game.Engine
	dispatcher *Dispatcher
	mainChatID int64
}

func NewUpdateHandler(client *Client, engine *game.Engine, dispatcher *Dispatcher, mainChatID int64) *UpdateHandler {
	return &UpdateHandler{
		client:     client,
		engine:     engine,
		dispatcher: dispatcher,
		mainChatID: mainChatID,
	}
}

func (h *UpdateHandler) Handle(upd Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if upd.CallbackQuery != nil {
		h.handleCallback(upd.CallbackQuery)
		return
	}
	if upd.Message != nil {
		h.handleMessage(upd.Message)
	}
}

func (h *UpdateHandler) handleMessage(msg *Message) {
	if msg.From == nil {
		return
	}
	userID := msg.From.ID

	// photos only count when sent to the bot directly
	if len(msg.Photo) > 0 && msg.Chat.Type == "private" {
		photo := msg.Photo[len(msg.Photo)-1]
		sender := game.Sender{ID: userID, Nickname: msg.From.FullName(), Username: msg.From.Username}
		h.dispatcher.Run(h.engine.SubmitPhoto(sender, photo.FileID, msg.Caption))
		return
	}

	switch {
	case isCommand(msg, "start_game"):
		if msg.Chat.Type != "private" {
			return
		}
		h.dispatcher.Run(h.engine.CreateDraft(userID))
	case isCommand(msg, "host_menu"):
		h.dispatcher.Run(h.engine.HostMenu(userID))
	case isCommand(msg, "stop_round"):
		h.dispatcher.Run(h.engine.EndRound(userID))
	case isCommand(msg, "stop_photos"):
		h.dispatcher.Run(h.engine.StopReception(userID))
	case isCommand(msg, "who_left"):
		h.dispatcher.Run(h.engine.QueryMissingParticipants(userID, false, false))
	case isCommand(msg, "players"):
		h.dispatcher.Run(h.engine.QueryActiveParticipants(userID))
	case isCommand(msg, "call_participants_public"):
		h.dispatcher.Run(h.engine.QueryMissingParticipants(userID, true, true))
	case isCommand(msg, "call_participants_private"):
		h.dispatcher.Run(h.engine.QueryMissingParticipants(userID, true, false))
	default:
		// a text reply to a posted photo in the game chat is a host command
		if msg.Chat.ID == h.mainChatID && msg.ReplyToMessage != nil && strings.TrimSpace(msg.Text) != "" {
			h.dispatcher.Run(h.engine.ApplyHostReplyCommand(userID, msg.ReplyToMessage.MessageID, msg.Text))
		}
	}
}

func (h *UpdateHandler) handleCallback(cb *CallbackQuery) {
	h.client.AnswerCallbackQuery(cb.ID, "", false)
	userID := cb.From.ID

	var actions []game.Action
	switch {
	case cb.Data == "host_end_round":
		actions = h.engine.EndRound(userID)
	case cb.Data == "host_next_round":
		actions = h.engine.NextRound(userID)
	case cb.Data == "host_stop_photos":
		actions = h.engine.StopReception(userID)
	case cb.Data == "host_end_game":
		actions = h.engine.RequestEndGame(userID)
	case cb.Data == "host_force_end_game":
		actions = h.engine.ConfirmEndGame(userID)
	case cb.Data == "host_cancel_end_game":
		actions = h.engine.CancelEndGame(userID)
	case cb.Data == "start_confirm":
		actions = h.engine.ConfirmAndStart(userID)
	default:
		actions = h.engine.ApplyConfigChoice(userID, cb.Data)
	}
	h.dispatcher.Run(actions)
}

func isCommand(msg *Message, cmd string) bool {
	if msg.Entities == nil {
		return false
	}
	for _, e := range msg.Entities {
		if e.Type == "bot_command" && e.Offset == 0 {
			cmdText := msg.Text[e.Offset : e.Offset+e.Length]
			cmdText = strings.Split(cmdText, "@")[0]
			return cmdText == "/"+cmd
		}
	}
	return false
}
