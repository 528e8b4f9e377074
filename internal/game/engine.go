package game

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Topic is a forum topic a game can be hosted in.
type Topic struct {
	Key   string
	Title string
	ID    int64
}

type Config struct {
	MainChatID  int64
	Topics      []Topic
	BotUsername string // without the leading @
}

// Archiver persists the terminal result of a finished game.
type Archiver interface {
	SaveFinished(g *Game, standings []Standing, tie bool) error
}

// Notifier publishes engine events to live observers (the ws hub).
type Notifier interface {
	Publish(event string, data any)
}

// Engine is the game state machine. Every operation takes the engine lock,
// mutates the aggregate and returns the outbound actions for the gateway to
// execute, so inbound events are applied one at a time.
type Engine struct {
	mu      sync.Mutex
	cfg     Config
	reg     *Registry
	archive Archiver
	events  Notifier
}

func NewEngine(cfg Config, reg *Registry, archive Archiver, events Notifier) *Engine {
	return &Engine{cfg: cfg, reg: reg, archive: archive, events: events}
}

func (e *Engine) publish(event string, data any) {
	if e.events != nil {
		e.events.Publish(event, data)
	}
}

// NoteMessage reports the id of a message the dispatcher just posted back to
// the engine, so the aggregate can correlate later replies and edits.
func (e *Engine) NoteMessage(note MessageNote, user int64, messageID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.reg.Active()
	switch note {
	case NoteWizardMenu:
		// drafts are not started yet, look the game up by host id
		if d := e.reg.ByHost(user); d != nil {
			d.WizardMessageID = messageID
		}
	case NoteHostMenu:
		if g != nil {
			g.HostMenuMessageID = messageID
		}
	case NoteRoundAnnouncement:
		if g != nil {
			g.LastRoundMessageID = messageID
		}
	case NoteSubmission:
		if g == nil {
			return
		}
		if slot, ok := g.PhotosThisRound[user]; ok && !slot.Withdrawn {
			slot.Submission.PostedMessageID = messageID
			g.PhotosAllRounds[g.CurrentRound][user] = *slot.Submission
		}
	}
}

// ---------- round lifecycle ----------

// StartRound opens the next round. A no-op notice when a round is running.
func (e *Engine) StartRound(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}
	if g.RoundActive || (g.RefMode && g.CurrentRound > 0 && !g.CurrentRefSent) {
		return []Action{DM{UserID: hostID, Text: fmt.Sprintf("Раунд %d уже идет.", g.CurrentRound)}}
	}
	return e.openRound(g)
}

// openRound advances the round counter and announces the round in the topic.
// Caller holds the lock and has verified no round is open.
func (e *Engine) openRound(g *Game) []Action {
	g.CurrentRound++
	g.PhotosThisRound = make(map[int64]*PhotoSlot)
	g.PhotosAllRounds[g.CurrentRound] = make(map[int64]Submission)
	g.PhotoReceptionActive = true
	g.CurrentRefSent = false
	// in reference mode the round opens only once the host posts the reference
	g.RoundActive = !g.RefMode

	e.publish("round_started", map[string]any{"round": g.CurrentRound})

	var actions []Action
	actions = append(actions, DM{UserID: g.HostID, Text: fmt.Sprintf("🏳️ Раунд %d начался!", g.CurrentRound)})

	dmButton := [][]Button{{{Text: "💌 Прислать фото в ЛС боту", URL: "https://t.me/" + e.cfg.BotUsername}}}

	var text string
	if g.CurrentRound == 1 {
		text = fmt.Sprintf(
			"🪩 Игра началась!\nРаунд %d стартовал!\n\nВыбранные параметры:\n"+
				"• Режим: %s\n"+
				"• Референс от ведущего: %s\n"+
				"• Показ ников: %s\n"+
				"• Лимит участников: %s\n"+
				"• Позднее присоединение: %s\n"+
				"• Показ выбывших: %s\n"+
				"• Пропуск раундов: %s\n\n"+
				"📩 Присылайте фото в ЛС бота!",
			g.CurrentRound, modeTitle(g.Mode), checkmark(g.RefMode),
			checkmark(g.Settings.ShowNicknames), limitTitle(g.Settings.ParticipantLimit),
			checkmark(g.Settings.CanJoinLate), checkmark(g.Settings.ShowEliminatedNicknames),
			checkmark(g.Settings.SkipAllowed))
	} else {
		text = fmt.Sprintf("🔥 Раунд %d стартовал!\n\n📩 Присылайте фото в ЛС бота!", g.CurrentRound)
	}
	if g.RefMode {
		text += "\n\n⏳ Ждём референс от ведущего."
	}

	actions = append(actions, PostText{
		ChatID:   g.ChatID,
		TopicID:  g.TopicID,
		Text:     text,
		Keyboard: dmButton,
		Pin:      true,
		Note:     NoteRoundAnnouncement,
	})
	if g.RefMode {
		actions = append(actions, DM{UserID: g.HostID, Text: fmt.Sprintf("🎯 Пришлите референс-фото для раунда %d в ЛС бота.", g.CurrentRound)})
	}
	return append(actions, e.hostMenu(g)...)
}

// StopReception halts photo intake without closing the round. Idempotent.
func (e *Engine) StopReception(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}
	if !g.PhotoReceptionActive {
		return []Action{DM{UserID: hostID, Text: "🚧 Приём фото уже остановлен."}}
	}
	g.PhotoReceptionActive = false
	return []Action{
		DM{UserID: hostID, Text: fmt.Sprintf("🚧 Приём фото в раунде %d остановлен.", g.CurrentRound)},
		PostText{ChatID: g.ChatID, TopicID: g.TopicID, Text: fmt.Sprintf("🚧 Приём фото в раунде %d остановлен ведущим.", g.CurrentRound)},
	}
}

// EndRound closes the open round, snapshots its photos and, in elimination
// mode, sweeps out everyone who did not submit.
func (e *Engine) EndRound(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}
	if !g.RoundActive && !(g.RefMode && g.CurrentRound > 0 && !g.CurrentRefSent) {
		return []Action{DM{UserID: hostID, Text: fmt.Sprintf("🏴 Раунд %d уже завершён.", g.CurrentRound)}}
	}
	actions := e.closeRound(g)
	return append(actions, e.hostMenu(g)...)
}

// closeRound applies the round-closing mutation. Caller holds the lock.
func (e *Engine) closeRound(g *Game) []Action {
	g.RoundActive = false
	g.CurrentRefSent = true

	snapshot := make(map[int64]Submission)
	for uid, slot := range g.PhotosThisRound {
		if !slot.Withdrawn {
			snapshot[uid] = *slot.Submission
		}
	}
	g.PhotosAllRounds[g.CurrentRound] = snapshot
	g.PhotosThisRound = make(map[int64]*PhotoSlot)

	actions := []Action{
		DM{UserID: g.HostID, Text: fmt.Sprintf("🏴 Раунд %d завершён.", g.CurrentRound)},
	}

	if g.Mode == ModeElimination {
		for uid, p := range g.Participants {
			if p.Eliminated {
				continue
			}
			if _, ok := snapshot[uid]; ok {
				continue
			}
			p.Eliminated = true
			p.RoundOut = g.CurrentRound
			e.publish("participant_eliminated", map[string]any{"participant": p.Nickname, "round": g.CurrentRound})

			out := fmt.Sprintf("💤 Игрок выбывает за пропуск раунда %d 💤", g.CurrentRound)
			if g.Settings.ShowEliminatedNicknames {
				out = fmt.Sprintf("💤 %s выбывает за пропуск раунда %d 💤", p.DisplayName(), g.CurrentRound)
			}
			actions = append(actions,
				PostText{ChatID: g.ChatID, TopicID: g.TopicID, Text: out},
				DM{UserID: uid, Text: fmt.Sprintf("💤 Вы выбываете за пропуск раунда %d 💤", g.CurrentRound)},
			)
		}
	}

	e.publish("round_ended", map[string]any{"round": g.CurrentRound, "photos": len(snapshot)})

	return append(actions, PostText{
		ChatID: g.ChatID, TopicID: g.TopicID,
		Text: fmt.Sprintf("🖇️ Раунд %d завершён. Приём фото остановлен.", g.CurrentRound),
	})
}

// NextRound closes the open round if needed and starts the following one.
func (e *Engine) NextRound(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}
	var actions []Action
	if g.RoundActive || (g.RefMode && g.CurrentRound > 0 && !g.CurrentRefSent) {
		actions = e.closeRound(g)
	}
	return append(actions, e.openRound(g)...)
}

// ---------- end game ----------

// RequestEndGame shows the confirmation step on the host menu, with a tie
// warning when the top score is shared.
func (e *Engine) RequestEndGame(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}
	g.EndRequested = true

	_, tie := Tabulate(g)
	text := "Вы уверены, что хотите завершить игру?"
	if tie {
		text = "⚠️ Несколько победителей с одинаковыми баллами. Хотите завершить игру?"
	}
	kb := [][]Button{
		{{Text: "✅ Подтвердить завершение", Data: "host_force_end_game"}},
		{{Text: "❌ Отменить", Data: "host_cancel_end_game"}},
	}
	if g.HostMenuMessageID != 0 {
		return []Action{EditText{ChatID: g.HostID, MessageID: g.HostMenuMessageID, Text: text, Keyboard: kb}}
	}
	return []Action{PostText{ChatID: g.HostID, Text: text, Keyboard: kb, Note: NoteHostMenu}}
}

// CancelEndGame drops the pending confirmation and restores the host menu.
func (e *Engine) CancelEndGame(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}
	g.EndRequested = false
	return e.hostMenu(g)
}

// ConfirmEndGame closes any open round, tabulates the standings, announces
// the results, archives the game and tears it down.
func (e *Engine) ConfirmEndGame(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}

	var actions []Action
	if g.RoundActive || (g.RefMode && g.CurrentRound > 0 && !g.CurrentRefSent) {
		actions = e.closeRound(g)
	}

	standings, tie := Tabulate(g)
	totalRounds := g.CurrentRound

	lines := []string{"🏆 Результаты игры:"}
	for _, st := range standings {
		line := fmt.Sprintf("%d. %s — %d б", st.Place, st.Participant.DisplayName(), st.Participant.Score)
		if st.Participant.Eliminated {
			line += fmt.Sprintf(" ☠️ выбыл в раунде %d", st.Participant.RoundOut)
		}
		lines = append(lines, line)
	}
	actions = append(actions, PostText{ChatID: g.ChatID, TopicID: g.TopicID, Text: strings.Join(lines, "\n")})

	host := g.Participants[g.HostID]
	hostName := "ведущий"
	if host != nil && host.Username != "" {
		hostName = "@" + host.Username
	}
	for uid, p := range g.Participants {
		actions = append(actions, DM{UserID: uid, Text: resultText(g, p, hostName)})
	}

	if g.LastRoundMessageID != 0 {
		actions = append(actions, Unpin{ChatID: g.ChatID, MessageID: g.LastRoundMessageID})
	}

	if e.archive != nil {
		if err := e.archive.SaveFinished(g, standings, tie); err != nil {
			actions = append(actions, DM{UserID: g.HostID, Text: "⚠️ Не удалось сохранить результаты игры в архив."})
		}
	}
	e.publish("game_finished", map[string]any{"rounds": totalRounds, "participants": len(g.Participants), "tie": tie})

	e.reg.Remove(g.HostID)

	actions = append(actions, DM{
		UserID: hostID,
		Text:   fmt.Sprintf("🎉 Игра окончена. Всего %d раундов.\n\n🎮 Для создания новой игры нажмите /start_game", totalRounds),
	})
	return actions
}

// ---------- queries ----------

// QueryMissingParticipants reports who has not submitted this round.
// When summon is true the missing participants are also DMed a call-up with
// a deep link into the topic; public additionally mentions them in the topic.
func (e *Engine) QueryMissingParticipants(hostID int64, summon, public bool) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}
	missing := g.missing()
	if len(missing) == 0 {
		return []Action{DM{UserID: hostID, Text: "Все участники уже прислали фото 💖"}}
	}

	if !summon {
		return []Action{DM{UserID: hostID, Text: fmt.Sprintf(
			"⏳ Раунд %d: фото прислали %d, ждём ещё %d.", g.CurrentRound, g.submittedCount(), len(missing))}}
	}

	var actions []Action
	if public {
		mentions := make([]string, 0, len(missing))
		for _, uid := range missing {
			mentions = append(mentions, g.Participants[uid].DisplayName())
		}
		actions = append(actions, PostText{
			ChatID: g.ChatID, TopicID: g.TopicID,
			Text: "🛎️ Участники не приславшие фото: " + strings.Join(mentions, ", "),
		})
	} else {
		actions = append(actions, PostText{ChatID: g.ChatID, TopicID: g.TopicID, Text: "🛎️ Участников позвали в ЛС 🛎️"})
	}

	kb := [][]Button{{{Text: "💖 Перейти в чат игры", URL: e.topicLink(g)}}}
	for _, uid := range missing {
		actions = append(actions, DM{UserID: uid, Text: "🛎️ Вас вызывает ведущий! 🛎️", Keyboard: kb})
	}
	return actions
}

// QueryActiveParticipants lists everyone still in the game with their score.
func (e *Engine) QueryActiveParticipants(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}

	lines := []string{"👥 Участники в игре:"}
	n := 0
	for _, p := range g.Participants {
		if p.Eliminated {
			continue
		}
		n++
		lines = append(lines, fmt.Sprintf("• %s — %d б", p.DisplayName(), p.Score))
	}
	if n == 0 {
		return []Action{DM{UserID: hostID, Text: "👀 В игре пока нет участников."}}
	}
	return []Action{DM{UserID: hostID, Text: strings.Join(lines, "\n")}}
}

// HostMenu re-renders the host control panel on request (/host_menu).
func (e *Engine) HostMenu(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.hostGame(hostID)
	if g == nil {
		return []Action{DM{UserID: hostID, Text: "👀 Вы не ведущий ни одной игры."}}
	}
	return e.hostMenu(g)
}

// Snapshot is a read-only view of the running game for the HTTP status API.
type Snapshot struct {
	Running       bool   `json:"running"`
	Mode          string `json:"mode,omitempty"`
	RefMode       bool   `json:"ref_mode,omitempty"`
	Round         int    `json:"round,omitempty"`
	RoundActive   bool   `json:"round_active,omitempty"`
	Participants  int    `json:"participants,omitempty"`
	PhotosInRound int    `json:"photos_in_round,omitempty"`
}

func (e *Engine) LiveSnapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.reg.Active()
	if g == nil {
		return Snapshot{}
	}
	return Snapshot{
		Running:       true,
		Mode:          string(g.Mode),
		RefMode:       g.RefMode,
		Round:         g.CurrentRound,
		RoundActive:   g.RoundActive,
		Participants:  len(g.Participants),
		PhotosInRound: g.submittedCount(),
	}
}

// ActiveHostID returns the host of the running game, 0 when no game runs.
func (e *Engine) ActiveHostID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if g := e.reg.Active(); g != nil {
		return g.HostID
	}
	return 0
}

// ---------- helpers ----------

// hostGame returns the started game controlled by the given host.
func (e *Engine) hostGame(hostID int64) *Game {
	g := e.reg.ByHost(hostID)
	if g == nil || !g.Started {
		return nil
	}
	return g
}

// hostMenu renders the persistent control panel, editing it in place when it
// was posted before to avoid cluttering the host's chat.
func (e *Engine) hostMenu(g *Game) []Action {
	kb := [][]Button{
		{{Text: "⏹ Закончить раунд", Data: "host_end_round"}},
		{{Text: "➡ Следующий раунд", Data: "host_next_round"}},
		{{Text: "⏸ Остановить приём фото", Data: "host_stop_photos"}},
		{{Text: "🏁 Завершить игру", Data: "host_end_game"}},
	}
	text := fmt.Sprintf("Идет игра (Раунд %d)", g.CurrentRound)
	if g.HostMenuMessageID != 0 {
		return []Action{EditText{ChatID: g.HostID, MessageID: g.HostMenuMessageID, Text: text, Keyboard: kb}}
	}
	return []Action{PostText{ChatID: g.HostID, Text: text, Keyboard: kb, Note: NoteHostMenu}}
}

// topicLink builds the deep link into the game topic.
func (e *Engine) topicLink(g *Game) string {
	chat := strconv.FormatInt(g.ChatID, 10)
	chat = strings.TrimPrefix(chat, "-100")
	return fmt.Sprintf("https://t.me/c/%s/%d", chat, g.TopicID)
}

func checkmark(v bool) string {
	if v {
		return "✅"
	}
	return "❌"
}

func modeTitle(m Mode) string {
	if m == ModeElimination {
		return "Выбывание"
	}
	return "Баллы"
}

func limitTitle(limit int) string {
	if limit == 0 {
		return "Без ограничений"
	}
	return strconv.Itoa(limit)
}

// resultText builds the personal end-game message: the wording depends on
// the mode and on how the participant finished.
func resultText(g *Game, p *Participant, hostName string) string {
	text := "🏆 Игра завершена. "

	maxScore := 0
	soleMax := false
	for _, other := range g.Participants {
		if other.Score > maxScore {
			maxScore = other.Score
		}
	}
	if maxScore > 0 {
		holders := 0
		for _, other := range g.Participants {
			if other.Score == maxScore {
				holders++
			}
		}
		soleMax = holders == 1
	}

	if g.Mode == ModeElimination {
		if p.Eliminated {
			text += fmt.Sprintf("Вы выбыли в %d раунде из %d ☠️", p.RoundOut, g.CurrentRound)
		} else {
			text += fmt.Sprintf("Вы дошли до финала в %d раундах 🏅", g.CurrentRound)
		}
		if p.Score > 0 {
			text += fmt.Sprintf(" Вы получили %dб.", p.Score)
		}
	} else {
		if p.Score == 0 {
			text += "К сожалению, вы не набрали баллов 🥲"
			if p.Eliminated {
				text += fmt.Sprintf(" И выбыли в %d раунде ☠️", p.RoundOut)
			}
		} else {
			text += fmt.Sprintf("\nВаш результат %dб 💰", p.Score)
			if p.Eliminated {
				text += fmt.Sprintf(" Но вы выбыли в %d раунде из %d ☠️", p.RoundOut, g.CurrentRound)
			} else if p.Score == maxScore && soleMax {
				text += " Вы победили, у вас наибольшее количество очков 🎁"
			}
		}
	}

	text += fmt.Sprintf("\nВедущим был/а %s.\n\n", hostName)
	text += "Хотите устроить свою игру? Используйте команду /start_game 🪩"
	return text
}
