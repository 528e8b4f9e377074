package game

import (
	"fmt"
	"strconv"
	"strings"
)

// eliminationWords are the phrases that, found in a host reply to a photo,
// eliminate its author.
var eliminationWords = []string{
	"выбыл", "выбыла", "выбывает", "минус", "вылет", "вылетает", "покидает нас",
}

var authorQueries = []string{"кто автор", "автор", "автор?"}

var repeatWords = []string{"повтори", "повтор", "повторка"}

// ApplyHostReplyCommand interprets a text reply to a previously posted photo.
// Only the host's replies are honored; everything else is ignored silently,
// as is a reply whose target is not one of the game's photos. The first
// matching command wins.
func (e *Engine) ApplyHostReplyCommand(from int64, repliedMessageID int64, text string) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.reg.Active()
	if g == nil || from != g.HostID {
		return nil
	}

	ref, ok := g.findByPostedMessage(repliedMessageID)
	if !ok {
		return nil
	}
	p := g.Participants[ref.ParticipantID]
	if p == nil {
		return nil
	}

	cmd := strings.ToLower(strings.TrimSpace(text))

	for _, q := range authorQueries {
		if cmd == q {
			return e.revealAuthor(g, p)
		}
	}
	for _, w := range eliminationWords {
		if strings.Contains(cmd, w) {
			return e.eliminate(g, p, ref.Round)
		}
	}
	if pts, negative, ok := parseScoreCommand(cmd); ok {
		return e.applyScore(g, p, ref, pts, negative)
	}
	for _, w := range repeatWords {
		if cmd == w {
			return e.markRepeat(g, p, ref)
		}
	}
	return nil
}

// parseScoreCommand recognizes "+Nб" / "-Nб".
func parseScoreCommand(cmd string) (points int, negative bool, ok bool) {
	if len(cmd) < 2 {
		return 0, false, false
	}
	sign := cmd[0]
	if sign != '+' && sign != '-' {
		return 0, false, false
	}
	body, found := strings.CutSuffix(cmd[1:], "б")
	if !found || body == "" {
		return 0, false, false
	}
	n, err := strconv.Atoi(body)
	if err != nil || n < 0 {
		return 0, false, false
	}
	return n, sign == '-', true
}

func (e *Engine) revealAuthor(g *Game, p *Participant) []Action {
	name := p.DisplayName()
	if name == "" {
		name = "🤫 секретик 🤫"
	}
	return []Action{DM{UserID: g.HostID, Text: "Автор: " + name}}
}

func (e *Engine) eliminate(g *Game, p *Participant, round int) []Action {
	if p.Eliminated {
		return []Action{DM{UserID: g.HostID, Text: fmt.Sprintf("👀 Игрок уже выбыл в раунде %d.", p.RoundOut)}}
	}
	p.Eliminated = true
	p.RoundOut = round

	e.publish("participant_eliminated", map[string]any{"participant": p.Nickname, "round": round})

	out := fmt.Sprintf("🤝 Игрок выбывает из игры в %d раунде.", round)
	if g.Settings.ShowEliminatedNicknames {
		out = fmt.Sprintf("🤝 Игрок %s выбывает из игры в %d раунде.", p.DisplayName(), round)
	}
	return []Action{
		PostText{ChatID: g.ChatID, TopicID: g.TopicID, Text: out},
		DM{UserID: p.ID, Text: fmt.Sprintf("🤝 Вы выбываете из игры в %d раунде.", round)},
	}
}

func (e *Engine) applyScore(g *Game, p *Participant, ref photoRef, pts int, negative bool) []Action {
	if ref.Round != g.CurrentRound {
		return []Action{DM{UserID: g.HostID, Text: "✖️ Оценивать можно только фото текущего раунда. ✖️"}}
	}
	if ref.Withdrawn {
		return []Action{DM{UserID: g.HostID, Text: "✖️ Фото не участвует в раунде, его нельзя оценивать. ✖️"}}
	}

	name := "игрок"
	if g.Settings.ShowNicknames {
		name = p.DisplayName()
	}

	if negative {
		p.Score -= pts
		e.publish("score_changed", map[string]any{"participant": p.Nickname, "score": p.Score})
		return []Action{
			DM{UserID: g.HostID, Text: fmt.Sprintf("💸 У автора %s списано %d б.", name, pts)},
			DM{UserID: p.ID, Text: fmt.Sprintf("💸 С вас списано %d б. Всего: %d б.", pts, p.Score)},
		}
	}

	p.Score += pts
	e.publish("score_changed", map[string]any{"participant": p.Nickname, "score": p.Score})
	return []Action{
		DM{UserID: g.HostID, Text: fmt.Sprintf("💸 Автору %s зачислено %d б.", name, pts)},
		DM{UserID: p.ID, Text: fmt.Sprintf("💸 Вам зачислено %d б. Всего: %d б.", pts, p.Score)},
	}
}

func (e *Engine) markRepeat(g *Game, p *Participant, ref photoRef) []Action {
	if ref.Round != g.CurrentRound {
		return []Action{DM{UserID: g.HostID, Text: "✖️ Запросить повтор можно только в текущем раунде. ✖️"}}
	}
	slot, ok := g.PhotosThisRound[p.ID]
	if !ok || slot.Withdrawn {
		return []Action{DM{UserID: g.HostID, Text: "✖️ Фото уже отклонено. ✖️"}}
	}

	slot.Withdrawn = true
	delete(g.PhotosAllRounds[g.CurrentRound], p.ID)

	return []Action{
		EditCaption{ChatID: g.ChatID, MessageID: slot.Submission.PostedMessageID, Caption: "⛔️ Фото отклонено, отправьте новое."},
		DM{UserID: p.ID, Text: "⛔️ Ваше фото отклонено, отправьте новое."},
	}
}
