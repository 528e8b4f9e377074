package game

import "fmt"

// Sender identifies the author of an inbound photo.
type Sender struct {
	ID       int64
	Nickname string
	Username string
}

// SubmitPhoto runs the admission checks for an inbound photo, in order,
// short-circuiting on the first failure. Rejections come back as a reply to
// the sender; the aggregate is untouched on any rejection path.
func (e *Engine) SubmitPhoto(from Sender, mediaRef, caption string) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.reg.Active()
	if g == nil {
		return []Action{DM{UserID: from.ID, Text: "👀 Игра ещё не запущена ведущим."}}
	}

	// the host's photo in reference mode is the round reference, not an entry
	if from.ID == g.HostID {
		return e.submitReference(g, mediaRef)
	}

	if !g.RoundActive {
		if g.RefMode && g.CurrentRound > 0 && !g.CurrentRefSent {
			return []Action{DM{UserID: from.ID, Text: "⏳ Раунд откроется после референса от ведущего."}}
		}
		return []Action{DM{UserID: from.ID, Text: "👀 Сейчас нет активного раунда."}}
	}
	if !g.PhotoReceptionActive {
		return []Action{DM{UserID: from.ID, Text: "🚧 Приём фото остановлен ведущим."}}
	}

	p, known := g.Participants[from.ID]
	if !known {
		if g.CurrentRound != 1 && !g.Settings.CanJoinLate {
			return []Action{DM{UserID: from.ID, Text: "👀 Вы не можете присоединиться к игре. Ведь она стартовала без вас."}}
		}
		if limit := g.Settings.ParticipantLimit; limit > 0 && len(g.Participants) >= limit {
			return []Action{DM{UserID: from.ID, Text: "👀 Лимит участников достигнут. Вы не можете присоединиться."}}
		}
	} else {
		if p.Eliminated {
			return []Action{DM{UserID: from.ID, Text: "👀 Вы выбыли и не можете участвовать в этом раунде."}}
		}
		if slot, ok := g.PhotosThisRound[from.ID]; ok && !slot.Withdrawn {
			return []Action{DM{UserID: from.ID, Text: "📮 Вы уже отправили фото в этом раунде."}}
		}
	}

	if !known {
		// identity is captured at first submission and never refreshed
		p = &Participant{ID: from.ID, Nickname: from.Nickname, Username: from.Username}
		g.Participants[from.ID] = p
	}

	// a withdrawn slot is overwritten: this is how a resend is accepted
	g.PhotosThisRound[from.ID] = &PhotoSlot{Submission: &Submission{MediaRef: mediaRef, Caption: caption}}
	p.RoundsPlayed = append(p.RoundsPlayed, g.CurrentRound)

	e.publish("photo_accepted", map[string]any{"round": g.CurrentRound, "photos": g.submittedCount()})

	photoCaption := fmt.Sprintf("📸 Фото #%d (Раунд %d)", g.submittedCount(), g.CurrentRound)
	if caption != "" {
		photoCaption += "\n" + caption
	}
	return []Action{
		PostPhoto{
			ChatID:   g.ChatID,
			TopicID:  g.TopicID,
			MediaRef: mediaRef,
			Caption:  photoCaption,
			Note:     NoteSubmission,
			NoteUser: from.ID,
		},
		DM{UserID: from.ID, Text: "Фото принято ♥️"},
	}
}

// submitReference posts the host's reference photo and opens the round.
// Exempt from the reception flag: it precedes the participant checks.
func (e *Engine) submitReference(g *Game, mediaRef string) []Action {
	if !g.RefMode {
		return []Action{DM{UserID: g.HostID, Text: "👀 Ведущий не участвует в приёме фото."}}
	}
	if g.CurrentRound == 0 {
		return []Action{DM{UserID: g.HostID, Text: "👀 Сейчас нет активного раунда."}}
	}
	if g.CurrentRefSent {
		return []Action{DM{UserID: g.HostID, Text: "📮 Референс уже отправлен в этом раунде."}}
	}

	g.CurrentRefSent = true
	g.RoundActive = true

	e.publish("reference_posted", map[string]any{"round": g.CurrentRound})

	return []Action{
		PostPhoto{
			ChatID:   g.ChatID,
			TopicID:  g.TopicID,
			MediaRef: mediaRef,
			Caption:  fmt.Sprintf("🎯 Референс раунда %d. Приём фото открыт!", g.CurrentRound),
			Note:     NoteReference,
		},
		DM{UserID: g.HostID, Text: fmt.Sprintf("🎯 Референс опубликован, раунд %d открыт.", g.CurrentRound)},
	}
}
