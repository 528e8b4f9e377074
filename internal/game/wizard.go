package game

import (
	"fmt"
	"strconv"
	"strings"
)

// CreateDraft begins the configuration wizard for a host. Private-chat only;
// the gateway enforces the chat type, the engine enforces the registry rules.
func (e *Engine) CreateDraft(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.reg.Create(e.cfg.MainChatID, hostID)
	switch err {
	case ErrGameInProgress:
		return []Action{DM{UserID: hostID, Text: "Игра уже начата. Попробуйте позже."}}
	case ErrAlreadyConfiguring:
		return []Action{DM{UserID: hostID, Text: "Вы уже создаёте игру. Завершите настройку или сбросьте её через '🗑️ Сбросить'."}}
	}

	kb := make([][]Button, 0, len(e.cfg.Topics))
	for _, t := range e.cfg.Topics {
		kb = append(kb, []Button{{Text: t.Title, Data: "topic_" + t.Key}})
	}
	return []Action{PostText{
		ChatID:   hostID,
		Text:     "Выберите нужную ветку, а затем настройте параметры 💖",
		Keyboard: kb,
		Note:     NoteWizardMenu,
		NoteUser: hostID,
	}}
}

// ApplyConfigChoice advances the wizard by one inbound selection. Stale or
// out-of-step presses are ignored without touching the draft.
func (e *Engine) ApplyConfigChoice(hostID int64, choice string) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.reg.ByHost(hostID)
	if g == nil || g.Started {
		return []Action{DM{UserID: hostID, Text: "✖️ Игра не найдена или была завершена."}}
	}

	switch {
	case strings.HasPrefix(choice, "topic_"):
		if g.Step != StepChooseTopic {
			return nil
		}
		key := strings.TrimPrefix(choice, "topic_")
		for _, t := range e.cfg.Topics {
			if t.Key == key {
				g.TopicID = t.ID
				g.Step = StepChooseRefMode
				return e.askRefMode(g)
			}
		}
		return nil

	case choice == "ref_yes" || choice == "ref_no":
		if g.Step != StepChooseRefMode {
			return nil
		}
		g.RefMode = choice == "ref_yes"
		g.Step = StepChooseMode
		return e.askMode(g)

	case choice == "mode_elimination":
		if g.Step != StepChooseMode {
			return nil
		}
		g.Mode = ModeElimination
		g.Settings = applyModeDefaults(ModeElimination, g.Settings)
		g.Step = StepChooseShowEliminated
		return e.askShowEliminated(g)

	case choice == "mode_points":
		if g.Step != StepChooseMode {
			return nil
		}
		g.Mode = ModePoints
		g.Settings = applyModeDefaults(ModePoints, g.Settings)
		g.Step = StepChooseJoinLate
		return e.askJoinLate(g)

	case choice == "show_out_yes" || choice == "show_out_no":
		if g.Step != StepChooseShowEliminated {
			return nil
		}
		// in elimination mode this answer doubles as the nickname visibility
		yes := choice == "show_out_yes"
		g.Settings.ShowEliminatedNicknames = yes
		g.Settings.ShowNicknames = yes
		g.Step = StepChooseLimit
		return e.askLimit(g)

	case choice == "join_yes" || choice == "join_no":
		if g.Step != StepChooseJoinLate {
			return nil
		}
		g.Settings.CanJoinLate = choice == "join_yes"
		g.Step = StepChooseSkip
		return e.askSkip(g)

	case choice == "skip_yes" || choice == "skip_no":
		if g.Step != StepChooseSkip {
			return nil
		}
		g.Settings.SkipAllowed = choice == "skip_yes"
		g.Step = StepChooseShowNicknames
		return e.askShowNicknames(g)

	case choice == "show_nicks_yes" || choice == "show_nicks_no":
		if g.Step != StepChooseShowNicknames {
			return nil
		}
		yes := choice == "show_nicks_yes"
		g.Settings.ShowNicknames = yes
		if g.Mode == ModePoints {
			g.Settings.ShowEliminatedNicknames = yes
		}
		g.Step = StepChooseLimit
		return e.askLimit(g)

	case strings.HasPrefix(choice, "limit_"):
		if g.Step != StepChooseLimit {
			return nil
		}
		val := strings.TrimPrefix(choice, "limit_")
		if val == "no" {
			g.Settings.ParticipantLimit = 0
		} else {
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return nil
			}
			g.Settings.ParticipantLimit = n
		}
		g.Step = StepConfirm
		return e.confirmSummary(g)

	case choice == "start_reset":
		e.reg.Remove(hostID)
		return e.editWizard(g, "🚩 Все настройки сброшены. Начните заново командой /start_game", nil)
	}

	return nil
}

// ConfirmAndStart promotes the draft to the running game and opens round 1.
func (e *Engine) ConfirmAndStart(hostID int64) []Action {
	e.mu.Lock()
	defer e.mu.Unlock()

	g := e.reg.ByHost(hostID)
	if g == nil || g.Started {
		return []Action{DM{UserID: hostID, Text: "✖️ Игра не найдена или была завершена."}}
	}
	if g.Step != StepConfirm {
		return nil
	}
	if err := e.reg.MarkStarted(g); err != nil {
		return e.editWizard(g, "🎮 Игра уже начата. Попробуйте позже.", nil)
	}
	g.Step = StepDone
	e.publish("game_started", map[string]any{"mode": string(g.Mode), "host": g.HostID})

	actions := e.editWizard(g, "🎮 Игра запущена!", nil)
	return append(actions, e.openRound(g)...)
}

// ---------- wizard screens ----------

func (e *Engine) editWizard(g *Game, text string, kb [][]Button) []Action {
	if g.WizardMessageID != 0 {
		return []Action{EditText{ChatID: g.HostID, MessageID: g.WizardMessageID, Text: text, Keyboard: kb}}
	}
	return []Action{PostText{ChatID: g.HostID, Text: text, Keyboard: kb, Note: NoteWizardMenu, NoteUser: g.HostID}}
}

func yesNoKeyboard(yes, no string) [][]Button {
	return [][]Button{
		{{Text: "✅", Data: yes}},
		{{Text: "❌", Data: no}},
	}
}

func (e *Engine) askRefMode(g *Game) []Action {
	return e.editWizard(g, "Нужен референс от ведущего перед каждым раундом?", yesNoKeyboard("ref_yes", "ref_no"))
}

func (e *Engine) askMode(g *Game) []Action {
	kb := [][]Button{
		{{Text: "На баллы", Data: "mode_points"}},
		{{Text: "На выбывание", Data: "mode_elimination"}},
	}
	return e.editWizard(g, "Выберите режим игры:", kb)
}

func (e *Engine) askShowEliminated(g *Game) []Action {
	return e.editWizard(g, "Показывать ник участника при выбывании?", yesNoKeyboard("show_out_yes", "show_out_no"))
}

func (e *Engine) askJoinLate(g *Game) []Action {
	return e.editWizard(g, "Разрешить присоединяться позже?", yesNoKeyboard("join_yes", "join_no"))
}

func (e *Engine) askSkip(g *Game) []Action {
	return e.editWizard(g, "Разрешить пропуск раунда?", yesNoKeyboard("skip_yes", "skip_no"))
}

func (e *Engine) askShowNicknames(g *Game) []Action {
	return e.editWizard(g, "Показывать ник участника при оценке?", yesNoKeyboard("show_nicks_yes", "show_nicks_no"))
}

func (e *Engine) askLimit(g *Game) []Action {
	var kb [][]Button
	for _, row := range [][2]int{{5, 10}, {11, 15}, {16, 20}} {
		var line []Button
		for i := row[0]; i <= row[1]; i++ {
			line = append(line, Button{Text: strconv.Itoa(i), Data: "limit_" + strconv.Itoa(i)})
		}
		kb = append(kb, line)
	}
	kb = append(kb, []Button{{Text: "Не ограничивать", Data: "limit_no"}})
	return e.editWizard(g, "Выберите ограничение участников:", kb)
}

// confirmSummary renders the settings overview. Re-rendering it has no side
// effect: only the start button press mutates state.
func (e *Engine) confirmSummary(g *Game) []Action {
	text := fmt.Sprintf(
		"🪩 Игра готова!\n\n"+
			"• Режим: %s\n"+
			"• Референс от ведущего: %s\n"+
			"• Показ выбывших: %s\n"+
			"• Позднее присоединение: %s\n"+
			"• Пропуск раунда: %s\n"+
			"• Показ ников: %s\n"+
			"• Лимит участников: %s",
		modeTitle(g.Mode), checkmark(g.RefMode),
		checkmark(g.Settings.ShowEliminatedNicknames), checkmark(g.Settings.CanJoinLate),
		checkmark(g.Settings.SkipAllowed), checkmark(g.Settings.ShowNicknames),
		limitTitle(g.Settings.ParticipantLimit))
	kb := [][]Button{
		{{Text: "🚀 Начать игру", Data: "start_confirm"}},
		{{Text: "🗑️ Сбросить", Data: "start_reset"}},
	}
	return e.editWizard(g, text, kb)
}
