package telegram

import "github.com/dyplomin-hash/Couture/internal/game"

// markup converts the engine's transport-agnostic buttons into a Telegram
// inline keyboard. Returns nil for an empty layout so senders can skip the
// reply_markup field entirely.
func markup(rows [][]game.Button) *InlineKeyboardMarkup {
	if len(rows) == 0 {
		return nil
	}
	kb := make([][]InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			line = append(line, InlineKeyboardButton{
				Text:         b.Text,
				CallbackData: b.Data,
				URL:          b.URL,
			})
		}
		kb = append(kb, line)
	}
	return &InlineKeyboardMarkup{InlineKeyboard: kb}
}
