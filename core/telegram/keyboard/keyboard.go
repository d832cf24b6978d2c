// Package keyboard builds the reply and inline markups the bot sends.
package keyboard

import tele "gopkg.in/telebot.v4"

// Button is an inline button. Unique is the callback key the router
// dispatches on; Data is an optional payload.
type Button struct {
	Text   string
	Unique string
	Data   string
}

// Remove hides the reply keyboard.
func Remove() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// Reply builds a resized reply keyboard. Pressing a label sends it as a
// plain message, so labels double as command aliases.
func Reply(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	keyboard := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// Contact is a one-time keyboard whose single button shares the user's
// phone number.
func Contact(label string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	markup.Reply(markup.Row(markup.Contact(label)))
	return markup
}

// Column stacks buttons one per row.
func Column(buttons ...Button) *tele.ReplyMarkup {
	rows := make([][]Button, len(buttons))
	for i, b := range buttons {
		rows[i] = []Button{b}
	}
	return Grid(rows...)
}

// Grid lays buttons out row by row.
func Grid(rows ...[]Button) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		inline[i] = make([]tele.InlineButton, len(row))
		for j, b := range row {
			inline[i][j] = *markup.Data(b.Text, b.Unique, b.Data).Inline()
		}
	}
	markup.InlineKeyboard = inline
	return markup
}
