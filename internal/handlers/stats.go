package handlers

import (
	"time"

	"github.com/m3rciful/focusbot/core/telegram/keyboard"
	"github.com/m3rciful/focusbot/internal/event"
	"github.com/m3rciful/focusbot/internal/session"
)

// ShowStats renders the accumulated hours for today without touching any
// session state.
func (d Deps) ShowStats() event.Handler {
	return func(tok event.Token) error {
		hours, err := d.Store.SumIntervalsSince(tok.Context(), tok.Sender(), session.DayStart(time.Now()))
		if err != nil {
			return err
		}
		markup := keyboard.InlineButtons([]keyboard.InlineBtn{
			{Text: btnMainPage, Unique: string(event.KeyMainPage)},
		})
		return tok.Reply(statsText(hours), markup)
	}
}
