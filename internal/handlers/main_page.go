package handlers

import (
	"github.com/m3rciful/focusbot/core/logger"
	"github.com/m3rciful/focusbot/core/telegram/keyboard"
	"github.com/m3rciful/focusbot/internal/event"
	"log/slog"
)

// MainPage renders the entry menu. This is the first screen every user faces,
// so the user row is ensured here. While a session is open the menu is not
// rendered at all: control is delegated to the blocked screen.
func (d Deps) MainPage() event.Handler {
	return func(tok event.Token) error {
		ctx := tok.Context()

		user, created, err := d.Store.GetOrCreateUser(ctx, tok.Sender())
		if err != nil {
			return err
		}
		logger.Debug(ctx, "handler.main_page", "user.ensured",
			slog.Int64("user_id", tok.Sender()),
			slog.Bool("created", created),
		)

		if user.IsOnSession {
			return d.Bus.Emit(event.KeyCannotAccess, tok)
		}

		markup := keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{{Text: btnStartSession, Unique: string(event.KeyStartSession)}},
			[]keyboard.InlineBtn{{Text: btnShowStats, Unique: string(event.KeyShowStats)}},
		)
		return tok.Reply(mainPageText, markup)
	}
}
