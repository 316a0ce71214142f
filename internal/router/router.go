// Package router classifies inbound Telegram signals into event bus
// emissions: button presses carry an explicit event key, free text is
// classified by the sender's session state, and the /start command is the
// deterministic re-entry point into the dialogue.
package router

import (
	"context"
	"errors"
	"time"

	"github.com/m3rciful/focusbot/core/logger"
	tg "github.com/m3rciful/focusbot/core/telegram"
	"github.com/m3rciful/focusbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/focusbot/core/telegram/helpers"
	"github.com/m3rciful/focusbot/core/telegram/middleware"
	"github.com/m3rciful/focusbot/internal/event"
	"github.com/m3rciful/focusbot/internal/session"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// UserSource resolves the sender to a persisted user record.
type UserSource interface {
	GetUserByTelegramID(ctx context.Context, telegramID int64) (session.User, error)
}

// CallbackRoute routes button presses through the bus. Presses for keys the
// bus does not know fall through to the registry's not-found handler and are
// logged with their key.
func CallbackRoute(bus *event.Bus, reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		key := callbacks.CallbackKey(c)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		_ = c.Respond()

		fallback := reg.CallbackNotFound()
		tok := NewToken(c, func() error {
			if fallback != nil {
				return fallback(c)
			}
			return nil
		})

		return handleWithSummary(c, name, start, func() error {
			err := bus.Emit(event.Key(key), tok)
			if errors.Is(err, event.ErrUnknownKey) {
				return tok.Proceed()
			}
			return err
		}, extras...)
	}
	return tg.Route{
		Endpoint: tele.OnCallback,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// TextRoute classifies free text by session state: text during an open
// session is an access violation and lands on the blocked screen, text while
// idle re-enters the main page. A sender without a user row is idle; the
// main page creates the row.
func TextRoute(bus *event.Bus, users UserSource) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		ctx := tghelpers.BuildContext(c)

		onSession := false
		user, err := tghelpers.CurrentUser[session.User](ctx, users, c.Sender().ID)
		switch {
		case errors.Is(err, session.ErrUserNotFound):
		case err != nil:
			logHandlerSummary(c, "text", start, err)
			return err
		default:
			onSession = user.IsOnSession
		}

		key := ClassifyText(onSession)
		name := "text." + normalizeHandlerName(string(key))
		return handleWithSummary(c, name, start, func() error {
			return bus.Emit(key, NewToken(c, nil))
		})
	}
	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// ClassifyText maps free-text input to the event it synthesizes.
func ClassifyText(onSession bool) event.Key {
	if onSession {
		return event.KeyCannotAccess
	}
	return event.KeyMainPage
}

// CommandRoutes prepares the registered command handlers wrapped with the
// shared middleware chain.
func CommandRoutes(reg *tg.Registry, adminID int64) []tg.Route {
	if reg == nil {
		return nil
	}

	adminOpts := middleware.AdminOptions{AdminID: adminID}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		h := def.Handler
		h = middleware.RecoverMiddleware(h)
		h = middleware.LoggerMiddleware(h)
		if def.AdminOnly {
			h = middleware.AdminOnlyMiddleware(adminOpts)(h)
		}
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  h,
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
	)

	return routes
}

// CommandEmit returns a command handler that emits the given key with a
// fresh token, wrapped with the per-handler summary log.
func CommandEmit(bus *event.Bus, key event.Key) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		name := "command." + normalizeHandlerName(string(key))
		return handleWithSummary(c, name, start, func() error {
			return bus.Emit(key, NewToken(c, nil))
		})
	}
}
