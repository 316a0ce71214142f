package handlers

import (
	"errors"
	"time"

	"github.com/m3rciful/focusbot/core/telegram/keyboard"
	"github.com/m3rciful/focusbot/internal/event"
	"github.com/m3rciful/focusbot/internal/session"
)

// Session renders the in-session screen. A fresh start opens a new session
// row first; with ResumeOnly set the open session is re-read and re-rendered
// with its real start time.
func (d Deps) Session(cfg SessionConfig) event.Handler {
	return func(tok event.Token) error {
		ctx := tok.Context()

		var sess session.Session
		if cfg.ResumeOnly {
			open, err := d.Store.OpenSession(ctx, tok.Sender())
			if errors.Is(err, session.ErrNoOpenSession) {
				// Resume pressed on a stale keyboard after the session ended.
				return d.Bus.Emit(event.KeyMainPage, tok)
			}
			if err != nil {
				return err
			}
			sess = open
		} else {
			if _, _, err := d.Store.GetOrCreateUser(ctx, tok.Sender()); err != nil {
				return err
			}
			started, err := d.Store.StartSession(ctx, tok.Sender(), time.Now())
			if errors.Is(err, session.ErrSessionOpen) {
				return d.Bus.Emit(event.KeyCannotAccess, tok)
			}
			if err != nil {
				return err
			}
			sess = started
		}

		markup := keyboard.InlineButtons([]keyboard.InlineBtn{
			{Text: btnEndSession, Unique: string(event.KeyEndSession)},
		})
		return tok.Reply(sessionText(sess.StartedAt()), markup)
	}
}

// EndSession closes the open session and renders the summary: this session's
// minutes plus the accumulated hours of every session counted as part of
// today (ended after local midnight).
func (d Deps) EndSession() event.Handler {
	return func(tok event.Token) error {
		ctx := tok.Context()

		sess, err := d.Store.StopSession(ctx, tok.Sender())
		if errors.Is(err, session.ErrNoOpenSession) {
			return tok.Reply(noOpenSessionText, nil)
		}
		if err != nil {
			return err
		}

		hours, err := d.Store.SumIntervalsSince(ctx, tok.Sender(), session.DayStart(time.Now()))
		if err != nil {
			return err
		}

		markup := keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{{Text: btnMainPage, Unique: string(event.KeyMainPage)}},
			[]keyboard.InlineBtn{{Text: btnNewSession, Unique: string(event.KeyStartSession)}},
		)
		return tok.Reply(summaryText(sess.Minutes(), hours), markup)
	}
}

// CannotAccess renders the blocked screen shown when a user tries to reach
// another part of the dialogue while a session is open. The only exits are
// back into the session or ending it.
func (d Deps) CannotAccess() event.Handler {
	return func(tok event.Token) error {
		markup := keyboard.InlineButtonsRows(
			[]keyboard.InlineBtn{{Text: btnContinueSession, Unique: string(event.KeyContinueSession)}},
			[]keyboard.InlineBtn{{Text: btnEndSession, Unique: string(event.KeyEndSession)}},
		)
		return tok.Reply(cannotAccessText, markup)
	}
}
