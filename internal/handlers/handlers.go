// Package handlers binds every dialogue event key to its handler. The set of
// keys is registered exactly once at startup; each constructor receives its
// dependencies explicitly and the start/continue family is parameterized via
// SessionConfig instead of closing over shared mutable state.
package handlers

import (
	"context"
	"time"

	"github.com/m3rciful/focusbot/internal/event"
	"github.com/m3rciful/focusbot/internal/session"
)

// Store is the slice of the session store the dialogue needs.
type Store interface {
	GetOrCreateUser(ctx context.Context, telegramID int64) (session.User, bool, error)
	StartSession(ctx context.Context, telegramID int64, startedAt time.Time) (session.Session, error)
	OpenSession(ctx context.Context, telegramID int64) (session.Session, error)
	StopSession(ctx context.Context, telegramID int64) (session.Session, error)
	SumIntervalsSince(ctx context.Context, telegramID int64, since time.Time) (float64, error)
}

// Deps holds the shared collaborators every handler may use.
type Deps struct {
	Bus   *event.Bus
	Store Store
}

// SessionConfig parameterizes the in-session screen handler.
// ResumeOnly renders the screen without opening a new session row.
type SessionConfig struct {
	ResumeOnly bool
}

// Register wires all dialogue handlers into the bus.
func Register(bus *event.Bus, store Store) {
	d := Deps{Bus: bus, Store: store}
	bus.On(event.KeyMainPage, d.MainPage())
	bus.On(event.KeyStartSession, d.Session(SessionConfig{}))
	bus.On(event.KeyContinueSession, d.Session(SessionConfig{ResumeOnly: true}))
	bus.On(event.KeyEndSession, d.EndSession())
	bus.On(event.KeyCannotAccess, d.CannotAccess())
	bus.On(event.KeyShowStats, d.ShowStats())
}
