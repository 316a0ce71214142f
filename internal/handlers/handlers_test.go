package handlers

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/m3rciful/focusbot/internal/event"
	"github.com/m3rciful/focusbot/internal/session"

	tele "gopkg.in/telebot.v4"
)

type fakeToken struct {
	sender  int64
	replies []string
	markups []*tele.ReplyMarkup
}

func (t *fakeToken) Context() context.Context { return context.Background() }

func (t *fakeToken) Sender() int64 { return t.sender }

func (t *fakeToken) Reply(text string, markup *tele.ReplyMarkup) error {
	t.replies = append(t.replies, text)
	t.markups = append(t.markups, markup)
	return nil
}

func (t *fakeToken) Proceed() error { return nil }

type fakeStore struct {
	user     session.User
	userErr  error
	started  session.Session
	startErr error
	open     session.Session
	openErr  error
	stopped  session.Session
	stopErr  error
	hours    float64
	hoursErr error

	startCalls int
}

func (s *fakeStore) GetOrCreateUser(context.Context, int64) (session.User, bool, error) {
	return s.user, false, s.userErr
}

func (s *fakeStore) StartSession(context.Context, int64, time.Time) (session.Session, error) {
	s.startCalls++
	return s.started, s.startErr
}

func (s *fakeStore) OpenSession(context.Context, int64) (session.Session, error) {
	return s.open, s.openErr
}

func (s *fakeStore) StopSession(context.Context, int64) (session.Session, error) {
	return s.stopped, s.stopErr
}

func (s *fakeStore) SumIntervalsSince(context.Context, int64, time.Time) (float64, error) {
	return s.hours, s.hoursErr
}

func wire(store *fakeStore) *event.Bus {
	bus := event.NewBus(nil)
	Register(bus, store)
	return bus
}

func closedSession(start, end time.Time) session.Session {
	return session.Session{
		UserID:      7,
		StartedAtMS: start.UnixMilli(),
		EndedAtMS:   sql.NullInt64{Int64: end.UnixMilli(), Valid: true},
	}
}

func TestMainPageRendersMenuWhenIdle(t *testing.T) {
	store := &fakeStore{user: session.User{TelegramID: 7}}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyMainPage, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(tok.replies) != 1 || tok.replies[0] != mainPageText {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
	if tok.markups[0] == nil || len(tok.markups[0].InlineKeyboard) != 2 {
		t.Fatalf("expected a two-row menu keyboard, got %+v", tok.markups[0])
	}
}

func TestMainPageDelegatesToBlockedScreen(t *testing.T) {
	store := &fakeStore{user: session.User{TelegramID: 7, IsOnSession: true}}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyMainPage, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	// The main page must not produce a reply of its own.
	if len(tok.replies) != 1 || tok.replies[0] != cannotAccessText {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
}

func TestStartSessionRendersStartTime(t *testing.T) {
	start := time.Date(2024, 6, 22, 14, 5, 0, 0, time.Local)
	store := &fakeStore{started: session.Session{UserID: 7, StartedAtMS: start.UnixMilli()}}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyStartSession, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if store.startCalls != 1 {
		t.Fatalf("StartSession called %d times, want 1", store.startCalls)
	}
	if len(tok.replies) != 1 || !strings.Contains(tok.replies[0], "14:05") {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
}

func TestSecondStartRedirectsToBlockedScreen(t *testing.T) {
	store := &fakeStore{startErr: session.ErrSessionOpen}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyStartSession, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(tok.replies) != 1 || tok.replies[0] != cannotAccessText {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
}

func TestContinueDoesNotOpenSession(t *testing.T) {
	start := time.Date(2024, 6, 22, 9, 30, 0, 0, time.Local)
	store := &fakeStore{open: session.Session{UserID: 7, StartedAtMS: start.UnixMilli()}}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyContinueSession, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if store.startCalls != 0 {
		t.Fatalf("continue must not start a session, got %d calls", store.startCalls)
	}
	if len(tok.replies) != 1 || !strings.Contains(tok.replies[0], "09:30") {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
}

func TestContinueWithoutOpenSessionFallsBackToMenu(t *testing.T) {
	store := &fakeStore{openErr: session.ErrNoOpenSession}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyContinueSession, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(tok.replies) != 1 || tok.replies[0] != mainPageText {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
}

func TestEndSessionSummary(t *testing.T) {
	start := time.Date(2024, 6, 22, 10, 0, 0, 0, time.Local)
	store := &fakeStore{
		stopped: closedSession(start, start.Add(30*time.Minute)),
		hours:   1.5,
	}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyEndSession, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(tok.replies) != 1 {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
	if !strings.Contains(tok.replies[0], "30 min") || !strings.Contains(tok.replies[0], "1.5 h") {
		t.Fatalf("summary missing values: %q", tok.replies[0])
	}
	if tok.markups[0] == nil || len(tok.markups[0].InlineKeyboard) != 2 {
		t.Fatalf("expected menu and new-session buttons, got %+v", tok.markups[0])
	}
}

func TestEndWithoutStartIsUsageError(t *testing.T) {
	store := &fakeStore{stopErr: session.ErrNoOpenSession}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyEndSession, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(tok.replies) != 1 || tok.replies[0] != noOpenSessionText {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
	if tok.markups[0] != nil {
		t.Fatalf("usage error reply should carry no keyboard, got %+v", tok.markups[0])
	}
}

func TestShowStats(t *testing.T) {
	store := &fakeStore{hours: 2.5}
	bus := wire(store)

	tok := &fakeToken{sender: 7}
	if err := bus.Emit(event.KeyShowStats, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(tok.replies) != 1 || !strings.Contains(tok.replies[0], "2.5 h") {
		t.Fatalf("unexpected replies: %v", tok.replies)
	}
}
