package event

import (
	"context"

	tele "gopkg.in/telebot.v4"
)

// Key identifies a dialogue event dispatched through the Bus.
// The set of keys is closed: every key is registered exactly once at startup.
type Key string

const (
	// KeyMainPage renders the entry menu or redirects to the blocked screen.
	KeyMainPage Key = "main_page"
	// KeyStartSession opens a new focus session.
	KeyStartSession Key = "start_session"
	// KeyContinueSession re-renders the in-session screen without opening a session.
	KeyContinueSession Key = "continue_session"
	// KeyEndSession closes the open session and renders the summary.
	KeyEndSession Key = "end_session"
	// KeyCannotAccess renders the blocked screen while a session is open.
	KeyCannotAccess Key = "cannot_access"
	// KeyShowStats renders the accumulated hours for today.
	KeyShowStats Key = "show_stats"
)

// Token carries one inbound interaction through the bus: the request-scoped
// context, the sender identity, a way to produce the user-visible reply, and
// an explicit hand-off to the next transport handler for events a handler
// chooses not to fully consume.
type Token interface {
	Context() context.Context
	Sender() int64
	Reply(text string, markup *tele.ReplyMarkup) error
	Proceed() error
}
