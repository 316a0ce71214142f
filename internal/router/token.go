package router

import (
	"context"

	tghelpers "github.com/m3rciful/focusbot/core/telegram/helpers"
	"github.com/m3rciful/focusbot/internal/event"

	tele "gopkg.in/telebot.v4"
)

// teleToken adapts a Telegram update to the bus continuation token: replies
// go out through the async send helpers, and Proceed hands control to the
// configured fallthrough handler when a bus handler declines the event.
type teleToken struct {
	c       tele.Context
	ctx     context.Context
	proceed func() error
}

// NewToken wraps a Telegram update context. proceed may be nil when there is
// nothing to fall through to.
func NewToken(c tele.Context, proceed func() error) event.Token {
	return &teleToken{
		c:       c,
		ctx:     tghelpers.BuildContext(c),
		proceed: proceed,
	}
}

func (t *teleToken) Context() context.Context {
	return t.ctx
}

func (t *teleToken) Sender() int64 {
	if s := t.c.Sender(); s != nil {
		return s.ID
	}
	return 0
}

func (t *teleToken) Reply(text string, markup *tele.ReplyMarkup) error {
	if markup != nil {
		return tghelpers.SendMD(t.c, text, markup)
	}
	return tghelpers.SendMD(t.c, text)
}

func (t *teleToken) Proceed() error {
	if t.proceed == nil {
		return nil
	}
	return t.proceed()
}
