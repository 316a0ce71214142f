package event

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/m3rciful/focusbot/core/logger"
	"log/slog"
)

// ErrUnknownKey is returned by Emit when no handler is registered for a key.
var ErrUnknownKey = errors.New("event: unknown key")

// Handler reacts to a single dispatched event. Returned errors are routed to
// the bus error sink, never back to the emitter.
type Handler func(tok Token) error

// ErrorSink receives handler failures so they cannot vanish silently.
type ErrorSink func(ctx context.Context, key Key, err error)

// Bus is a single-process dispatcher mapping event keys to at most one
// handler each. It holds no lock while a handler runs, so handlers may emit
// further keys to delegate control.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Key]Handler
	sink     ErrorSink
}

// NewBus creates an empty dispatcher. A nil sink drops failures after logging.
func NewBus(sink ErrorSink) *Bus {
	return &Bus{
		handlers: make(map[Key]Handler),
		sink:     sink,
	}
}

// On registers handler for key. The last registration wins; replacing an
// existing handler is logged because production wiring registers each key
// exactly once.
func (b *Bus) On(key Key, handler Handler) {
	if key == "" || handler == nil {
		logger.Warn(context.Background(), "bus", "register.skip",
			slog.String("key", string(key)),
			slog.Bool("handler_nil", handler == nil),
		)
		return
	}
	b.mu.Lock()
	_, replaced := b.handlers[key]
	b.handlers[key] = handler
	b.mu.Unlock()
	if replaced {
		logger.Warn(context.Background(), "bus", "register.replace",
			slog.String("key", string(key)),
		)
	}
}

// Known reports whether a handler is registered for key.
func (b *Bus) Known(key Key) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.handlers[key]
	return ok
}

// Keys returns the registered keys sorted for diagnostics.
func (b *Bus) Keys() []Key {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]Key, 0, len(b.handlers))
	for k := range b.handlers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Emit dispatches tok to the handler registered for key. Emission for an
// unregistered key is surfaced as ErrUnknownKey; handler errors and panics
// are logged and forwarded to the error sink but never propagate to the
// emitter, so a failing handler cannot take the dialogue loop down.
func (b *Bus) Emit(key Key, tok Token) error {
	b.mu.RLock()
	handler, ok := b.handlers[key]
	b.mu.RUnlock()

	ctx := context.Background()
	if tok != nil && tok.Context() != nil {
		ctx = tok.Context()
	}

	if !ok {
		logger.Warn(ctx, "bus", "emit.unknown",
			slog.String("key", string(key)),
		)
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	logger.Debug(ctx, "bus", "emit",
		slog.String("key", string(key)),
	)

	if err := b.invoke(ctx, key, handler, tok); err != nil {
		logger.Error(ctx, "bus", "handler.failed",
			slog.String("key", string(key)),
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		if b.sink != nil {
			b.sink(ctx, key, err)
		}
	}
	return nil
}

func (b *Bus) invoke(ctx context.Context, key Key, handler Handler, tok Token) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(ctx, "bus", "handler.panic",
				slog.String("key", string(key)),
				slog.Any("err", r),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("event: handler for %s panicked: %v", key, r)
		}
	}()
	return handler(tok)
}
