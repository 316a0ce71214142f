package event

import (
	"context"
	"errors"
	"testing"

	tele "gopkg.in/telebot.v4"
)

type fakeToken struct {
	sender    int64
	replies   []string
	proceeded int
}

func (t *fakeToken) Context() context.Context { return context.Background() }

func (t *fakeToken) Sender() int64 { return t.sender }

func (t *fakeToken) Reply(text string, _ *tele.ReplyMarkup) error {
	t.replies = append(t.replies, text)
	return nil
}

func (t *fakeToken) Proceed() error {
	t.proceeded++
	return nil
}

func TestEmitUnknownKey(t *testing.T) {
	bus := NewBus(nil)
	called := false
	bus.On(KeyMainPage, func(Token) error {
		called = true
		return nil
	})

	err := bus.Emit(Key("bogus"), &fakeToken{})
	if !errors.Is(err, ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if called {
		t.Fatal("unrelated handler must not run for an unknown key")
	}
}

func TestEmitDispatchesRegisteredHandler(t *testing.T) {
	bus := NewBus(nil)
	var got Token
	bus.On(KeyStartSession, func(tok Token) error {
		got = tok
		return nil
	})

	tok := &fakeToken{sender: 42}
	if err := bus.Emit(KeyStartSession, tok); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if got != tok {
		t.Fatal("handler did not receive the emitted token")
	}
}

func TestLastRegistrationWins(t *testing.T) {
	bus := NewBus(nil)
	order := []string{}
	bus.On(KeyEndSession, func(Token) error {
		order = append(order, "first")
		return nil
	})
	bus.On(KeyEndSession, func(Token) error {
		order = append(order, "second")
		return nil
	})

	if err := bus.Emit(KeyEndSession, &fakeToken{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(order) != 1 || order[0] != "second" {
		t.Fatalf("expected only the last registration to run, got %v", order)
	}
}

func TestHandlerErrorReachesSinkNotEmitter(t *testing.T) {
	var sinkKey Key
	var sinkErr error
	bus := NewBus(func(_ context.Context, key Key, err error) {
		sinkKey = key
		sinkErr = err
	})

	boom := errors.New("boom")
	bus.On(KeyShowStats, func(Token) error { return boom })

	if err := bus.Emit(KeyShowStats, &fakeToken{}); err != nil {
		t.Fatalf("handler errors must not propagate through Emit, got %v", err)
	}
	if sinkKey != KeyShowStats || !errors.Is(sinkErr, boom) {
		t.Fatalf("sink got (%q, %v), want (%q, %v)", sinkKey, sinkErr, KeyShowStats, boom)
	}
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	var sinkErr error
	bus := NewBus(func(_ context.Context, _ Key, err error) { sinkErr = err })
	bus.On(KeyMainPage, func(Token) error { panic("kaboom") })

	if err := bus.Emit(KeyMainPage, &fakeToken{}); err != nil {
		t.Fatalf("panics must not propagate through Emit, got %v", err)
	}
	if sinkErr == nil {
		t.Fatal("expected the panic to surface through the sink")
	}
}

func TestReentrantEmit(t *testing.T) {
	bus := NewBus(nil)
	var order []Key
	bus.On(KeyCannotAccess, func(Token) error {
		order = append(order, KeyCannotAccess)
		return nil
	})
	bus.On(KeyMainPage, func(tok Token) error {
		order = append(order, KeyMainPage)
		return bus.Emit(KeyCannotAccess, tok)
	})

	if err := bus.Emit(KeyMainPage, &fakeToken{}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(order) != 2 || order[0] != KeyMainPage || order[1] != KeyCannotAccess {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
}

func TestKeysSorted(t *testing.T) {
	bus := NewBus(nil)
	bus.On(KeyShowStats, func(Token) error { return nil })
	bus.On(KeyEndSession, func(Token) error { return nil })
	bus.On(KeyCannotAccess, func(Token) error { return nil })

	keys := bus.Keys()
	want := []Key{KeyCannotAccess, KeyEndSession, KeyShowStats}
	if len(keys) != len(want) {
		t.Fatalf("got %d keys, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}
}
