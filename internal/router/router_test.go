package router

import (
	"errors"
	"testing"

	"github.com/m3rciful/focusbot/internal/event"
)

func TestClassifyText(t *testing.T) {
	if got := ClassifyText(true); got != event.KeyCannotAccess {
		t.Fatalf("on-session text classified as %s, want %s", got, event.KeyCannotAccess)
	}
	if got := ClassifyText(false); got != event.KeyMainPage {
		t.Fatalf("idle text classified as %s, want %s", got, event.KeyMainPage)
	}
}

func TestNormalizeHandlerName(t *testing.T) {
	cases := map[string]string{
		"":              "unknown",
		"/start":        "start",
		"Main Page":     "main_page",
		"  end_session": "end_session",
	}
	for in, want := range cases {
		if got := normalizeHandlerName(in); got != want {
			t.Fatalf("normalizeHandlerName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDeriveErrorCode(t *testing.T) {
	if got := deriveErrorCode(errors.New("plain")); got != "ERRORSTRING" {
		t.Fatalf("deriveErrorCode = %q", got)
	}
	if got := deriveErrorCode(nil); got != "" {
		t.Fatalf("deriveErrorCode(nil) = %q", got)
	}
}
