package telegram

import (
	"testing"

	"github.com/m3rciful/focusbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func noopHandler(tele.Context) error { return nil }

func TestListCommandsFiltersAndSorts(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCommand("/status", commands.Command{
		Handler:     noopHandler,
		Description: "Runtime status",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/start", commands.Command{
		Handler:     noopHandler,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/about", commands.Command{
		Handler:     noopHandler,
		Description: "About",
	})

	visible := reg.ListCommands(true)
	if len(visible) != 2 {
		t.Fatalf("visible commands = %d, want 2", len(visible))
	}
	if visible[0].Text != "/about" || visible[1].Text != "/start" {
		t.Fatalf("visible commands out of order: %+v", visible)
	}

	all := reg.ListCommands(false)
	if len(all) != 3 {
		t.Fatalf("all commands = %d, want 3", len(all))
	}
	if len(reg.Commands()) != 3 {
		t.Fatalf("Commands() = %d entries, want 3", len(reg.Commands()))
	}
}

func TestCallbackNotFoundDefault(t *testing.T) {
	reg := NewRegistry()
	if reg.CallbackNotFound() == nil {
		t.Fatal("a fresh registry must carry a not-found fallback")
	}
}
