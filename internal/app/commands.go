package app

import (
	"fmt"
	"time"

	"github.com/m3rciful/focusbot/core/buildinfo"
	"github.com/m3rciful/focusbot/core/logger"
	tg "github.com/m3rciful/focusbot/core/telegram"
	"github.com/m3rciful/focusbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/focusbot/core/telegram/helpers"
	"github.com/m3rciful/focusbot/internal/event"
	"github.com/m3rciful/focusbot/internal/router"

	tele "gopkg.in/telebot.v4"
)

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     router.CommandEmit(a.bus, event.KeyMainPage),
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/status", commands.Command{
		Handler:     a.statusHandler(),
		Description: "Runtime status",
		AdminOnly:   true,
		Hidden:      true,
	})
}

// statusHandler reports build and runtime counters to the admin.
func (a *App) statusHandler() tele.HandlerFunc {
	return func(c tele.Context) error {
		senderErrs := uint64(0)
		if rt := a.dispatcher.Load(); rt != nil && rt.Dispatcher != nil {
			senderErrs = rt.Dispatcher.ErrorCount()
		}
		uptime := logger.RoundMS(time.Since(a.startedAt))
		text := fmt.Sprintf(
			"focusbot %s (%s)\nuptime: %s\ndialogue keys: %d\nhandler errors: %d\nsend errors: %d",
			buildinfo.Version, buildinfo.Commit, uptime,
			len(a.bus.Keys()), a.dialogErrs.Load(), senderErrs,
		)
		return tghelpers.SendText(c, text)
	}
}
