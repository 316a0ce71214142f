// Package app wires the focus tracker together: one event bus, one session
// store, and the Telegram runtime options consumed by the core runner.
package app

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/m3rciful/focusbot/core/bootstrap"
	"github.com/m3rciful/focusbot/core/logger"
	tg "github.com/m3rciful/focusbot/core/telegram"
	"github.com/m3rciful/focusbot/internal/event"
	"github.com/m3rciful/focusbot/internal/handlers"
	"github.com/m3rciful/focusbot/internal/router"
	"github.com/m3rciful/focusbot/internal/session"
	"log/slog"
)

// App holds the initialized application state.
type App struct {
	cfg   *Config
	bus   *event.Bus
	store *session.Store

	startedAt  time.Time
	dialogErrs atomic.Uint64
	dispatcher atomic.Pointer[tg.Runtime]
}

// Bootstrap initializes infrastructure, constructs the session store and the
// event bus, and registers every dialogue handler.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   &cfg.Core,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:       cfg,
		store:     session.NewStore(res.DB),
		startedAt: time.Now(),
	}
	a.bus = event.NewBus(a.sinkDialogError)
	handlers.Register(a.bus, a.store)

	logger.L.With("component", "app").Info("dialogue wired",
		slog.String("event", "wire"),
		slog.Int("keys", len(a.bus.Keys())),
	)
	return a, nil
}

// sinkDialogError counts handler failures surfaced by the bus; the bus has
// already logged them.
func (a *App) sinkDialogError(_ context.Context, _ event.Key, _ error) {
	a.dialogErrs.Add(1)
}

// TelegramRunOptions assembles the routes, middleware chain, and lifecycle
// hooks for the core Telegram runner.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.registerCommands(reg)

	routes := []tg.Route{
		router.CallbackRoute(a.bus, reg),
		router.TextRoute(a.bus, a.store),
	}
	routes = append(routes, router.CommandRoutes(reg, a.cfg.Core.Telegram.AdminID)...)

	return tg.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
		OnStart: func(_ context.Context, rt tg.Runtime) error {
			a.dispatcher.Store(&rt)
			return nil
		},
	}, nil
}
