package main

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/m3rciful/focusbot/core/cmd"
	"github.com/m3rciful/focusbot/internal/app"
)

func main() {
	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			cfg, ok := carrier.(*app.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return app.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("focusbot: %v", err)
	}
}
