package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/voloshyn/leks-tap-bot/internal/app"
	"github.com/voloshyn/leks-tap-bot/internal/config"
	"github.com/voloshyn/leks-tap-bot/internal/platform/logger"
	"github.com/voloshyn/leks-tap-bot/internal/platform/ui"
)

func main() {
	_ = logger.Init("logs/app.log")
	defer logger.Close()

	ui.StartUISystem()
	defer ui.StopUISystem()

	cfg := config.Load()

	if err := cfg.Validate(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	if err := app.New(cfg).Run(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
