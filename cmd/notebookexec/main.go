// File: cmd/notebookexec/main.go
package main

import (
	"log/slog"
	"os"

	"notebookexec/internal/config"
	"notebookexec/internal/logger"
)

func main() {
	level := new(slog.LevelVar)
	log := logger.NewLogger(level)

	cfgManager, err := config.NewConfigManager()
	if err != nil {
		log.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	app, err := newApp(log, level, cfgManager)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	Execute(app)
}
