package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/frontdeskhq/console/internal/api"
	"github.com/frontdeskhq/console/internal/core/export"
	"github.com/frontdeskhq/console/internal/core/inbox"
	"github.com/frontdeskhq/console/internal/core/integrations"
	"github.com/frontdeskhq/console/internal/core/layout"
	"github.com/frontdeskhq/console/internal/core/refresh"
	"github.com/frontdeskhq/console/internal/localstore"
	"github.com/frontdeskhq/console/internal/session"
	"github.com/frontdeskhq/console/internal/shared/config"
	"github.com/frontdeskhq/console/internal/shared/utils"
	"github.com/frontdeskhq/console/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "frontdesk:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadConfig()

	// The console owns the terminal, so logs go to a file.
	logFile, err := utils.InitFileLogger(cfg.DataDir)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// Ephemeral runs keep everything in memory; no session, draft backup or
	// theme outlives the process.
	var (
		local    *localstore.Store
		sessions session.Store
	)
	if cfg.Ephemeral {
		sessions = session.NewMemoryStore()
	} else {
		local, err = localstore.Open(filepath.Join(cfg.DataDir, "frontdesk.db"))
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		defer local.Close()
		sessions = localstore.NewSessionStore(local)
	}

	client := api.New(cfg.APIBaseURL, sessions)
	scheduler := refresh.NewScheduler()

	model := tui.NewModel(tui.Deps{
		Config:       cfg,
		API:          client,
		Sessions:     sessions,
		Local:        local,
		Inbox:        inbox.NewService(client),
		Layout:       layout.NewStore(client),
		Integrations: integrations.NewService(client),
		Export:       export.NewService(),
		Scheduler:    scheduler,
	})

	scheduler.Start()
	defer scheduler.Stop()

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
