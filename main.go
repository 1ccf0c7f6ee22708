package main

import (
	"errors"
	"fmt"
	"net"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ospano/occuview/internal/api"
	"github.com/ospano/occuview/internal/config"
	"github.com/ospano/occuview/internal/feed"
	"github.com/ospano/occuview/internal/live"
	"github.com/ospano/occuview/internal/store"
	"github.com/ospano/occuview/internal/tui"
)

func main() {
	cfg := config.Load()

	dbPath := cfg.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	st, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening local state: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	client := api.New(cfg.APIBase, cfg.SiteID, cfg.RequestTimeout, st)
	liveClient := live.New(cfg.SocketURL, st, cfg.ReconnectAttempts, cfg.ReconnectDelay)

	overview := feed.NewOverview(client, cfg.PollInterval)
	entries := feed.NewEntries(client, cfg.PollInterval)
	center := feed.NewCenter()

	disp := tui.NewDispatcher()
	app := tui.NewApp(cfg, st, client, liveClient, overview, entries, center, disp)

	p := tea.NewProgram(app, tea.WithAltScreen())
	disp.Attach(p)

	if _, err := p.Run(); err != nil {
		// Keep the dashboard fault from looking like a login problem:
		// only suggest clearing the session for connectivity-flavored
		// failures.
		var netErr net.Error
		if errors.As(err, &netErr) {
			fmt.Fprintf(os.Stderr, "error: %v\nCheck your connection, or clear %s to sign in again.\n", err, dbPath)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\nPlease restart occuview.\n", err)
		}
		os.Exit(1)
	}
}
