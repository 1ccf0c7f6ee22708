package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ospano/occuview/internal/api"
	"github.com/ospano/occuview/internal/config"
	"github.com/ospano/occuview/internal/store"
)

type settingsModel struct {
	cfg    config.Config
	store  *store.Store
	client *api.Client
	width  int
	height int

	simStatus  string
	simPending bool
}

func newSettingsModel(cfg config.Config, st *store.Store, client *api.Client) settingsModel {
	return settingsModel{cfg: cfg, store: st, client: client}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case simulationMsg:
		s.simPending = false
		if msg.err != nil {
			s.simStatus = api.UserMessage(msg.err)
			return s, func() tea.Msg {
				return statusMsg{text: "Simulation control failed", isError: true}
			}
		}
		if msg.status.Running {
			s.simStatus = "running"
		} else {
			s.simStatus = "stopped"
		}
		if msg.status.Message != "" {
			s.simStatus += " - " + msg.status.Message
		}
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.SimStart):
			if s.simPending {
				return s, nil
			}
			s.simPending = true
			return s, s.simCmd(true)

		case key.Matches(msg, keys.SimStop):
			if s.simPending {
				return s, nil
			}
			s.simPending = true
			return s, s.simCmd(false)

		case key.Matches(msg, keys.Logout):
			return s, func() tea.Msg {
				s.store.ClearSession()
				return loggedOutMsg{}
			}
		}
	}
	return s, nil
}

func (s settingsModel) simCmd(start bool) tea.Cmd {
	client := s.client
	return func() tea.Msg {
		var status *api.SimulationStatus
		var err error
		if start {
			status, err = client.StartSimulation(context.Background())
		} else {
			status, err = client.StopSimulation(context.Background())
		}
		return simulationMsg{status: status, err: err}
	}
}

func (s settingsModel) view() string {
	w := s.width - 4

	title := titleStyle.Render("Settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if session := s.store.Session(); session != nil {
		rows = append(rows, row("Signed in as", session.User.Name))
		rows = append(rows, row("Email", session.User.Email))
		if session.User.Role != "" {
			rows = append(rows, row("Role", session.User.Role))
		}
	} else {
		rows = append(rows, row("Session", "none"))
	}

	rows = append(rows, "")
	rows = append(rows, row("API base", s.cfg.APIBase))
	rows = append(rows, row("Live events", s.cfg.SocketURL))
	rows = append(rows, row("Site", s.cfg.SiteID))
	rows = append(rows, row("Poll interval", s.cfg.PollInterval.String()))

	rows = append(rows, "")
	sim := s.simStatus
	if sim == "" {
		sim = "unknown"
	}
	if s.simPending {
		sim = "..."
	}
	rows = append(rows, row("Simulator", sim))

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: start simulator  x: stop simulator  L: logout"))
	rows = append(rows, mutedStyle.Render("  Simulator control requires admin privileges"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func row(label, value string) string {
	l := lipgloss.NewStyle().Width(16).Render(label)
	return fmt.Sprintf("  %s %s", mutedStyle.Render(l), highlightStyle.Render(value))
}
