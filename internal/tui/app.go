package tui

import (
	"encoding/json"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ospano/occuview/internal/api"
	"github.com/ospano/occuview/internal/config"
	"github.com/ospano/occuview/internal/feed"
	"github.com/ospano/occuview/internal/live"
	"github.com/ospano/occuview/internal/store"
)

// App is the root Bubble Tea model. It gates on the stored session: until
// a login succeeds only the login view is reachable, afterwards the feeds
// poll and the live channel pushes updates into the tea loop via the
// dispatcher.
type App struct {
	cfg    config.Config
	store  *store.Store
	client *api.Client
	liveC  *live.Client
	ov     *feed.Overview
	ef     *feed.Entries
	center *feed.Center
	disp   *Dispatcher

	width  int
	height int

	authed     bool
	activeView viewState
	showHelp   bool

	login         loginModel
	overview      overviewModel
	entries       entriesModel
	notifications notificationsModel
	settings      settingsModel

	help   help.Model
	status string
}

func NewApp(cfg config.Config, st *store.Store, client *api.Client, liveC *live.Client,
	ov *feed.Overview, ef *feed.Entries, center *feed.Center, disp *Dispatcher) App {

	h := help.New()
	h.ShowAll = false

	// Bridge every out-of-loop event into the tea loop.
	ov.OnChange(func() { disp.Send(overviewUpdatedMsg{}) })
	ef.OnChange(func() { disp.Send(entriesUpdatedMsg{}) })
	center.OnChange(func() { disp.Send(notificationsUpdatedMsg{}) })
	client.OnUnauthorized(func() { disp.Send(sessionExpiredMsg{}) })

	liveC.Subscribe(live.EventLiveOccupancy, func(data json.RawMessage) {
		o, err := live.ParseOccupancy(data)
		if err != nil {
			return
		}
		disp.Send(liveOccupancyMsg{value: o.Occupancy})
	})
	liveC.Subscribe(live.EventAlert, center.HandleAlert)

	return App{
		cfg:           cfg,
		store:         st,
		client:        client,
		liveC:         liveC,
		ov:            ov,
		ef:            ef,
		center:        center,
		disp:          disp,
		authed:        st.Session() != nil,
		activeView:    viewOverview,
		login:         newLoginModel(client),
		overview:      newOverviewModel(),
		entries:       newEntriesModel(ef),
		notifications: newNotificationsModel(center),
		settings:      newSettingsModel(cfg, st, client),
		help:          h,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if a.authed {
		cmds = append(cmds, a.beginSession())
	} else {
		cmds = append(cmds, a.login.Init())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// beginSession starts the pollers and opens the live channel. Runs as a
// command so the websocket dial never blocks the loop.
func (a App) beginSession() tea.Cmd {
	return func() tea.Msg {
		a.ov.Start()
		a.ef.Start()
		if err := a.liveC.Initialize(); err != nil {
			return statusMsg{text: "Live events unavailable: " + err.Error(), isError: true}
		}
		return statusMsg{text: "Connected"}
	}
}

// endSession tears down the pollers and the live channel.
func (a *App) endSession() {
	a.liveC.Disconnect()
	a.ov.Stop()
	a.ef.Stop()
	a.authed = false
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.overview.setSize(a.width, contentHeight)
		a.entries.setSize(a.width, contentHeight)
		a.notifications.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tickMsg:
		return a, tickCmd()

	case loginResultMsg:
		if msg.err != nil {
			var cmd tea.Cmd
			a.login, cmd = a.login.fail(msg.err)
			return a, cmd
		}
		if err := a.store.SaveSession(msg.result.Token, msg.result.User); err != nil {
			var cmd tea.Cmd
			a.login, cmd = a.login.fail(err)
			return a, cmd
		}
		a.authed = true
		a.activeView = viewOverview
		a.login = newLoginModel(a.client)
		a.login.setSize(a.width, a.height-4)
		a.status = "Signed in as " + msg.result.User.Name
		return a, a.beginSession()

	case sessionExpiredMsg:
		if a.authed {
			a.endSession()
			var cmd tea.Cmd
			a.login, cmd = a.login.withNotice("Session expired - please sign in again")
			return a, cmd
		}
		return a, nil

	case loggedOutMsg:
		a.endSession()
		var cmd tea.Cmd
		a.login, cmd = a.login.withNotice("Signed out")
		return a, cmd

	case liveOccupancyMsg:
		a.ov.UpdateLiveOccupancy(msg.value)
		return a, nil

	case overviewUpdatedMsg:
		a.overview = a.overview.withData(a.ov.Snapshot())
		return a, nil

	case entriesUpdatedMsg:
		a.entries = a.entries.withSnapshot()
		return a, nil

	case notificationsUpdatedMsg:
		a.notifications = a.notifications.withList()
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case refetchDoneMsg:
		a.status = "Refreshed"
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		return a, nil

	case simulationMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case tea.KeyMsg:
		if !a.authed {
			var cmd tea.Cmd
			a.login, cmd = a.login.update(msg)
			return a, cmd
		}

		// A capturing child (search form, export picker) gets keys first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewOverview
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewEntries
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewNotifications
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 4
			return a, nil
		}
	}

	if !a.authed {
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg)
		return a, cmd
	}
	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewOverview:
		a.overview, cmd = a.overview.update(msg, a.ov)
	case viewEntries:
		a.entries, cmd = a.entries.update(msg)
	case viewNotifications:
		a.notifications, cmd = a.notifications.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	if a.activeView == viewEntries {
		return a.entries.capturing()
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if !a.authed {
		return a.login.view()
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewOverview:
		content = a.overview.view()
	case viewEntries:
		content = a.entries.view()
	case viewNotifications:
		content = a.notifications.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		label := name
		if viewState(i) == viewNotifications {
			if unread := a.center.UnreadCount(); unread > 0 {
				label = name + " (" + accentStyle.Render(itoa(unread)) + ")"
			}
		}
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("occuview")
	clock := mutedStyle.Render(time.Now().Format("Mon Jan 02  15:04"))
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", clock)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Connection indicator
	var conn string
	switch a.liveC.State() {
	case live.StateConnected:
		conn = successStyle.Render(" ● live")
	case live.StateConnecting, live.StateReconnecting:
		conn = warningStyle.Render(" ◌ " + a.liveC.State().String())
	case live.StateTerminated:
		conn = errorStyle.Render(" ○ offline")
	default:
		conn = mutedStyle.Render(" ○ not connected")
	}

	left := footerStyle.Render(helpView)
	right := conn + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func itoa(n int) string {
	if n > 99 {
		return "99+"
	}
	digits := "0123456789"
	if n < 10 {
		return string(digits[n])
	}
	return string(digits[n/10]) + string(digits[n%10])
}
