package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ospano/occuview/internal/api"
)

// viewState represents the currently active view.
type viewState int

const (
	viewOverview viewState = iota
	viewEntries
	viewNotifications
	viewSettings
)

var viewNames = []string{"Overview", "Entries", "Notifications", "Settings"}

// --- Messages ---

// overviewUpdatedMsg fires whenever any of the four analytics feeds
// changes state.
type overviewUpdatedMsg struct{}

type entriesUpdatedMsg struct{}

type notificationsUpdatedMsg struct{}

// liveOccupancyMsg carries a live-pushed occupancy value.
type liveOccupancyMsg struct {
	value int
}

type loginResultMsg struct {
	result *api.LoginResult
	err    error
}

type loggedOutMsg struct{}

// sessionExpiredMsg fires when any request came back 401 and the stored
// session has already been cleared.
type sessionExpiredMsg struct{}

type simulationMsg struct {
	status *api.SimulationStatus
	err    error
}

type refetchDoneMsg struct{}

type exportDoneMsg struct {
	path string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

// --- Dispatcher ---

// Dispatcher bridges feed callbacks and live events into the running tea
// program. Before Attach, sends are dropped; nothing interesting can
// happen before the program runs.
type Dispatcher struct {
	mu sync.Mutex
	p  *tea.Program
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Attach(p *tea.Program) {
	d.mu.Lock()
	d.p = p
	d.mu.Unlock()
}

func (d *Dispatcher) Send(msg tea.Msg) {
	d.mu.Lock()
	p := d.p
	d.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// --- Helpers ---

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
