package feed

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ospano/occuview/internal/live"
)

// Notification severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
	SeveritySuccess  = "success"
)

// Notification is one normalized alert. Records are in-memory only and
// lost on exit.
type Notification struct {
	ID        string
	Title     string
	Message   string
	Timestamp string
	Severity  string
	Unread    bool
	TargetURL string
}

// Center holds the notification list, newest first. Unread count is
// derived, never stored.
type Center struct {
	mu       sync.Mutex
	list     []Notification
	onChange func()
}

func NewCenter() *Center {
	return &Center{}
}

func (c *Center) OnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// HandleAlert is the live-event entry point: parse, normalize, prepend.
// Malformed or incomplete alerts are dropped with a log line and never
// reach the UI.
func (c *Center) HandleAlert(data json.RawMessage) {
	alert, err := live.ParseAlert(data)
	if err != nil {
		log.Printf("feed: dropping undecodable alert: %v", err)
		return
	}
	n, ok := Normalize(alert)
	if !ok {
		log.Printf("feed: dropping incomplete alert payload")
		return
	}

	c.mu.Lock()
	c.list = append([]Notification{n}, c.list...)
	c.mu.Unlock()
	c.notify()
}

// Normalize maps either inbound alert shape onto one Notification. The
// primary shape wins when both could apply; the legacy shape is accepted
// only when action, zone, and details are all present.
func Normalize(a live.Alert) (Notification, bool) {
	if a.Direction != "" && a.PersonName != "" {
		action := "exit"
		if strings.Contains(a.Direction, "entry") {
			action = "entry"
		}

		severity := SeverityInfo
		switch a.Severity {
		case "high":
			severity = SeverityCritical
		case "medium":
			severity = SeverityWarning
		}

		ts := time.Now().UTC()
		if a.TS != 0 {
			ts = time.UnixMilli(a.TS).UTC()
		}

		id := a.EventID
		if id == "" {
			id = uuid.NewString()
		}

		verb := "exited"
		title := "Exit Alert"
		if action == "entry" {
			verb = "entered"
			title = "Entry Alert"
		}

		return Notification{
			ID:        id,
			Title:     title,
			Message:   fmt.Sprintf("%s %s the venue", a.PersonName, verb),
			Timestamp: ts.Format(time.RFC3339),
			Severity:  severity,
			Unread:    true,
			TargetURL: "/crowd-entries",
		}, true
	}

	// Legacy shape: all three fields or nothing.
	if a.Action == "" || a.Zone == "" || a.Details == "" {
		return Notification{}, false
	}

	severity := a.Severity
	switch severity {
	case SeverityInfo, SeverityWarning, SeverityCritical, SeveritySuccess:
	default:
		severity = SeverityInfo
	}

	ts := time.Now().UTC().Format(time.RFC3339)
	if a.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, a.Timestamp); err == nil {
			ts = parsed.UTC().Format(time.RFC3339)
		}
	}

	title := "Exit Alert"
	if a.Action == "entry" {
		title = "Entry Alert"
	}

	return Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   a.Details,
		Timestamp: ts,
		Severity:  severity,
		Unread:    true,
		TargetURL: "/crowd-entries",
	}, true
}

// Notifications returns a copy of the list, newest first.
func (c *Center) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.list))
	copy(out, c.list)
	return out
}

// UnreadCount is derived from the list on every call.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, n := range c.list {
		if n.Unread {
			count++
		}
	}
	return count
}

// MarkAsRead flips one record's unread flag.
func (c *Center) MarkAsRead(id string) {
	c.mu.Lock()
	for i := range c.list {
		if c.list[i].ID == id {
			c.list[i].Unread = false
		}
	}
	c.mu.Unlock()
	c.notify()
}

// MarkAllAsRead flips every record without touching order or length.
func (c *Center) MarkAllAsRead() {
	c.mu.Lock()
	for i := range c.list {
		c.list[i].Unread = false
	}
	c.mu.Unlock()
	c.notify()
}

// ClearAll empties the list.
func (c *Center) ClearAll() {
	c.mu.Lock()
	c.list = nil
	c.mu.Unlock()
	c.notify()
}

func (c *Center) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
