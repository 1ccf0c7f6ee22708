package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ospano/occuview/internal/live"
)

// ============================================================
// Normalization
// ============================================================

func TestNormalizePrimaryShape(t *testing.T) {
	n, ok := Normalize(live.Alert{
		Direction:  "entry",
		PersonName: "John Smith",
		Severity:   "high",
		TS:         1710412200000,
		EventID:    "evt-1",
	})
	if !ok {
		t.Fatal("primary shape should normalize")
	}
	if n.ID != "evt-1" {
		t.Fatalf("expected event id kept, got %q", n.ID)
	}
	if n.Title != "Entry Alert" {
		t.Fatalf("title: %q", n.Title)
	}
	if n.Message != "John Smith entered the venue" {
		t.Fatalf("message: %q", n.Message)
	}
	if n.Severity != SeverityCritical {
		t.Fatalf("high should map to critical, got %q", n.Severity)
	}
	want := time.UnixMilli(1710412200000).UTC().Format(time.RFC3339)
	if n.Timestamp != want {
		t.Fatalf("timestamp: got %q want %q", n.Timestamp, want)
	}
	if !n.Unread {
		t.Fatal("new notifications start unread")
	}
	if n.TargetURL != "/crowd-entries" {
		t.Fatalf("target: %q", n.TargetURL)
	}
}

func TestNormalizePrimarySeverityMapping(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"high", SeverityCritical},
		{"medium", SeverityWarning},
		{"low", SeverityInfo},
		{"", SeverityInfo},
		{"bogus", SeverityInfo},
	}
	for _, c := range cases {
		n, ok := Normalize(live.Alert{Direction: "exit", PersonName: "A", Severity: c.in})
		if !ok {
			t.Fatalf("severity %q: should normalize", c.in)
		}
		if n.Severity != c.want {
			t.Fatalf("severity %q: got %q want %q", c.in, n.Severity, c.want)
		}
	}
}

func TestNormalizePrimaryExit(t *testing.T) {
	n, ok := Normalize(live.Alert{Direction: "zone-exit", PersonName: "Jane"})
	if !ok {
		t.Fatal("should normalize")
	}
	if n.Title != "Exit Alert" || n.Message != "Jane exited the venue" {
		t.Fatalf("exit rendering: %+v", n)
	}
	if n.ID == "" {
		t.Fatal("missing event id should be replaced with a generated one")
	}
}

func TestNormalizeLegacyShape(t *testing.T) {
	n, ok := Normalize(live.Alert{
		Action:    "entry",
		Zone:      "atrium",
		Details:   "Visitor entered atrium",
		Severity:  "warning",
		Timestamp: "2025-03-14T10:30:00Z",
	})
	if !ok {
		t.Fatal("complete legacy shape should normalize")
	}
	if n.Title != "Entry Alert" || n.Message != "Visitor entered atrium" {
		t.Fatalf("legacy rendering: %+v", n)
	}
	if n.Severity != SeverityWarning {
		t.Fatalf("known severity should pass through, got %q", n.Severity)
	}
}

func TestNormalizeLegacyUnknownSeverity(t *testing.T) {
	n, ok := Normalize(live.Alert{Action: "exit", Zone: "z", Details: "d", Severity: "urgent"})
	if !ok {
		t.Fatal("should normalize")
	}
	if n.Severity != SeverityInfo {
		t.Fatalf("unknown severity should fall back to info, got %q", n.Severity)
	}
}

func TestNormalizeLegacyIncompleteDiscarded(t *testing.T) {
	cases := []live.Alert{
		{Action: "entry", Zone: "atrium"},           // no details
		{Action: "entry", Details: "d"},             // no zone
		{Zone: "atrium", Details: "d"},              // no action
		{},                                          // nothing at all
		{Severity: "high", Timestamp: "2025-01-01"}, // severity alone is not an alert
	}
	for i, a := range cases {
		if _, ok := Normalize(a); ok {
			t.Fatalf("case %d should be discarded: %+v", i, a)
		}
	}
}

// ============================================================
// Center
// ============================================================

func TestCenterPrependOrder(t *testing.T) {
	c := NewCenter()
	c.HandleAlert(json.RawMessage(`{"direction":"entry","personName":"First","eventId":"1"}`))
	c.HandleAlert(json.RawMessage(`{"direction":"entry","personName":"Second","eventId":"2"}`))

	list := c.Notifications()
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(list))
	}
	if list[0].ID != "2" || list[1].ID != "1" {
		t.Fatalf("newest should come first: %v, %v", list[0].ID, list[1].ID)
	}
}

func TestCenterDropsBadAlerts(t *testing.T) {
	c := NewCenter()
	c.HandleAlert(json.RawMessage(`not json`))
	c.HandleAlert(json.RawMessage(`{"action":"entry"}`))

	if n := len(c.Notifications()); n != 0 {
		t.Fatalf("bad alerts must not reach the list, got %d", n)
	}
}

func TestCenterUnreadCount(t *testing.T) {
	c := NewCenter()
	c.HandleAlert(json.RawMessage(`{"direction":"entry","personName":"A","eventId":"1"}`))
	c.HandleAlert(json.RawMessage(`{"direction":"exit","personName":"B","eventId":"2"}`))

	if c.UnreadCount() != 2 {
		t.Fatalf("expected 2 unread, got %d", c.UnreadCount())
	}

	c.MarkAsRead("1")
	if c.UnreadCount() != 1 {
		t.Fatalf("expected 1 unread, got %d", c.UnreadCount())
	}

	// Marking an unknown id changes nothing.
	c.MarkAsRead("nope")
	if c.UnreadCount() != 1 {
		t.Fatalf("expected 1 unread, got %d", c.UnreadCount())
	}
}

func TestCenterMarkAllAsRead(t *testing.T) {
	c := NewCenter()
	c.HandleAlert(json.RawMessage(`{"direction":"entry","personName":"A","eventId":"1"}`))
	c.HandleAlert(json.RawMessage(`{"direction":"exit","personName":"B","eventId":"2"}`))

	c.MarkAllAsRead()

	list := c.Notifications()
	if len(list) != 2 {
		t.Fatalf("mark all must not drop records, got %d", len(list))
	}
	if list[0].ID != "2" || list[1].ID != "1" {
		t.Fatal("mark all must not reorder records")
	}
	if c.UnreadCount() != 0 {
		t.Fatalf("expected 0 unread, got %d", c.UnreadCount())
	}
}

func TestCenterClearAll(t *testing.T) {
	c := NewCenter()
	c.HandleAlert(json.RawMessage(`{"direction":"entry","personName":"A","eventId":"1"}`))
	c.ClearAll()
	if len(c.Notifications()) != 0 || c.UnreadCount() != 0 {
		t.Fatal("clear should empty the list")
	}
}

func TestCenterOnChange(t *testing.T) {
	c := NewCenter()
	fires := 0
	c.OnChange(func() { fires++ })

	c.HandleAlert(json.RawMessage(`{"direction":"entry","personName":"A","eventId":"1"}`))
	c.MarkAllAsRead()
	c.ClearAll()

	if fires != 3 {
		t.Fatalf("expected 3 change notifications, got %d", fires)
	}
}
