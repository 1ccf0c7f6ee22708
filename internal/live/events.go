package live

import "encoding/json"

// Named events the backend pushes.
const (
	EventLiveOccupancy = "live-occupancy"
	EventAlert         = "alert"
)

// Occupancy is the live-occupancy payload. The backend is loose about this
// shape, so only the fields the dashboard reads are decoded.
type Occupancy struct {
	ZoneID    string `json:"zoneId"`
	SiteID    string `json:"siteId"`
	Occupancy int    `json:"occupancy"`
	Timestamp string `json:"timestamp"`
}

// ParseOccupancy decodes a live-occupancy payload.
func ParseOccupancy(data json.RawMessage) (Occupancy, error) {
	var o Occupancy
	err := json.Unmarshal(data, &o)
	return o, err
}

// Alert is the union of the two inbound alert shapes. The primary shape
// carries direction/personName/severity/ts/eventId; the legacy shape
// carries action/zone/details/timestamp. Which one arrived is decided by
// the normalizer, not here.
type Alert struct {
	// Primary shape
	Direction  string `json:"direction,omitempty"`
	PersonName string `json:"personName,omitempty"`
	Severity   string `json:"severity,omitempty"`
	TS         int64  `json:"ts,omitempty"`
	EventID    string `json:"eventId,omitempty"`

	// Legacy shape
	Action    string `json:"action,omitempty"`
	Zone      string `json:"zone,omitempty"`
	Site      string `json:"site,omitempty"`
	Details   string `json:"details,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ParseAlert decodes an alert payload without judging its shape.
func ParseAlert(data json.RawMessage) (Alert, error) {
	var a Alert
	err := json.Unmarshal(data, &a)
	return a, err
}
