package api

import "time"

// TodayRange returns the caller's local calendar day as epoch milliseconds:
// local midnight through one millisecond before the next midnight.
func TodayRange() (fromUTC, toUTC int64) {
	return dayRange(time.Now())
}

func dayRange(now time.Time) (int64, int64) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start.UnixMilli(), end.UnixMilli()
}

// fillDefaults applies the default site and today range to a query whose
// caller left them unset.
func (c *Client) fillDefaults(q *Query) Query {
	filled := Query{SiteID: c.siteID}
	if q != nil {
		filled = *q
	}
	if filled.SiteID == "" {
		filled.SiteID = c.siteID
	}
	if filled.FromUTC == 0 && filled.ToUTC == 0 {
		filled.FromUTC, filled.ToUTC = TodayRange()
	}
	return filled
}
