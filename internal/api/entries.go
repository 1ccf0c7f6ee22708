package api

import "context"

const defaultPageSize = 10

// Entries fetches one page of entry/exit records. Site and time range
// default like the analytics queries; Search and Gender only appear in the
// request body when set.
func (c *Client) Entries(ctx context.Context, q EntriesQuery) (*EntriesPage, error) {
	if q.SiteID == "" {
		q.SiteID = c.siteID
	}
	if q.FromUTC == 0 && q.ToUTC == 0 {
		q.FromUTC, q.ToUTC = TodayRange()
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}

	var result EntriesPage
	if err := c.post(ctx, "/api/analytics/entry-exit", q, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
