package api

import "context"

// The analytics endpoints share one contract: a nil or partially filled
// query gets the default site and today's range, the response is returned
// undecorated, and failures propagate verbatim. There is no fallback data
// and no retry.

func (c *Client) Footfall(ctx context.Context, q *Query) (*FootfallResult, error) {
	var result FootfallResult
	if err := c.post(ctx, "/api/analytics/footfall", c.fillDefaults(q), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) DwellTime(ctx context.Context, q *Query) (*DwellTimeResult, error) {
	var result DwellTimeResult
	if err := c.post(ctx, "/api/analytics/dwell", c.fillDefaults(q), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Occupancy(ctx context.Context, q *Query) (*OccupancyResult, error) {
	var result OccupancyResult
	if err := c.post(ctx, "/api/analytics/occupancy", c.fillDefaults(q), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Demographics(ctx context.Context, q *Query) (*DemographicsResult, error) {
	var result DemographicsResult
	if err := c.post(ctx, "/api/analytics/demographics", c.fillDefaults(q), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
