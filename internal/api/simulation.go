package api

import "context"

// StartSimulation starts the backend occupancy simulator. Requires admin
// privileges server-side.
func (c *Client) StartSimulation(ctx context.Context) (*SimulationStatus, error) {
	var status SimulationStatus
	if err := c.get(ctx, "/api/sim/start", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// StopSimulation stops the backend occupancy simulator.
func (c *Client) StopSimulation(ctx context.Context) (*SimulationStatus, error) {
	var status SimulationStatus
	if err := c.get(ctx, "/api/sim/stop", &status); err != nil {
		return nil, err
	}
	return &status, nil
}
