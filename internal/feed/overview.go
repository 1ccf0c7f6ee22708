package feed

import (
	"context"
	"sync"
	"time"

	"github.com/ospano/occuview/internal/api"
)

// EmptyDwell is the sentinel shown before any dwell-time data arrives.
const EmptyDwell = "00min 00sec"

// Stat is one integer metric projected for a stat card.
type Stat struct {
	Value      int
	Comparison float64
	Loading    bool
	Error      string
}

// DwellStat carries the pre-formatted dwell duration.
type DwellStat struct {
	Value      string
	Comparison float64
	Loading    bool
	Error      string
}

// SeriesStat is the occupancy chart projection.
type SeriesStat struct {
	Data    []api.OccupancyPoint
	Loading bool
	Error   string
}

// DemographicsStat is the demographics chart projection.
type DemographicsStat struct {
	Pie        api.DemographicsSplit
	Timeseries []api.DemographicsPoint
	Loading    bool
	Error      string
}

// OverviewData is the read-optimized view the dashboard consumes. Absent
// numbers default to zero and the dwell duration defaults to EmptyDwell.
type OverviewData struct {
	LiveOccupancy  Stat
	TodaysFootfall Stat
	AvgDwellTime   DwellStat
	OccupancyChart SeriesStat
	Demographics   DemographicsStat
	IsAnyLoading   bool
	HasAnyError    bool
}

// Overview composes the four analytics feeds. It holds no state of its
// own; snapshots read through to the underlying feeds.
type Overview struct {
	Footfall     *Feed[api.FootfallResult]
	DwellTime    *Feed[api.DwellTimeResult]
	Occupancy    *Feed[api.OccupancyResult]
	Demographics *Feed[api.DemographicsResult]
}

func NewOverview(client *api.Client, interval time.Duration) *Overview {
	return &Overview{
		Footfall: New(func(ctx context.Context) (*api.FootfallResult, error) {
			return client.Footfall(ctx, nil)
		}, interval),
		DwellTime: New(func(ctx context.Context) (*api.DwellTimeResult, error) {
			return client.DwellTime(ctx, nil)
		}, interval),
		Occupancy: New(func(ctx context.Context) (*api.OccupancyResult, error) {
			return client.Occupancy(ctx, nil)
		}, interval),
		Demographics: New(func(ctx context.Context) (*api.DemographicsResult, error) {
			return client.Demographics(ctx, nil)
		}, interval),
	}
}

func (o *Overview) Start() {
	o.Footfall.Start()
	o.DwellTime.Start()
	o.Occupancy.Start()
	o.Demographics.Start()
}

func (o *Overview) Stop() {
	o.Footfall.Stop()
	o.DwellTime.Stop()
	o.Occupancy.Stop()
	o.Demographics.Stop()
}

// OnChange registers one callback across all four feeds.
func (o *Overview) OnChange(fn func()) {
	o.Footfall.OnChange(fn)
	o.DwellTime.OnChange(fn)
	o.Occupancy.OnChange(fn)
	o.Demographics.OnChange(fn)
}

// RefetchAll fires all four refetches concurrently and returns when every
// one has completed. Individual failures land in each feed's own error
// field; nothing is raised here.
func (o *Overview) RefetchAll() {
	var wg sync.WaitGroup
	wg.Add(4)
	o.Footfall.refetch(wg.Done)
	o.DwellTime.refetch(wg.Done)
	o.Occupancy.refetch(wg.Done)
	o.Demographics.refetch(wg.Done)
	wg.Wait()
}

// UpdateLiveOccupancy splices a live-pushed value into the occupancy
// feed's current reading without a fetch. The next scheduled poll
// overwrites it wholesale; that inconsistency window is deliberate.
func (o *Overview) UpdateLiveOccupancy(value int) {
	o.Occupancy.Mutate(func(r *api.OccupancyResult) {
		v := value
		r.Current = &v
	})
}

// Snapshot builds the dashboard projection.
func (o *Overview) Snapshot() OverviewData {
	foot := o.Footfall.Snapshot()
	dwell := o.DwellTime.Snapshot()
	occ := o.Occupancy.Snapshot()
	demo := o.Demographics.Snapshot()

	var d OverviewData

	d.LiveOccupancy = Stat{Loading: occ.Loading, Error: api.UserMessage(occ.Err)}
	if occ.Data != nil {
		if occ.Data.Current != nil {
			d.LiveOccupancy.Value = *occ.Data.Current
		}
		d.LiveOccupancy.Comparison = deref(occ.Data.Comparison)
	}

	d.TodaysFootfall = Stat{Loading: foot.Loading, Error: api.UserMessage(foot.Err)}
	if foot.Data != nil {
		d.TodaysFootfall.Value = foot.Data.Footfall
		d.TodaysFootfall.Comparison = deref(foot.Data.Comparison)
	}

	d.AvgDwellTime = DwellStat{Value: EmptyDwell, Loading: dwell.Loading, Error: api.UserMessage(dwell.Err)}
	if dwell.Data != nil {
		d.AvgDwellTime.Value = FormatDwellTime(dwell.Data.AvgDwellMinutes * 60)
		d.AvgDwellTime.Comparison = deref(dwell.Data.Comparison)
	}

	d.OccupancyChart = SeriesStat{Loading: occ.Loading, Error: api.UserMessage(occ.Err)}
	if occ.Data != nil {
		d.OccupancyChart.Data = occ.Data.Data
	}

	d.Demographics = DemographicsStat{Loading: demo.Loading, Error: api.UserMessage(demo.Err)}
	if demo.Data != nil {
		d.Demographics.Pie = demo.Data.Pie
		d.Demographics.Timeseries = demo.Data.Timeseries
	}

	d.IsAnyLoading = foot.Loading || dwell.Loading || occ.Loading || demo.Loading
	d.HasAnyError = foot.Err != nil || dwell.Err != nil || occ.Err != nil || demo.Err != nil
	return d
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
