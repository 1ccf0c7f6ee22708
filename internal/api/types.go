package api

// User is the authenticated profile returned by the backend.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Query is the common analytics request body. FromUTC/ToUTC are epoch
// milliseconds.
type Query struct {
	SiteID  string `json:"siteId"`
	FromUTC int64  `json:"fromUtc"`
	ToUTC   int64  `json:"toUtc"`
}

type FootfallResult struct {
	Footfall   int      `json:"footfall"`
	Comparison *float64 `json:"comparison,omitempty"`
}

type DwellTimeResult struct {
	AvgDwellMinutes float64  `json:"avgDwellMinutes"`
	DwellRecords    int      `json:"dwellRecords"`
	Comparison      *float64 `json:"comparison,omitempty"`
}

type OccupancyPoint struct {
	Timestamp string `json:"timestamp"`
	Occupancy int    `json:"occupancy"`
}

// OccupancyResult is a chronological series plus an optional live value.
type OccupancyResult struct {
	Data       []OccupancyPoint `json:"data"`
	Current    *int             `json:"current,omitempty"`
	Comparison *float64         `json:"comparison,omitempty"`
}

type DemographicsPoint struct {
	Timestamp string `json:"timestamp"`
	Male      int    `json:"male"`
	Female    int    `json:"female"`
}

type DemographicsSplit struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

type DemographicsResult struct {
	Timeseries []DemographicsPoint `json:"timeseries"`
	Pie        DemographicsSplit   `json:"pie"`
}

// EntryRecord is one visit. A nil ExitTime means the person is still inside.
type EntryRecord struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Gender    string  `json:"gender"`
	EntryTime string  `json:"entryTime"`
	ExitTime  *string `json:"exitTime"`
}

type EntriesPage struct {
	TotalRecords int           `json:"totalRecords"`
	PageNumber   int           `json:"pageNumber"`
	PageSize     int           `json:"pageSize"`
	TotalPages   int           `json:"totalPages"`
	Records      []EntryRecord `json:"records"`
}

// EntriesQuery is the entry-exit request body. Search and Gender are
// omitted from the payload entirely when empty.
type EntriesQuery struct {
	SiteID  string `json:"siteId"`
	FromUTC int64  `json:"fromUtc"`
	ToUTC   int64  `json:"toUtc"`
	Page    int    `json:"page"`
	Limit   int    `json:"limit"`
	Search  string `json:"search,omitempty"`
	Gender  string `json:"gender,omitempty"`
}

type SimulationStatus struct {
	Running bool   `json:"running"`
	Message string `json:"message,omitempty"`
}
