package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ospano/occuview/internal/api"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	Count      int         `json:"count"`
	Records    []jsonEntry `json:"records"`
}

type jsonEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	EntryTime string `json:"entry_time"`
	ExitTime  string `json:"exit_time,omitempty"`
	Dwell     string `json:"dwell,omitempty"`
	Open      bool   `json:"open"`
}

func ToJSON(records []api.EntryRecord, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(records),
	}

	for _, r := range records {
		entry := jsonEntry{
			ID:        r.ID,
			Name:      r.Name,
			Gender:    r.Gender,
			EntryTime: r.EntryTime,
			Open:      r.ExitTime == nil,
		}
		if r.ExitTime != nil {
			entry.ExitTime = *r.ExitTime
			entry.Dwell = dwellOf(r)
		}
		out.Records = append(out.Records, entry)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
