package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/ospano/occuview/internal/api"
)

func ToCSV(records []api.EntryRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Name", "Gender", "Entry", "Exit", "Dwell"}); err != nil {
		return err
	}

	for _, r := range records {
		exitStr := ""
		if r.ExitTime != nil {
			exitStr = *r.ExitTime
		}

		row := []string{
			r.ID,
			r.Name,
			r.Gender,
			r.EntryTime,
			exitStr,
			dwellOf(r),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// dwellOf computes the visit duration from the record's timestamps. Open
// visits and unparseable timestamps render as "open".
func dwellOf(r api.EntryRecord) string {
	if r.ExitTime == nil {
		return "open"
	}
	entry, err := time.Parse(time.RFC3339, r.EntryTime)
	if err != nil {
		return "open"
	}
	exit, err := time.Parse(time.RFC3339, *r.ExitTime)
	if err != nil {
		return "open"
	}
	secs := int64(exit.Sub(entry).Seconds())
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
