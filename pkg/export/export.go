package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/focusplan/focusplan/core/model"
)

// WriteJSON writes the schedule slots to w in JSON format.
func WriteJSON(w io.Writer, slots []model.Slot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(slots)
}

// WriteCSV writes the schedule slots to w in CSV format, one row per
// work session.
func WriteCSV(w io.Writer, slots []model.Slot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"slot_id", "task_id", "start", "end", "minutes", "kind", "done"}); err != nil {
		return err
	}
	for _, s := range slots {
		rec := []string{
			s.ID,
			s.TaskID,
			s.Start.Format(time.RFC3339),
			s.End.Format(time.RFC3339),
			strconv.Itoa(s.Minutes()),
			string(s.Kind),
			strconv.FormatBool(s.Done),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
