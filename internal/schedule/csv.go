package schedule

import (
	"bytes"
	"encoding/csv"
	"strconv"
)

// FormatCSV converts a timetable to the Day,Period,Subject,Teacher layout
// the export endpoint produces. Days iterate in display order.
func FormatCSV(result *Result) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Day", "Period", "Subject", "Teacher"}); err != nil {
		return "", err
	}
	for _, day := range result.Days {
		for _, s := range result.Timetable[day] {
			record := []string{day, strconv.Itoa(s.Period), s.Subject, s.Teacher}
			if err := w.Write(record); err != nil {
				return "", err
			}
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
