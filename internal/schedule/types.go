// Package schedule defines the timetable wire types and the grid view model.
package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// SessionBreak is the wire value marking a break slot.
const SessionBreak = "Break"

// Session is one scheduled (or break) unit occupying a period on a day.
type Session struct {
	Period  int    `json:"period"`
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Type    string `json:"type,omitempty"`
}

// IsBreak reports whether the session is a break slot.
func (s Session) IsBreak() bool {
	return s.Type == SessionBreak
}

// Request carries the raw form input for a generation call.
type Request struct {
	Subjects      string `json:"subjects"`
	Teachers      string `json:"teachers"`
	PeriodsPerDay int    `json:"periods_per_day"`
}

// Meta carries optional generation metadata.
type Meta struct {
	TeacherLoad map[string]int `json:"teacher_load"`
	Violations  []string       `json:"violations"`
}

// Result is the payload returned by the generation service.
type Result struct {
	Timetable         map[string][]Session `json:"timetable"`
	TimeSlots         []string             `json:"time_slots"`
	Days              []string             `json:"days"`
	SubjectTeacherMap SubjectTeacherMap    `json:"subject_teacher_map"`
	Meta              *Meta                `json:"meta,omitempty"`
}

// ErrMalformed marks a generation result missing required fields.
var ErrMalformed = errors.New("malformed generation result")

// Validate checks the fields the renderer cannot work without.
func (r *Result) Validate() error {
	if len(r.Days) == 0 {
		return fmt.Errorf("%w: missing days", ErrMalformed)
	}
	if len(r.TimeSlots) == 0 {
		return fmt.Errorf("%w: missing time slots", ErrMalformed)
	}
	if r.Timetable == nil {
		return fmt.Errorf("%w: missing timetable", ErrMalformed)
	}
	return nil
}

// SubjectTeacherPair is one subject→teacher assignment.
type SubjectTeacherPair struct {
	Subject string
	Teacher string
}

// SubjectTeacherMap preserves the insertion order of the JSON object the
// service sends; Go maps would lose it and the summary grid follows it.
type SubjectTeacherMap struct {
	pairs []SubjectTeacherPair
}

// NewSubjectTeacherMap builds an ordered map from the given pairs.
func NewSubjectTeacherMap(pairs ...SubjectTeacherPair) SubjectTeacherMap {
	return SubjectTeacherMap{pairs: pairs}
}

// Pairs returns the assignments in insertion order.
func (m SubjectTeacherMap) Pairs() []SubjectTeacherPair {
	return m.pairs
}

// Len returns the number of assignments.
func (m SubjectTeacherMap) Len() int {
	return len(m.pairs)
}

// UnmarshalJSON decodes the object token by token to keep key order.
func (m *SubjectTeacherMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("subject_teacher_map: %w", err)
	}
	if tok == nil {
		m.pairs = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("subject_teacher_map: expected object, got %v", tok)
	}
	var pairs []SubjectTeacherPair
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("subject_teacher_map: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("subject_teacher_map: non-string key %v", keyTok)
		}
		var teacher string
		if err := dec.Decode(&teacher); err != nil {
			return fmt.Errorf("subject_teacher_map: value for %q: %w", key, err)
		}
		pairs = append(pairs, SubjectTeacherPair{Subject: key, Teacher: teacher})
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("subject_teacher_map: %w", err)
	}
	m.pairs = pairs
	return nil
}

// MarshalJSON writes the object back in insertion order.
func (m SubjectTeacherMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, pair := range m.pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(pair.Subject)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(pair.Teacher)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// HistoryEntry is one past generation attempt.
type HistoryEntry struct {
	Timestamp Timestamp `json:"timestamp"`
	Subjects  int       `json:"subjects"`
	Teachers  int       `json:"teachers"`
	Status    string    `json:"status"`
}

// StatusSuccess is the wire value for a successful attempt.
const StatusSuccess = "success"

// Timestamp accepts either an RFC 3339 string or Unix seconds; the service
// has stored both representations across versions.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parse timestamp: %w", err)
		}
		t.Time = parsed
		return nil
	}
	var secs float64
	if err := json.Unmarshal(data, &secs); err != nil {
		return fmt.Errorf("parse timestamp: %w", err)
	}
	sec, frac := math.Modf(secs)
	t.Time = time.Unix(int64(sec), int64(frac*1e9))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339))
}
