package schedule

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSubjectTeacherMapKeepsOrder(t *testing.T) {
	payload := `{"Zoology":"Z","Math":"A","Art":"B"}`
	var m SubjectTeacherMap
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := []string{"Zoology", "Math", "Art"}
	pairs := m.Pairs()
	if len(pairs) != len(want) {
		t.Fatalf("expected %d pairs, got %d", len(want), len(pairs))
	}
	for i, subject := range want {
		if pairs[i].Subject != subject {
			t.Fatalf("pair %d: want subject %q, got %q", i, subject, pairs[i].Subject)
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != payload {
		t.Fatalf("round trip lost order: %s", out)
	}
}

func TestSubjectTeacherMapNull(t *testing.T) {
	var m SubjectTeacherMap
	if err := json.Unmarshal([]byte(`null`), &m); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("expected empty map, got %d pairs", m.Len())
	}
}

func TestSubjectTeacherMapRejectsNonObject(t *testing.T) {
	var m SubjectTeacherMap
	if err := json.Unmarshal([]byte(`["Math"]`), &m); err == nil {
		t.Fatalf("expected error for non-object payload")
	}
}

func TestResultDecodesServicePayload(t *testing.T) {
	payload := `{
		"timetable": {"Monday": [{"period": 1, "subject": "Math", "teacher": "Mr. Smith"},
			{"period": 4, "subject": "", "teacher": "", "type": "Break"}]},
		"time_slots": ["Period 1 (9:00 AM)"],
		"days": ["Monday"],
		"subject_teacher_map": {"Math": "Mr. Smith"},
		"meta": {"teacher_load": {"Mr. Smith": 5}, "violations": []}
	}`
	var result Result
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := result.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	sessions := result.Timetable["Monday"]
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].IsBreak() {
		t.Fatalf("class session reported as break")
	}
	if !sessions[1].IsBreak() {
		t.Fatalf("break session not recognized")
	}
	if result.Meta.TeacherLoad["Mr. Smith"] != 5 {
		t.Fatalf("unexpected teacher load: %v", result.Meta.TeacherLoad)
	}
}

func TestTimestampAcceptsBothShapes(t *testing.T) {
	var entry HistoryEntry
	if err := json.Unmarshal([]byte(`{"timestamp": "2026-03-01T09:30:00Z", "subjects": 4, "teachers": 3, "status": "success"}`), &entry); err != nil {
		t.Fatalf("unmarshal string timestamp: %v", err)
	}
	if entry.Timestamp.Year() != 2026 || entry.Timestamp.Minute() != 30 {
		t.Fatalf("unexpected parsed time: %v", entry.Timestamp)
	}
	if entry.Status != StatusSuccess {
		t.Fatalf("unexpected status: %q", entry.Status)
	}

	if err := json.Unmarshal([]byte(`{"timestamp": 1767225600}`), &entry); err != nil {
		t.Fatalf("unmarshal unix timestamp: %v", err)
	}
	if !entry.Timestamp.Equal(time.Unix(1767225600, 0)) {
		t.Fatalf("unexpected unix time: %v", entry.Timestamp)
	}
}
