package models

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestScheduleMapOrder(t *testing.T) {
	m := NewScheduleMap()
	m.Reset("7")
	m.Append("7", "10")
	m.Reset("6")
	m.Append("6", "05")
	m.Append("6", "20")

	got := m.Hours()
	if len(got) != 2 || got[0] != "7" || got[1] != "6" {
		t.Fatalf("hours not in insertion order: %v", got)
	}

	// a repeated hour is cleared but keeps its slot
	m.Reset("7")
	if mins, _ := m.Minutes("7"); len(mins) != 0 {
		t.Fatalf("reset should clear minutes, got %v", mins)
	}
	if got := m.Hours(); got[0] != "7" || m.Len() != 2 {
		t.Fatalf("reset moved key: %v", got)
	}
}

func TestScheduleMapJSONKeepsOrder(t *testing.T) {
	m := NewScheduleMap()
	m.Reset("23")
	m.Append("23", "40")
	m.Reset("5")
	m.Reset("10")
	m.Append("10", "00")
	m.Append("10", "30")

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"23":["40"],"5":[],"10":["00","30"]}`
	if string(b) != want {
		t.Fatalf("json = %s, want %s", b, want)
	}

	var back ScheduleMap
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(m) {
		t.Fatalf("decoded map differs: %v", back.Hours())
	}
}

func TestScheduleMapUnmarshalJSONRejectsArray(t *testing.T) {
	var m ScheduleMap
	if err := json.Unmarshal([]byte(`["6"]`), &m); err == nil {
		t.Fatal("expected error for non-object input")
	}
}

func TestTimetableBSONKeepsScheduleOrder(t *testing.T) {
	a := NewScheduleMap()
	a.Reset("9")
	a.Append("9", "15")
	a.Reset("8")
	tt := NewTwoWayTimetable("12", DayRegular, "12A", "12B", a, nil)

	raw, err := bson.Marshal(tt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Timetable
	if err := bson.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Variant != TwoWay || back.LineA != "12A" || back.Schedule != nil {
		t.Fatalf("unexpected record: %+v", back)
	}
	if !back.ScheduleA.Equal(a) {
		t.Fatalf("scheduleA order lost: %v", back.ScheduleA.Hours())
	}
	if back.ScheduleB == nil || back.ScheduleB.Len() != 0 {
		t.Fatalf("scheduleB should be empty, got %v", back.ScheduleB)
	}
}

func TestParseDayCode(t *testing.T) {
	if got := ParseDayCode(" s "); got != DaySaturday {
		t.Fatalf("ParseDayCode = %q", got)
	}
}
