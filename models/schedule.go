// File: models/schedule.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ScheduleMap maps an hour key to the minute suffixes departing in that hour.
// Keys keep the order in which they were first set.
type ScheduleMap struct {
	keys    []string
	minutes map[string][]string
}

func NewScheduleMap() *ScheduleMap {
	return &ScheduleMap{minutes: make(map[string][]string)}
}

// Reset creates the entry for hour with an empty minute list. A repeated hour
// is cleared in place and keeps its original position.
func (m *ScheduleMap) Reset(hour string) {
	if m.minutes == nil {
		m.minutes = make(map[string][]string)
	}
	if _, ok := m.minutes[hour]; !ok {
		m.keys = append(m.keys, hour)
	}
	m.minutes[hour] = []string{}
}

// Append adds a minute to an existing hour. Unknown hours are created first.
func (m *ScheduleMap) Append(hour, minute string) {
	if _, ok := m.minutes[hour]; !ok {
		m.Reset(hour)
	}
	m.minutes[hour] = append(m.minutes[hour], minute)
}

func (m *ScheduleMap) Hours() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *ScheduleMap) Minutes(hour string) ([]string, bool) {
	if m == nil {
		return nil, false
	}
	mins, ok := m.minutes[hour]
	if !ok {
		return nil, false
	}
	out := make([]string, len(mins))
	copy(out, mins)
	return out, true
}

func (m *ScheduleMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Equal reports whether both maps hold the same hours, in the same order, with the same minutes.
func (m *ScheduleMap) Equal(o *ScheduleMap) bool {
	if m.Len() != o.Len() {
		return false
	}
	if m.Len() == 0 {
		return true
	}
	for i, h := range m.keys {
		if o.keys[i] != h {
			return false
		}
		a, b := m.minutes[h], o.minutes[h]
		if len(a) != len(b) {
			return false
		}
		for j := range a {
			if a[j] != b[j] {
				return false
			}
		}
	}
	return true
}

func (m *ScheduleMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, h := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(h)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.minutes[h])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *ScheduleMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("schedule: expected object, got %v", tok)
	}
	*m = ScheduleMap{minutes: make(map[string][]string)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		hour, ok := tok.(string)
		if !ok {
			return fmt.Errorf("schedule: expected hour key, got %v", tok)
		}
		var mins []string
		if err := dec.Decode(&mins); err != nil {
			return fmt.Errorf("schedule: hour %q: %w", hour, err)
		}
		m.Reset(hour)
		m.minutes[hour] = append(m.minutes[hour], mins...)
	}
	_, err = dec.Token()
	return err
}

// MarshalBSON stores the schedule as a document whose fields follow hour order.
func (m *ScheduleMap) MarshalBSON() ([]byte, error) {
	doc := make(bson.D, 0, len(m.keys))
	for _, h := range m.keys {
		doc = append(doc, bson.E{Key: h, Value: m.minutes[h]})
	}
	return bson.Marshal(doc)
}

func (m *ScheduleMap) UnmarshalBSON(data []byte) error {
	elems, err := bson.Raw(data).Elements()
	if err != nil {
		return err
	}
	*m = ScheduleMap{minutes: make(map[string][]string)}
	for _, e := range elems {
		var mins []string
		if err := e.Value().Unmarshal(&mins); err != nil {
			return fmt.Errorf("schedule: hour %q: %w", e.Key(), err)
		}
		m.Reset(e.Key())
		m.minutes[e.Key()] = append(m.minutes[e.Key()], mins...)
	}
	return nil
}
