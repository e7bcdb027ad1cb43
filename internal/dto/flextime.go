package dto

import (
	"encoding/json"
	"fmt"
	"time"
)

// FlexTime accepts timestamps in either of the two shapes the historical data
// carries: an RFC3339 string or a {"seconds": ..., "nanos": ...} object.
// Whatever arrives is normalized to a single time.Time at the DTO boundary;
// services only ever see the canonical representation.
type FlexTime struct {
	time.Time
}

type secondsNanos struct {
	Seconds int64 `json:"seconds"`
	Nanos   int64 `json:"nanos"`
}

// UnmarshalJSON parses both accepted timestamp shapes.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, perr := time.Parse(time.RFC3339Nano, s)
		if perr != nil {
			parsed, perr = time.Parse(time.RFC3339, s)
		}
		if perr != nil {
			return fmt.Errorf("invalid timestamp string %q: %w", s, perr)
		}
		t.Time = parsed.UTC()
		return nil
	}

	var sn secondsNanos
	if err := json.Unmarshal(data, &sn); err != nil {
		return fmt.Errorf("timestamp must be an RFC3339 string or a seconds/nanos object: %w", err)
	}
	t.Time = time.Unix(sn.Seconds, sn.Nanos).UTC()
	return nil
}

// MarshalJSON always emits the canonical RFC3339 shape.
func (t FlexTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// TimePtr returns a *time.Time, or nil for the zero value.
func (t *FlexTime) TimePtr() *time.Time {
	if t == nil || t.Time.IsZero() {
		return nil
	}
	tt := t.Time
	return &tt
}
