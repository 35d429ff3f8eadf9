package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Tags []string

// Normalise never returns nil so the column and the JSON output are always an array.
func (t Tags) Normalise() Tags {
	if t == nil {
		return Tags{}
	}
	return t
}

func (t Tags) Value() (driver.Value, error) {
	b, err := json.Marshal(t.Normalise())
	if err != nil {
		return nil, fmt.Errorf("marshal Tags: %w", err)
	}
	return b, nil
}

func (t *Tags) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*t = Tags{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("Tags.Scan: expected []byte, got %T", src)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal Tags: %w", err)
	}
	*t = Tags(out).Normalise()
	return nil
}

func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal([]string(t.Normalise()))
}

// UsageSummary aggregates the active images of an org unit.
type UsageSummary struct {
	TotalImages      int64      `json:"totalImages"`
	TotalUsage       int64      `json:"totalUsage"`
	AvgUsage         float64    `json:"avgUsage"`
	MostRecentInsert *time.Time `json:"mostRecentInsert"`
	OldestInsert     *time.Time `json:"oldestInsert"`
}

type TopImage struct {
	ID             string    `json:"id"`
	MayoImageTitle string    `json:"mayoImageTitle"`
	UsageCount     int       `json:"usageCount"`
	LastUsed       time.Time `json:"lastUsed"`
}

type UsageStats struct {
	Summary   UsageSummary `json:"summary"`
	TopImages []TopImage   `json:"topImages"`
}
