package utils

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type Time struct {
	time.Time
}

func (t Time) MarshalJSON() ([]byte, error) {
	formatted := t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
	return []byte(`"` + formatted + `"`), nil
}

func (t *Time) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func (t Time) Value() (driver.Value, error) {
	return t.Time, nil
}

func (t *Time) Scan(value any) error {
	switch typed := value.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = typed
		return nil
	case string:
		return t.parse(typed)
	case []byte:
		return t.parse(string(typed))
	default:
		return errors.New("type assertion to time.Time, string or []byte failed")
	}
}

// sqlite hands timestamps back as text depending on how the row was written.
var _timeScanLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

func (t *Time) parse(value string) error {
	for _, layout := range _timeScanLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return errors.New("unsupported time format: " + value)
}
