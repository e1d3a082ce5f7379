package utils

import (
	"bytes"
	"encoding/json"
	"time"
)

// Date is a time.Time that decodes from any layout ParseDate accepts.
// It encodes as RFC 3339.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// UnmarshalJSON leaves the value untouched for null.
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
