package models

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// EpochMillis is a request-side timestamp. It accepts a JSON number of epoch
// milliseconds, a numeric string, or an RFC 3339 string.
type EpochMillis int64

var errBadTime = errors.New("time must be epoch milliseconds or RFC 3339")

// UnmarshalJSON implements json.Unmarshaler.
func (e *EpochMillis) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == "" {
		*e = 0
		return nil
	}
	if s[0] != '"' {
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return errBadTime
		}
		*e = EpochMillis(int64(f))
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return errBadTime
	}
	str = strings.TrimSpace(str)
	if str == "" {
		*e = 0
		return nil
	}
	if n, err := strconv.ParseInt(str, 10, 64); err == nil {
		*e = EpochMillis(n)
		return nil
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		return errBadTime
	}
	*e = EpochMillis(t.UnixMilli())
	return nil
}
