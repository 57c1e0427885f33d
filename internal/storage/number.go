package storage

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Float is a float64 that tolerates the junk half-filled planning forms
// send: "", "abc", a quoted "12.5" or null all decode to a usable number
// instead of failing the whole request. Malformed input degrades to zero.
type Float float64

func (f *Float) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = Float(v)
	return nil
}

func (f Float) Value() (driver.Value, error) {
	return float64(f), nil
}

func (f *Float) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*f = 0
	case float64:
		*f = Float(v)
	case int64:
		*f = Float(v)
	case []byte:
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = Float(parsed)
	default:
		return fmt.Errorf("storage.Float: cannot scan %T", src)
	}
	return nil
}
