package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// String returns the first non-empty scalar under keys, as a string.
func (r Record) String(keys ...string) string {
	for _, k := range keys {
		if s, ok := Stringify(r[k]); ok && s != "" {
			return s
		}
	}
	return ""
}

// Object returns the first nested object under keys.
func (r Record) Object(keys ...string) Record {
	for _, k := range keys {
		if obj, ok := asRecord(r[k]); ok {
			return obj
		}
	}
	return nil
}

// Time returns the first value under keys that parses as a time.
func (r Record) Time(keys ...string) (time.Time, bool) {
	for _, k := range keys {
		if t, ok := ParseTime(r[k]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Int returns the first integer-valued field under keys.
func (r Record) Int(keys ...string) (int, bool) {
	for _, k := range keys {
		switch v := r[k].(type) {
		case json.Number:
			if n, err := v.Int64(); err == nil {
				return int(n), true
			}
			if f, err := v.Float64(); err == nil && f == math.Trunc(f) {
				return int(f), true
			}
		case float64:
			if v == math.Trunc(v) {
				return int(v), true
			}
		case int:
			return v, true
		case int64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// Bool interprets common truthy encodings (true, 1, "1", "true", "yes").
func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case json.Number:
		return v.String() != "0"
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "on":
			return true
		}
	}
	return false
}

// Stringify converts a scalar JSON value to its trimmed string form. Objects,
// arrays and nil report false.
func Stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

// ParseTime parses the date formats emitted by the backend. Values without a
// zone are taken as UTC.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
