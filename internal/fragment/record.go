package fragment

import (
	"fmt"
	"strconv"
)

// Record is one decoded configuration fragment: a small set of keys the
// consumer requires plus an open-ended bag of additional fields. Merging
// operates at the bag level with later-layer-wins semantics.
type Record map[string]any

// StringField returns the value under key rendered as a string. Fragments
// are loosely typed, so an id may decode as an int in one encoding and a
// string in another; both render the same way.
func (r Record) StringField(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case float64:
		// JSON decodes all numbers as float64; ids are whole numbers.
		return strconv.FormatInt(int64(s), 10), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Overlay merges over onto base into a fresh record. Keys present in both
// take over's value.
func Overlay(base, over Record) Record {
	out := make(Record, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
