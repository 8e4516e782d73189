// Package listnorm turns the loosely typed list inputs accepted for event tracks,
// timelines and organizers into clean string lists.
package listnorm

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
)

var separators = regexp.MustCompile(`\r?\n|,`)

// Normalize converts a free-form string into a list.
// A JSON array string is decoded; anything else is split on newlines or commas.
func Normalize(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return fromRaw(items)
	}

	return clean(separators.Split(raw, -1))
}

// FromStrings trims each entry and drops empties
func FromStrings(items []string) []string {
	return clean(items)
}

func fromRaw(items []json.RawMessage) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			// non-string elements keep their literal form
			s = string(bytes.TrimSpace(item))
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FlexibleList is a request field that accepts either a JSON array or a string.
// Present is false when the field was absent (or null) in the payload.
type FlexibleList struct {
	Values  []string
	Present bool
}

// UnmarshalJSON implements json.Unmarshaler
func (l *FlexibleList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*l = FlexibleList{}

	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		l.Values, l.Present = fromRaw(items), true
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		l.Values, l.Present = Normalize(s), true
	}
	// null, numbers and objects leave the list absent
	return nil
}

// MarshalJSON implements json.Marshaler
func (l FlexibleList) MarshalJSON() ([]byte, error) {
	if !l.Present {
		return []byte("null"), nil
	}
	return json.Marshal(l.Values)
}

// List returns nil when the field was absent, otherwise a non-nil slice
func (l FlexibleList) List() []string {
	if !l.Present {
		return nil
	}
	if l.Values == nil {
		return []string{}
	}
	return l.Values
}
