package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ResourceTags is the fixed vocabulary a resource may be tagged with.
var ResourceTags = []string{
	"Accessibility",
	"AI",
	"Animations",
	"API",
	"Authentication",
	"Backgrounds",
	"Boilerplate",
	"Books",
	"Browser Extensions",
	"Cheatsheets",
	"CMS",
	"Color",
	"Components",
	"Data Visualisation",
	"Database",
	"CSS",
}

// IsValidTag reports whether tag is part of the vocabulary (exact match).
func IsValidTag(tag string) bool {
	for _, t := range ResourceTags {
		if t == tag {
			return true
		}
	}
	return false
}

// TagList is a resource's ordered tag collection, persisted as a JSON column
// so the same schema works on Postgres and the sqlite test driver.
type TagList []string

// Scan implements sql.Scanner.
func (t *TagList) Scan(value interface{}) error {
	if value == nil {
		*t = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported tag column type %T", value)
	}
}

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Contains reports whether the list contains the given tag (exact match).
func (t TagList) Contains(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}

// ParseTagPayload normalizes the tag field of a create/update request.
// Clients send either an array of tag names or a single comma-separated
// string; both forms collapse into a list of trimmed, non-empty entries.
// The rest of the system only ever sees the list form.
func ParseTagPayload(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return trimTags(list), nil
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return trimTags(strings.Split(single, ",")), nil
	}

	return nil, NewValidationError("tag must be a string or an array of strings")
}

func trimTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
