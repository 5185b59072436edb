package core

import (
	"fmt"
	"time"
)

// dateFields lists the keys whose string values are coerced to time.Time.
var dateFields = map[string]struct{}{
	"operationCreated": {},
	"operationExpires": {},
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func IsDateField(key string) bool {
	_, ok := dateFields[key]
	return ok
}

// NormalizeDates walks a decoded JSON tree in place and replaces the value of
// every date field with the parsed time. Other values are left untouched.
func NormalizeDates(tree any) error {
	return normalizeDates(tree, "")
}

func normalizeDates(node any, path string) error {
	switch typed := node.(type) {
	case map[string]any:
		for key, value := range typed {
			fieldPath := joinPath(path, key)
			if IsDateField(key) {
				parsed, err := coerceDate(value)
				if err != nil {
					return fmt.Errorf("core: %s: %w", fieldPath, err)
				}
				typed[key] = parsed
				continue
			}
			if err := normalizeDates(value, fieldPath); err != nil {
				return err
			}
		}
	case []any:
		for index, value := range typed {
			if err := normalizeDates(value, fmt.Sprintf("%s[%d]", path, index)); err != nil {
				return err
			}
		}
	}
	return nil
}

func coerceDate(value any) (any, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return typed, nil
	case string:
		return ParseDate(typed)
	default:
		return nil, fmt.Errorf("expected ISO-8601 date string, got %T", value)
	}
}

// ParseDate accepts RFC 3339 timestamps plus the offset and date-only forms
// the backend emits. Values without an offset are read as UTC.
func ParseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("invalid date %q: %w", value, lastErr)
}

func joinPath(prefix string, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
