package xquery

import (
	"net/url"
	"strings"

	"github.com/topi314/collective-tools/internal/xstrconv"
)

// ParseBool reads a boolean query parameter, falling back to defaultValue
// when the parameter is missing or malformed.
func ParseBool(query url.Values, name string, defaultValue bool) bool {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	parsed, err := xstrconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// ParseStringSlice reads a comma separated query parameter. Empty parts are
// skipped.
func ParseStringSlice(query url.Values, name string, defaultValue []string) []string {
	value := query.Get(name)
	if value == "" {
		return defaultValue
	}

	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		result = append(result, part)
	}
	return result
}
