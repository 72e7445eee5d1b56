package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL optionally appends disable_prepared_binary_result=yes, a
// lib/pq workaround needed behind poolers that break binary result formats.
// An explicit value in the URL wins.
func normalizeDBURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	query := parsed.Query()
	if query.Has("disable_prepared_binary_result") {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()

	return parsed.String()
}

// dbNameFromURL extracts the database name for the db.name span attribute.
// Handles both postgres:// URLs and key=value DSNs; returns "" when it
// cannot tell.
func dbNameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if parsed, err := url.Parse(trimmed); err == nil && parsed != nil && parsed.Scheme != "" {
		if name := strings.Trim(parsed.Path, "/ "); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		value, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name := strings.Trim(value, `"' `); name != "" {
			return name
		}
	}

	return ""
}
