package app

import "strings"

// maxTracedQueryLength bounds the db.statement attribute so multi-kilobyte
// inserts do not bloat exported spans.
const maxTracedQueryLength = 512

func formatDBQueryForTrace(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}

	normalized := strings.Join(fields, " ")
	if len(normalized) > maxTracedQueryLength {
		return normalized[:maxTracedQueryLength] + "..."
	}

	return normalized
}
