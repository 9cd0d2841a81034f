package repository

import "strings"

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// searchPattern lowercases and wraps a term for LIKE matching against LOWER(column).
func searchPattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
