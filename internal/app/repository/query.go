package repository

import (
	"strings"

	"gorm.io/gorm"
)

// likePattern builds a lower-cased contains pattern with LIKE wildcards escaped.
func likePattern(search string) string {
	s := strings.ToLower(strings.TrimSpace(search))
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}

// whereContains adds a case-insensitive substring match on any of columns.
func whereContains(query *gorm.DB, search string, columns ...string) *gorm.DB {
	if strings.TrimSpace(search) == "" || len(columns) == 0 {
		return query
	}
	conds := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	pattern := likePattern(search)
	for _, col := range columns {
		conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}
