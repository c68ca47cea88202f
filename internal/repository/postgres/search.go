package postgres

import (
	"fmt"
	"strings"
)

// searchFilter matches a free-text term case-insensitively against a fixed set
// of columns. The term is always bound as a parameter.
type searchFilter struct {
	columns []string
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// pattern wraps term for a substring ILIKE match, escaping LIKE metacharacters.
func (f searchFilter) pattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// where returns a WHERE clause (with leading "WHERE ") and its arguments, using
// placeholder $argPos. An empty term yields no clause.
func (f searchFilter) where(term string, argPos int) (string, []any) {
	term = strings.TrimSpace(term)
	if term == "" || len(f.columns) == 0 {
		return "", nil
	}
	parts := make([]string, len(f.columns))
	for i, col := range f.columns {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, argPos)
	}
	return "WHERE (" + strings.Join(parts, " OR ") + ")", []any{f.pattern(term)}
}
