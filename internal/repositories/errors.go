package repositories

import (
	"errors"
	"fmt"
	"strings"

	"storerating/internal/apperr"

	"gorm.io/gorm"
)

// classify turns translated gorm errors into domain errors. Anything it does
// not recognise is wrapped with op and left for the caller to treat as internal.
func classify(err error, op string, conflictMsg, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(conflictMsg, err)
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.NotFound(notFoundMsg)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// whereContains adds a case-insensitive substring filter on column when
// value is non-empty. Both sides are folded by the database's LOWER so they
// agree on every letter it knows. column must come from code, never from input.
func whereContains(q *gorm.DB, column, value string) *gorm.DB {
	if value == "" {
		return q
	}
	pattern := "%" + likeEscaper.Replace(value) + "%"
	return q.Where("LOWER("+column+") LIKE LOWER(?) ESCAPE '\\'", pattern)
}

// orderClause resolves a client sort key against an allow-list of SQL
// expressions, falling back to fallback, and appends the id tiebreaker.
func orderClause(sortBy, order string, columns map[string]string, fallback, idColumn string) string {
	expr, ok := columns[sortBy]
	if !ok {
		expr = columns[fallback]
	}
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, %s ASC", expr, dir, idColumn)
}
