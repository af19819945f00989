package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery carries the page, sort and search parameters shared by every list endpoint.
type ListQuery struct {
	Page    int
	Limit   int
	OrderBy string // column, optionally table qualified
	Desc    bool
	Search  string
}

// Normalize clamps the page and limit into range.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// orderClause resolves q.OrderBy against the allowed columns of table.
// Unknown columns fall back to the table's id so caller input never reaches SQL.
func orderClause(table string, allowed map[string]bool, q ListQuery) clause.OrderByColumn {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(q.OrderBy)), table+".")
	if !allowed[name] {
		name = "id"
	}
	return clause.OrderByColumn{
		Column: clause.Column{Table: table, Name: name},
		Desc:   q.Desc,
	}
}

// searchScope adds a case-insensitive substring match OR-combined over columns.
func searchScope(term string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, col := range columns {
			// LOWER(..) LIKE keeps the match portable across postgres, mysql and sqlite
			clauses = append(clauses, "LOWER(COALESCE("+col+", '')) LIKE ?")
			args = append(args, pattern)
		}
		return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
}
