package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_Normalize(t *testing.T) {
	q := ListQuery{Page: 0, Limit: 500, Search: "  go  "}.Normalize()

	assert.Equal(t, DefaultPage, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Equal(t, "go", q.Search)
	assert.Equal(t, 0, q.Offset())

	q = ListQuery{Page: 3, Limit: 10}.Normalize()
	assert.Equal(t, 20, q.Offset())
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]bool{"id": true, "title": true}

	c := orderClause("articles", allowed, ListQuery{OrderBy: "articles.title", Desc: true})
	assert.Equal(t, "articles", c.Column.Table)
	assert.Equal(t, "title", c.Column.Name)
	assert.True(t, c.Desc)

	c = orderClause("articles", allowed, ListQuery{OrderBy: "users.password"})
	assert.Equal(t, "id", c.Column.Name)
}
