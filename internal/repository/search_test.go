package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhereClauseEmptyTerm(t *testing.T) {
	clause, args := propertySearch.whereClause("", 1)
	assert.Empty(t, clause)
	assert.Nil(t, args)
}

func TestWhereClauseTextColumns(t *testing.T) {
	clause, args := propertySearch.whereClause("lake", 1)

	assert.Equal(t, " WHERE (nickname ILIKE $1 OR city ILIKE $2 OR state ILIKE $3)", clause)
	assert.Equal(t, []interface{}{"%lake%", "%lake%", "%lake%"}, args)
}

func TestWhereClauseDateColumns(t *testing.T) {
	clause, args := eventSearch.whereClause("December", 1)

	assert.Equal(t,
		" WHERE (event_title ILIKE $1 OR TO_CHAR(start_time, 'FMDay, FMMonth DD, YYYY') ILIKE $2)",
		clause)
	assert.Len(t, args, 2)
}

func TestWhereClauseNumbersFromStartArg(t *testing.T) {
	clause, args := maintenanceSearch.whereClause("roof", 3)

	assert.Contains(t, clause, "m.description ILIKE $3")
	assert.Contains(t, clause, "p.nickname ILIKE $4")
	assert.Contains(t, clause, "m.status ILIKE $5")
	assert.Contains(t, clause, "TO_CHAR(m.date_reported, 'FMDay, FMMonth DD, YYYY') ILIKE $6")
	assert.Len(t, args, 4)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\temp`, escapeLike(`c:\temp`))
	assert.Equal(t, "plain", escapeLike("plain"))
}

func TestWhereClauseEscapesPattern(t *testing.T) {
	_, args := propertySearch.whereClause("50%", 1)
	assert.Equal(t, `%50\%%`, args[0])
}
