package repository

import (
	"fmt"
	"strings"
)

// dateDisplayFormat is how date columns are rendered for free-text matching,
// e.g. "Monday, December 1, 2025". Searching "December" or "Monday" narrows
// date-bearing lists the same way it narrows text columns.
const dateDisplayFormat = "FMDay, FMMonth DD, YYYY"

// searchSpec declares which columns a list route's free-text filter targets.
// Text columns match as case-insensitive substrings; date columns match
// against their human-rendered form.
type searchSpec struct {
	textColumns []string
	dateColumns []string
}

// Per-entity filter targets. Column names carry the query aliases used by the
// list statements below.
var (
	propertySearch = searchSpec{
		textColumns: []string{"nickname", "city", "state"},
	}
	maintenanceSearch = searchSpec{
		textColumns: []string{"m.description", "p.nickname", "m.status"},
		dateColumns: []string{"m.date_reported"},
	}
	expenseSearch = searchSpec{
		textColumns: []string{"e.vendor", "e.expense_category", "p.nickname"},
		dateColumns: []string{"e.expense_date"},
	}
	messageSearch = searchSpec{
		textColumns: []string{"m.message", "u.username"},
		dateColumns: []string{"m.created_time"},
	}
	eventSearch = searchSpec{
		textColumns: []string{"event_title"},
		dateColumns: []string{"start_time"},
	}
)

// whereClause compiles the spec into an OR-joined WHERE clause with
// placeholders numbered from startArg. Returns an empty clause when the term
// is empty.
func (s searchSpec) whereClause(term string, startArg int) (string, []interface{}) {
	if term == "" {
		return "", nil
	}

	pattern := "%" + escapeLike(term) + "%"
	preds := make([]string, 0, len(s.textColumns)+len(s.dateColumns))
	args := make([]interface{}, 0, cap(preds))

	n := startArg
	for _, col := range s.textColumns {
		preds = append(preds, fmt.Sprintf("%s ILIKE $%d", col, n))
		args = append(args, pattern)
		n++
	}
	for _, col := range s.dateColumns {
		preds = append(preds, fmt.Sprintf("TO_CHAR(%s, '%s') ILIKE $%d", col, dateDisplayFormat, n))
		args = append(args, pattern)
		n++
	}

	return " WHERE (" + strings.Join(preds, " OR ") + ")", args
}

// escapeLike neutralizes LIKE metacharacters in a user-supplied term
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
