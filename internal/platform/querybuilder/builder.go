// Package querybuilder assembles parameterized postgres statements. It
// covers only the shapes the repositories need: flat SELECTs, multi-row
// INSERTs with an optional ON CONFLICT suffix, and simple UPDATEs.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// stmt accumulates SQL text alongside its positional arguments, keeping the
// $N counter in one place.
type stmt struct {
	sql  strings.Builder
	args []any
}

func (s *stmt) raw(text string) {
	s.sql.WriteString(text)
}

func (s *stmt) bind(value any) {
	s.args = append(s.args, value)
	s.sql.WriteString("$" + strconv.Itoa(len(s.args)))
}

// bindExpr copies expr into the statement, replacing each ? with the next
// positional placeholder consuming exprArgs. Extra ?s pass through verbatim.
func (s *stmt) bindExpr(expr string, exprArgs []any) {
	if len(exprArgs) == 0 {
		s.raw(expr)
		return
	}

	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			s.bind(exprArgs[next])
			next++
			continue
		}
		s.sql.WriteByte(expr[i])
	}
}

func (s *stmt) where(conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	s.raw(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			s.raw(" AND ")
		}
		c.render(s)
	}
}

type Condition interface {
	render(s *stmt)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) render(s *stmt) {
	s.raw(c.column + " = ")
	s.bind(c.value)
}

type inCondition struct {
	column string
	values []any
}

func In(column string, values []any) Condition {
	return inCondition{column: column, values: values}
}

func (c inCondition) render(s *stmt) {
	// An empty IN list matches nothing; emit a constant-false predicate
	// instead of invalid SQL.
	if len(c.values) == 0 {
		s.raw("1=0")
		return
	}

	s.raw(c.column + " IN (")
	for i, v := range c.values {
		if i > 0 {
			s.raw(", ")
		}
		s.bind(v)
	}
	s.raw(")")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr injects a raw condition; every ? is rewritten to the next
// positional placeholder.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) render(s *stmt) {
	s.bindExpr(c.expr, c.args)
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	var s stmt
	s.args = make([]any, 0, len(b.where))
	s.raw("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	s.where(b.where)
	if len(b.orderBy) > 0 {
		s.raw(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		s.raw(" LIMIT " + strconv.Itoa(b.limit))
	}

	return s.sql.String(), s.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends trailing SQL after VALUES, typically an ON CONFLICT
// clause. ? placeholders are rewritten positionally.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert table is required")
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert columns are required")
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert values are required")
	}

	var s stmt
	s.args = make([]any, 0, len(b.rows)*len(b.columns))
	s.raw("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES ")
	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			s.raw(", ")
		}
		s.raw("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				s.raw(", ")
			}
			s.bind(value)
		}
		s.raw(")")
	}

	if b.suffix != "" {
		s.raw(" ")
		s.bindExpr(b.suffix, nil)
	}

	return s.sql.String(), s.args, nil
}

type UpdateBuilder struct {
	table      string
	setColumns []string
	setValues  []any
	where      []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.setColumns = append(b.setColumns, column)
	b.setValues = append(b.setValues, value)
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update table is required")
	}
	if len(b.setColumns) == 0 {
		return "", nil, fmt.Errorf("update sets are required")
	}

	var s stmt
	s.args = make([]any, 0, len(b.setColumns)+len(b.where))
	s.raw("UPDATE " + b.table + " SET ")
	for i, column := range b.setColumns {
		if i > 0 {
			s.raw(", ")
		}
		s.raw(column + " = ")
		s.bind(b.setValues[i])
	}
	s.where(b.where)

	return s.sql.String(), s.args, nil
}
