package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT from a struct's db tags, so row models stay
// the single source of column names.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct")
	}

	typ := value.Type()
	columns := make([]string, 0, typ.NumField())
	row := make([]any, 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}
		column := dbColumn(field.Tag.Get("db"))
		if column == "" {
			continue
		}
		columns = append(columns, column)
		row = append(row, value.Field(i).Interface())
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("model has no db columns")
	}

	return InsertInto(table).
		Columns(columns...).
		Values(row...).
		Suffix(suffix).
		ToSQL()
}

// dbColumn resolves a sqlx-style db tag to a column name; "" means skip.
func dbColumn(tag string) string {
	name, _, _ := strings.Cut(strings.TrimSpace(tag), ",")
	name = strings.TrimSpace(name)
	if name == "-" {
		return ""
	}
	return name
}
