package utils

import (
	"fmt"
	"reflect"
)

// ColumnTag is the struct tag naming a field's column.
var ColumnTag = "db"

// StructTagValues lists the column names of a row struct in field order.
func StructTagValues(input any) []string {
	columns := make([]string, 0)
	eachColumn(input, func(column string, _ reflect.Value) {
		columns = append(columns, column)
	})
	return columns
}

// StructToMap maps column name to field value, ready for an insert.
func StructToMap(input any) map[string]any {
	values := make(map[string]any)
	eachColumn(input, func(column string, field reflect.Value) {
		values[column] = field.Interface()
	})
	return values
}

// eachColumn calls fn for every exported field carrying a column tag.
// Fields tagged "-" or untagged are skipped.
func eachColumn(input any, fn func(column string, field reflect.Value)) {
	value := reflect.Indirect(reflect.ValueOf(input))
	if value.Kind() != reflect.Struct {
		panic(fmt.Sprintf("utils: expected a struct or pointer to struct, got %T", input))
	}

	valueType := value.Type()
	for i := range valueType.NumField() {
		field := valueType.Field(i)
		if !field.IsExported() {
			continue
		}

		column := field.Tag.Get(ColumnTag)
		if column == "" || column == "-" {
			continue
		}

		fn(column, value.Field(i))
	}
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil || msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
