package query

import "regexp"

// Fields is the server-defined allow-list for one endpoint: it maps the field
// names a client may reference to the column expressions they compile to.
// Conditions naming anything else are dropped, never interpolated.
type Fields map[string]string

// Columns builds an identity allow-list where each field name is its column.
func Columns(names ...string) Fields {
	fields := make(Fields, len(names))
	for _, name := range names {
		fields[name] = name
	}
	return fields
}

// Column resolves a client field name to its column expression.
func (f Fields) Column(name string) (string, bool) {
	column, ok := f[name]
	return column, ok
}

// Names returns the allow-listed field names.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	return names
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// resolveColumn maps a condition's field to a column expression. With an
// empty allow-list every field passes, but only if it is a plain SQL
// identifier; anything else never reaches the statement text.
func resolveColumn(fields Fields, field string) (string, bool) {
	if len(fields) > 0 {
		return fields.Column(field)
	}
	if identifierPattern.MatchString(field) {
		return field, true
	}
	return "", false
}
