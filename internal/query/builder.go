package query

import "strconv"

// Builder accumulates the positional arguments of one SQL statement and hands
// out $n placeholders in order. Repositories share a single builder across
// the tenant predicate, the compiled filter tree, and the quick-search clause
// so the numbering stays consistent.
type Builder struct {
	args []any
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Bind appends a value and returns its placeholder, e.g. "$3".
func (b *Builder) Bind(value any) string {
	b.args = append(b.args, value)
	return "$" + strconv.Itoa(len(b.args))
}

// Args returns the accumulated arguments in placeholder order.
func (b *Builder) Args() []any {
	return b.args
}

// Len returns the number of bound arguments.
func (b *Builder) Len() int {
	return len(b.args)
}
