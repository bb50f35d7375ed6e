package domain

// FilterFieldType tells the filter-builder UI which input widget to render.
type FilterFieldType string

const (
	FilterFieldText     FilterFieldType = "text"
	FilterFieldSelect   FilterFieldType = "select"
	FilterFieldNumber   FilterFieldType = "number"
	FilterFieldDatetime FilterFieldType = "datetime"
	FilterFieldBoolean  FilterFieldType = "boolean"
)

// FilterFieldOption is one choice of a select-typed filter field.
type FilterFieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FilterFieldDescriptor describes one filterable field to the client. It is
// pure presentation metadata; the server-side allow-list is what actually
// gates which fields compile.
type FilterFieldDescriptor struct {
	Name      string              `json:"name"`
	Label     string              `json:"label"`
	Type      FilterFieldType     `json:"type"`
	Options   []FilterFieldOption `json:"options,omitempty"`
	Operators []FilterOperator    `json:"operators,omitempty"`
}

// Operator sets reused by the per-resource descriptor lists.
var (
	TextOperators = []FilterOperator{
		FilterOpEquals, FilterOpNotEquals, FilterOpContains, FilterOpNotContains,
		FilterOpStartsWith, FilterOpEndsWith, FilterOpIsEmpty, FilterOpIsNotEmpty,
	}
	SelectOperators = []FilterOperator{
		FilterOpEquals, FilterOpNotEquals, FilterOpIn, FilterOpNotIn,
	}
	NumberOperators = []FilterOperator{
		FilterOpEquals, FilterOpNotEquals, FilterOpGreaterThan, FilterOpLessThan,
		FilterOpGreaterOrEqual, FilterOpLessOrEqual, FilterOpBetween,
	}
	DatetimeOperators = []FilterOperator{
		FilterOpGreaterThan, FilterOpLessThan, FilterOpGreaterOrEqual,
		FilterOpLessOrEqual, FilterOpBetween, FilterOpIsEmpty, FilterOpIsNotEmpty,
	}
)
