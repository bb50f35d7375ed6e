package domain

import (
	"encoding/json"
	"strings"
)

// FilterOperator enumerates the comparison operators a filter condition may use.
type FilterOperator string

const (
	FilterOpEquals         FilterOperator = "equals"
	FilterOpNotEquals      FilterOperator = "not_equals"
	FilterOpContains       FilterOperator = "contains"
	FilterOpNotContains    FilterOperator = "not_contains"
	FilterOpStartsWith     FilterOperator = "starts_with"
	FilterOpEndsWith       FilterOperator = "ends_with"
	FilterOpIsEmpty        FilterOperator = "is_empty"
	FilterOpIsNotEmpty     FilterOperator = "is_not_empty"
	FilterOpGreaterThan    FilterOperator = "greater_than"
	FilterOpLessThan       FilterOperator = "less_than"
	FilterOpGreaterOrEqual FilterOperator = "greater_or_equal"
	FilterOpLessOrEqual    FilterOperator = "less_or_equal"
	FilterOpBetween        FilterOperator = "between"
	FilterOpIn             FilterOperator = "in"
	FilterOpNotIn          FilterOperator = "not_in"
)

// GroupOperator combines the members of a filter group.
type GroupOperator string

const (
	GroupOpAnd GroupOperator = "AND"
	GroupOpOr  GroupOperator = "OR"
)

// FilterCondition is one field/operator/value leaf of a filter tree. It is a
// transient, request-scoped value object: parsed, compiled, and discarded.
type FilterCondition struct {
	Field    string         `json:"field"`
	Operator FilterOperator `json:"operator"`
	Value    any            `json:"value"`
}

// FilterGroup is a node of the boolean filter tree. Conditions and nested
// groups are combined with the group operator; an empty group contributes no
// predicate at all.
type FilterGroup struct {
	Operator   GroupOperator     `json:"operator"`
	Conditions []FilterCondition `json:"conditions"`
	Groups     []FilterGroup     `json:"groups"`
}

// IsEmpty reports whether the group holds no conditions or subgroups.
func (g FilterGroup) IsEmpty() bool {
	return len(g.Conditions) == 0 && len(g.Groups) == 0
}

// Normalized returns the group with its operator folded to AND/OR and every
// condition operator lowercased. Anything that is not OR (including absent or
// unrecognised operators) defaults to AND.
func (g FilterGroup) Normalized() FilterGroup {
	if strings.EqualFold(string(g.Operator), string(GroupOpOr)) {
		g.Operator = GroupOpOr
	} else {
		g.Operator = GroupOpAnd
	}
	conditions := make([]FilterCondition, len(g.Conditions))
	for i, cond := range g.Conditions {
		cond.Operator = FilterOperator(strings.ToLower(string(cond.Operator)))
		conditions[i] = cond
	}
	g.Conditions = conditions
	groups := make([]FilterGroup, len(g.Groups))
	for i, sub := range g.Groups {
		groups[i] = sub.Normalized()
	}
	g.Groups = groups
	return g
}

// ParseFilterGroup decodes the advanced_filters query parameter. The payload
// is untrusted browser state: malformed or empty input yields an empty group
// rather than an error, so a stale payload degrades to "no extra filters".
func ParseFilterGroup(raw string) FilterGroup {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return FilterGroup{Operator: GroupOpAnd}
	}

	var group FilterGroup
	if err := json.Unmarshal([]byte(raw), &group); err != nil {
		return FilterGroup{Operator: GroupOpAnd}
	}

	return group.Normalized()
}
