package domain

import "testing"

func TestParseFilterGroup(t *testing.T) {
	raw := `{
		"operator": "or",
		"conditions": [
			{"field": "status", "operator": "EQUALS", "value": "open"}
		],
		"groups": [
			{"operator": "and", "conditions": [{"field": "name", "operator": "contains", "value": "board"}]}
		]
	}`

	group := ParseFilterGroup(raw)

	if group.Operator != GroupOpOr {
		t.Errorf("operator = %q, want OR", group.Operator)
	}
	if len(group.Conditions) != 1 {
		t.Fatalf("conditions = %d, want 1", len(group.Conditions))
	}
	if group.Conditions[0].Operator != FilterOpEquals {
		t.Errorf("condition operator = %q, want folded to equals", group.Conditions[0].Operator)
	}
	if len(group.Groups) != 1 || group.Groups[0].Operator != GroupOpAnd {
		t.Errorf("subgroup not parsed: %+v", group.Groups)
	}
}

func TestParseFilterGroupDegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"whitespace", "   "},
		{"malformed json", `{"operator": "and", "conditions": [`},
		{"wrong shape", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			group := ParseFilterGroup(tt.raw)
			if !group.IsEmpty() {
				t.Errorf("expected empty group, got %+v", group)
			}
			if group.Operator != GroupOpAnd {
				t.Errorf("operator = %q, want AND default", group.Operator)
			}
		})
	}
}

func TestNormalizedDefaultsUnknownGroupOperatorToAnd(t *testing.T) {
	group := FilterGroup{Operator: "xor"}.Normalized()
	if group.Operator != GroupOpAnd {
		t.Errorf("operator = %q, want AND", group.Operator)
	}
}
