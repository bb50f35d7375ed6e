package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FormFieldType enumerates the value types a dynamic form field accepts.
type FormFieldType string

const (
	FormFieldTypeString    FormFieldType = "string"
	FormFieldTypeInteger   FormFieldType = "integer"
	FormFieldTypeFloat     FormFieldType = "float"
	FormFieldTypeBoolean   FormFieldType = "boolean"
	FormFieldTypeTimestamp FormFieldType = "timestamp"
	FormFieldTypeSelect    FormFieldType = "select"
)

// FormField defines one field of a dynamic form template.
type FormField struct {
	Name     string        `json:"name"`
	Label    string        `json:"label"`
	Type     FormFieldType `json:"type"`
	Required bool          `json:"required"`
	Options  []string      `json:"options,omitempty"`
}

// FormTemplate is a tenant-defined dynamic form, e.g. the questionnaire a
// nomination must answer.
type FormTemplate struct {
	ID        uuid.UUID   `json:"id"`
	TenantID  uuid.UUID   `json:"tenant_id"`
	Name      string      `json:"name"`
	Fields    []FormField `json:"fields"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewFormTemplate creates a form template.
func NewFormTemplate(tenantID uuid.UUID, name string, fields []FormField) FormTemplate {
	now := time.Now()
	return FormTemplate{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Fields:    fields,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FormValidationResult reports template validation of a submission's answers.
type FormValidationResult struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate checks a set of answers against the template's field definitions.
// Unknown answers are warnings, not errors, so templates can evolve without
// invalidating older submissions.
func (t FormTemplate) Validate(answers map[string]any) FormValidationResult {
	var errs []string
	var warnings []string

	for _, field := range t.Fields {
		value, exists := answers[field.Name]

		if field.Required && (!exists || value == nil) {
			errs = append(errs, fmt.Sprintf("required field %q is missing", field.Name))
			continue
		}
		if !exists || value == nil {
			continue
		}

		switch field.Type {
		case FormFieldTypeString:
			if _, ok := value.(string); !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a string, got %T", field.Name, value))
			}
		case FormFieldTypeInteger:
			num, ok := value.(float64)
			if !ok {
				errs = append(errs, fmt.Sprintf("field %q must be an integer, got %T", field.Name, value))
			} else if num != float64(int64(num)) {
				errs = append(errs, fmt.Sprintf("field %q must be an integer, got %v", field.Name, num))
			}
		case FormFieldTypeFloat:
			if _, ok := value.(float64); !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a number, got %T", field.Name, value))
			}
		case FormFieldTypeBoolean:
			if _, ok := value.(bool); !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a boolean, got %T", field.Name, value))
			}
		case FormFieldTypeTimestamp:
			if strVal, ok := value.(string); ok {
				if _, err := time.Parse(time.RFC3339, strVal); err != nil {
					errs = append(errs, fmt.Sprintf("field %q is not a valid RFC3339 timestamp: %v", field.Name, err))
				}
			} else {
				errs = append(errs, fmt.Sprintf("field %q must be a timestamp string, got %T", field.Name, value))
			}
		case FormFieldTypeSelect:
			strVal, ok := value.(string)
			if !ok {
				errs = append(errs, fmt.Sprintf("field %q must be a string, got %T", field.Name, value))
				break
			}
			found := false
			for _, opt := range field.Options {
				if opt == strVal {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, fmt.Sprintf("field %q: %q is not one of the allowed options", field.Name, strVal))
			}
		default:
			warnings = append(warnings, fmt.Sprintf("field %q has unsupported type %q", field.Name, field.Type))
		}
	}

	for name := range answers {
		known := false
		for _, field := range t.Fields {
			if field.Name == name {
				known = true
				break
			}
		}
		if !known {
			warnings = append(warnings, fmt.Sprintf("answer %q is not defined in the template", name))
		}
	}

	return FormValidationResult{
		IsValid:  len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// FormSubmission holds one set of answers against a template.
type FormSubmission struct {
	ID          uuid.UUID      `json:"id"`
	TenantID    uuid.UUID      `json:"tenant_id"`
	TemplateID  uuid.UUID      `json:"template_id"`
	SubmittedBy string         `json:"submitted_by"`
	Answers     map[string]any `json:"answers"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewFormSubmission creates a submission.
func NewFormSubmission(tenantID, templateID uuid.UUID, submittedBy string, answers map[string]any) FormSubmission {
	now := time.Now()
	return FormSubmission{
		ID:          uuid.New(),
		TenantID:    tenantID,
		TemplateID:  templateID,
		SubmittedBy: submittedBy,
		Answers:     answers,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AnswersJSON marshals the answers map for JSONB storage.
func (s FormSubmission) AnswersJSON() (json.RawMessage, error) {
	if s.Answers == nil {
		return json.RawMessage("{}"), nil
	}
	return json.Marshal(s.Answers)
}

// FieldsJSON marshals the template fields for JSONB storage.
func (t FormTemplate) FieldsJSON() (json.RawMessage, error) {
	if t.Fields == nil {
		return json.RawMessage("[]"), nil
	}
	return json.Marshal(t.Fields)
}

// FormTemplateFilterFields describes the filterable fields of the template list.
func FormTemplateFilterFields() []FilterFieldDescriptor {
	return []FilterFieldDescriptor{
		{Name: "name", Label: "Name", Type: FilterFieldText, Operators: TextOperators},
		{Name: "created_at", Label: "Created at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
	}
}

// FormSubmissionFilterFields describes the filterable fields of the submission list.
func FormSubmissionFilterFields() []FilterFieldDescriptor {
	return []FilterFieldDescriptor{
		{Name: "submitted_by", Label: "Submitted by", Type: FilterFieldText, Operators: TextOperators},
		{Name: "created_at", Label: "Submitted at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
	}
}
