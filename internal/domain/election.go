package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ElectionStatus is the lifecycle state of an election.
type ElectionStatus string

const (
	ElectionStatusDraft     ElectionStatus = "draft"
	ElectionStatusScheduled ElectionStatus = "scheduled"
	ElectionStatusOpen      ElectionStatus = "open"
	ElectionStatusClosed    ElectionStatus = "closed"
	ElectionStatusArchived  ElectionStatus = "archived"
)

// Election represents one electoral process within a tenant.
type Election struct {
	ID          uuid.UUID      `json:"id"`
	TenantID    uuid.UUID      `json:"tenant_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      ElectionStatus `json:"status"`
	StartsAt    *time.Time     `json:"starts_at"`
	EndsAt      *time.Time     `json:"ends_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// NewElection creates a draft election. The tenant ID may be left zero; the
// repository stamps it from the active scope on create.
func NewElection(tenantID uuid.UUID, name, description string) Election {
	now := time.Now()
	return Election{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        name,
		Description: description,
		Status:      ElectionStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Schedule moves a draft election to scheduled with a voting window.
func (e Election) Schedule(startsAt, endsAt time.Time) (Election, error) {
	if e.Status != ElectionStatusDraft {
		return Election{}, fmt.Errorf("cannot schedule election in status %q", e.Status)
	}
	if !endsAt.After(startsAt) {
		return Election{}, fmt.Errorf("election must end after it starts")
	}
	e.Status = ElectionStatusScheduled
	e.StartsAt = &startsAt
	e.EndsAt = &endsAt
	e.UpdatedAt = time.Now()
	return e, nil
}

// Open starts the voting period of a scheduled election.
func (e Election) Open() (Election, error) {
	if e.Status != ElectionStatusScheduled {
		return Election{}, fmt.Errorf("cannot open election in status %q", e.Status)
	}
	e.Status = ElectionStatusOpen
	e.UpdatedAt = time.Now()
	return e, nil
}

// Close ends the voting period.
func (e Election) Close() (Election, error) {
	if e.Status != ElectionStatusOpen {
		return Election{}, fmt.Errorf("cannot close election in status %q", e.Status)
	}
	e.Status = ElectionStatusClosed
	e.UpdatedAt = time.Now()
	return e, nil
}

// Archive retires a closed election.
func (e Election) Archive() (Election, error) {
	if e.Status != ElectionStatusClosed {
		return Election{}, fmt.Errorf("cannot archive election in status %q", e.Status)
	}
	e.Status = ElectionStatusArchived
	e.UpdatedAt = time.Now()
	return e, nil
}

// ElectionFilterFields describes the filterable fields of the election list.
func ElectionFilterFields() []FilterFieldDescriptor {
	return []FilterFieldDescriptor{
		{Name: "name", Label: "Name", Type: FilterFieldText, Operators: TextOperators},
		{Name: "description", Label: "Description", Type: FilterFieldText, Operators: TextOperators},
		{Name: "status", Label: "Status", Type: FilterFieldSelect, Operators: SelectOperators,
			Options: []FilterFieldOption{
				{Value: string(ElectionStatusDraft), Label: "Draft"},
				{Value: string(ElectionStatusScheduled), Label: "Scheduled"},
				{Value: string(ElectionStatusOpen), Label: "Open"},
				{Value: string(ElectionStatusClosed), Label: "Closed"},
				{Value: string(ElectionStatusArchived), Label: "Archived"},
			}},
		{Name: "starts_at", Label: "Starts at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
		{Name: "ends_at", Label: "Ends at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
		{Name: "created_at", Label: "Created at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
	}
}
