package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AssemblyStatus is the lifecycle state of an assembly session.
type AssemblyStatus string

const (
	AssemblyStatusScheduled  AssemblyStatus = "scheduled"
	AssemblyStatusInProgress AssemblyStatus = "in_progress"
	AssemblyStatusConcluded  AssemblyStatus = "concluded"
	AssemblyStatusCancelled  AssemblyStatus = "cancelled"
)

// Assembly is a scheduled meeting of a tenant's members, with quorum tracking.
type Assembly struct {
	ID            uuid.UUID      `json:"id"`
	TenantID      uuid.UUID      `json:"tenant_id"`
	Title         string         `json:"title"`
	Agenda        string         `json:"agenda"`
	Status        AssemblyStatus `json:"status"`
	ScheduledAt   time.Time      `json:"scheduled_at"`
	QuorumNeeded  int            `json:"quorum_needed"`
	AttendeeCount int            `json:"attendee_count"`
	StartedAt     *time.Time     `json:"started_at"`
	ConcludedAt   *time.Time     `json:"concluded_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewAssembly schedules an assembly.
func NewAssembly(tenantID uuid.UUID, title, agenda string, scheduledAt time.Time, quorumNeeded int) Assembly {
	now := time.Now()
	return Assembly{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Title:        title,
		Agenda:       agenda,
		Status:       AssemblyStatusScheduled,
		ScheduledAt:  scheduledAt,
		QuorumNeeded: quorumNeeded,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Start opens a scheduled assembly with the counted attendance. Quorum must
// be met before the session can start.
func (a Assembly) Start(attendeeCount int) (Assembly, error) {
	if a.Status != AssemblyStatusScheduled {
		return Assembly{}, fmt.Errorf("cannot start assembly in status %q", a.Status)
	}
	if attendeeCount < a.QuorumNeeded {
		return Assembly{}, fmt.Errorf("quorum not met: %d attendees, %d needed", attendeeCount, a.QuorumNeeded)
	}
	now := time.Now()
	a.Status = AssemblyStatusInProgress
	a.AttendeeCount = attendeeCount
	a.StartedAt = &now
	a.UpdatedAt = now
	return a, nil
}

// Conclude closes an assembly in progress.
func (a Assembly) Conclude() (Assembly, error) {
	if a.Status != AssemblyStatusInProgress {
		return Assembly{}, fmt.Errorf("cannot conclude assembly in status %q", a.Status)
	}
	now := time.Now()
	a.Status = AssemblyStatusConcluded
	a.ConcludedAt = &now
	a.UpdatedAt = now
	return a, nil
}

// Cancel drops a scheduled assembly.
func (a Assembly) Cancel() (Assembly, error) {
	if a.Status != AssemblyStatusScheduled {
		return Assembly{}, fmt.Errorf("cannot cancel assembly in status %q", a.Status)
	}
	a.Status = AssemblyStatusCancelled
	a.UpdatedAt = time.Now()
	return a, nil
}

// AssemblyFilterFields describes the filterable fields of the assembly list.
func AssemblyFilterFields() []FilterFieldDescriptor {
	return []FilterFieldDescriptor{
		{Name: "title", Label: "Title", Type: FilterFieldText, Operators: TextOperators},
		{Name: "status", Label: "Status", Type: FilterFieldSelect, Operators: SelectOperators,
			Options: []FilterFieldOption{
				{Value: string(AssemblyStatusScheduled), Label: "Scheduled"},
				{Value: string(AssemblyStatusInProgress), Label: "In progress"},
				{Value: string(AssemblyStatusConcluded), Label: "Concluded"},
				{Value: string(AssemblyStatusCancelled), Label: "Cancelled"},
			}},
		{Name: "scheduled_at", Label: "Scheduled at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
		{Name: "quorum_needed", Label: "Quorum needed", Type: FilterFieldNumber, Operators: NumberOperators},
		{Name: "attendee_count", Label: "Attendees", Type: FilterFieldNumber, Operators: NumberOperators},
	}
}
