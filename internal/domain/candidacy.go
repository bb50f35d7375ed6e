package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CandidacyStatus is the state of a confirmed or pending candidacy.
type CandidacyStatus string

const (
	CandidacyStatusPending      CandidacyStatus = "pending"
	CandidacyStatusConfirmed    CandidacyStatus = "confirmed"
	CandidacyStatusWithdrawn    CandidacyStatus = "withdrawn"
	CandidacyStatusDisqualified CandidacyStatus = "disqualified"
)

// Candidacy is a candidate standing in an election, usually derived from an
// approved nomination.
type Candidacy struct {
	ID            uuid.UUID       `json:"id"`
	TenantID      uuid.UUID       `json:"tenant_id"`
	ElectionID    uuid.UUID       `json:"election_id"`
	NominationID  *uuid.UUID      `json:"nomination_id"`
	CandidateName string          `json:"candidate_name"`
	ListName      string          `json:"list_name"`
	Position      int             `json:"position"`
	Status        CandidacyStatus `json:"status"`
	StatusReason  string          `json:"status_reason"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewCandidacy creates a pending candidacy.
func NewCandidacy(tenantID, electionID uuid.UUID, candidateName string) Candidacy {
	now := time.Now()
	return Candidacy{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ElectionID:    electionID,
		CandidateName: candidateName,
		Status:        CandidacyStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Confirm accepts a pending candidacy onto the ballot.
func (c Candidacy) Confirm() (Candidacy, error) {
	if c.Status != CandidacyStatusPending {
		return Candidacy{}, fmt.Errorf("cannot confirm candidacy in status %q", c.Status)
	}
	c.Status = CandidacyStatusConfirmed
	c.UpdatedAt = time.Now()
	return c, nil
}

// Withdraw removes a pending or confirmed candidacy at the candidate's request.
func (c Candidacy) Withdraw(reason string) (Candidacy, error) {
	if c.Status != CandidacyStatusPending && c.Status != CandidacyStatusConfirmed {
		return Candidacy{}, fmt.Errorf("cannot withdraw candidacy in status %q", c.Status)
	}
	c.Status = CandidacyStatusWithdrawn
	c.StatusReason = reason
	c.UpdatedAt = time.Now()
	return c, nil
}

// Disqualify removes a candidacy for cause. A reason is required.
func (c Candidacy) Disqualify(reason string) (Candidacy, error) {
	if c.Status != CandidacyStatusPending && c.Status != CandidacyStatusConfirmed {
		return Candidacy{}, fmt.Errorf("cannot disqualify candidacy in status %q", c.Status)
	}
	if reason == "" {
		return Candidacy{}, fmt.Errorf("disqualification requires a reason")
	}
	c.Status = CandidacyStatusDisqualified
	c.StatusReason = reason
	c.UpdatedAt = time.Now()
	return c, nil
}

// CandidacyFilterFields describes the filterable fields of the candidacy list.
func CandidacyFilterFields() []FilterFieldDescriptor {
	return []FilterFieldDescriptor{
		{Name: "candidate_name", Label: "Candidate", Type: FilterFieldText, Operators: TextOperators},
		{Name: "list_name", Label: "List", Type: FilterFieldText, Operators: TextOperators},
		{Name: "position", Label: "Position", Type: FilterFieldNumber, Operators: NumberOperators},
		{Name: "status", Label: "Status", Type: FilterFieldSelect, Operators: SelectOperators,
			Options: []FilterFieldOption{
				{Value: string(CandidacyStatusPending), Label: "Pending"},
				{Value: string(CandidacyStatusConfirmed), Label: "Confirmed"},
				{Value: string(CandidacyStatusWithdrawn), Label: "Withdrawn"},
				{Value: string(CandidacyStatusDisqualified), Label: "Disqualified"},
			}},
		{Name: "created_at", Label: "Created at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
	}
}
