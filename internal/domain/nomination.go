package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NominationStatus is the review state of a candidate application.
type NominationStatus string

const (
	NominationStatusDraft       NominationStatus = "draft"
	NominationStatusSubmitted   NominationStatus = "submitted"
	NominationStatusUnderReview NominationStatus = "under_review"
	NominationStatusApproved    NominationStatus = "approved"
	NominationStatusRejected    NominationStatus = "rejected"
	NominationStatusWithdrawn   NominationStatus = "withdrawn"
)

// Nomination is an application to stand as a candidate in an election. An
// approved nomination produces a Candidacy.
type Nomination struct {
	ID            uuid.UUID        `json:"id"`
	TenantID      uuid.UUID        `json:"tenant_id"`
	ElectionID    uuid.UUID        `json:"election_id"`
	ApplicantName string           `json:"applicant_name"`
	Email         string           `json:"email"`
	Status        NominationStatus `json:"status"`
	ReviewNotes   string           `json:"review_notes"`
	SubmittedAt   *time.Time       `json:"submitted_at"`
	ResolvedAt    *time.Time       `json:"resolved_at"`
	Answers       map[string]any   `json:"answers"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// NewNomination creates a draft nomination.
func NewNomination(tenantID, electionID uuid.UUID, applicantName, email string, answers map[string]any) Nomination {
	now := time.Now()
	return Nomination{
		ID:            uuid.New(),
		TenantID:      tenantID,
		ElectionID:    electionID,
		ApplicantName: applicantName,
		Email:         email,
		Status:        NominationStatusDraft,
		Answers:       answers,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Submit hands a draft nomination over for review.
func (n Nomination) Submit() (Nomination, error) {
	if n.Status != NominationStatusDraft {
		return Nomination{}, fmt.Errorf("cannot submit nomination in status %q", n.Status)
	}
	now := time.Now()
	n.Status = NominationStatusSubmitted
	n.SubmittedAt = &now
	n.UpdatedAt = now
	return n, nil
}

// StartReview marks a submitted nomination as being reviewed.
func (n Nomination) StartReview() (Nomination, error) {
	if n.Status != NominationStatusSubmitted {
		return Nomination{}, fmt.Errorf("cannot start review of nomination in status %q", n.Status)
	}
	n.Status = NominationStatusUnderReview
	n.UpdatedAt = time.Now()
	return n, nil
}

// Approve accepts a nomination under review.
func (n Nomination) Approve(notes string) (Nomination, error) {
	if n.Status != NominationStatusUnderReview {
		return Nomination{}, fmt.Errorf("cannot approve nomination in status %q", n.Status)
	}
	now := time.Now()
	n.Status = NominationStatusApproved
	n.ReviewNotes = notes
	n.ResolvedAt = &now
	n.UpdatedAt = now
	return n, nil
}

// Reject declines a nomination under review. A reason is required.
func (n Nomination) Reject(reason string) (Nomination, error) {
	if n.Status != NominationStatusUnderReview {
		return Nomination{}, fmt.Errorf("cannot reject nomination in status %q", n.Status)
	}
	if reason == "" {
		return Nomination{}, fmt.Errorf("rejection requires a reason")
	}
	now := time.Now()
	n.Status = NominationStatusRejected
	n.ReviewNotes = reason
	n.ResolvedAt = &now
	n.UpdatedAt = now
	return n, nil
}

// Withdraw lets the applicant pull a nomination before it is resolved.
func (n Nomination) Withdraw() (Nomination, error) {
	if n.Status != NominationStatusDraft && n.Status != NominationStatusSubmitted {
		return Nomination{}, fmt.Errorf("cannot withdraw nomination in status %q", n.Status)
	}
	now := time.Now()
	n.Status = NominationStatusWithdrawn
	n.ResolvedAt = &now
	n.UpdatedAt = now
	return n, nil
}

// ToCandidacy derives the pending candidacy for an approved nomination.
func (n Nomination) ToCandidacy() (Candidacy, error) {
	if n.Status != NominationStatusApproved {
		return Candidacy{}, fmt.Errorf("cannot create candidacy from nomination in status %q", n.Status)
	}
	c := NewCandidacy(n.TenantID, n.ElectionID, n.ApplicantName)
	c.NominationID = &n.ID
	return c, nil
}

// NominationFilterFields describes the filterable fields of the nomination list.
func NominationFilterFields() []FilterFieldDescriptor {
	return []FilterFieldDescriptor{
		{Name: "applicant_name", Label: "Applicant", Type: FilterFieldText, Operators: TextOperators},
		{Name: "email", Label: "Email", Type: FilterFieldText, Operators: TextOperators},
		{Name: "status", Label: "Status", Type: FilterFieldSelect, Operators: SelectOperators,
			Options: []FilterFieldOption{
				{Value: string(NominationStatusDraft), Label: "Draft"},
				{Value: string(NominationStatusSubmitted), Label: "Submitted"},
				{Value: string(NominationStatusUnderReview), Label: "Under review"},
				{Value: string(NominationStatusApproved), Label: "Approved"},
				{Value: string(NominationStatusRejected), Label: "Rejected"},
				{Value: string(NominationStatusWithdrawn), Label: "Withdrawn"},
			}},
		{Name: "submitted_at", Label: "Submitted at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
		{Name: "resolved_at", Label: "Resolved at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
		{Name: "created_at", Label: "Created at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
	}
}
