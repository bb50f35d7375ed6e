package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConvocationStatus is the publication state of a convocation.
type ConvocationStatus string

const (
	ConvocationStatusDraft     ConvocationStatus = "draft"
	ConvocationStatusPublished ConvocationStatus = "published"
	ConvocationStatusClosed    ConvocationStatus = "closed"
)

// Convocation is the formal call announcing an election, with the window in
// which nominations are accepted.
type Convocation struct {
	ID                uuid.UUID         `json:"id"`
	TenantID          uuid.UUID         `json:"tenant_id"`
	ElectionID        uuid.UUID         `json:"election_id"`
	Title             string            `json:"title"`
	Body              string            `json:"body"`
	Status            ConvocationStatus `json:"status"`
	NominationsOpenAt *time.Time        `json:"nominations_open_at"`
	NominationsCloseAt *time.Time       `json:"nominations_close_at"`
	PublishedAt       *time.Time        `json:"published_at"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// NewConvocation creates a draft convocation for an election.
func NewConvocation(tenantID, electionID uuid.UUID, title, body string) Convocation {
	now := time.Now()
	return Convocation{
		ID:         uuid.New(),
		TenantID:   tenantID,
		ElectionID: electionID,
		Title:      title,
		Body:       body,
		Status:     ConvocationStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Publish announces the convocation and opens the nomination window.
func (c Convocation) Publish(opensAt, closesAt time.Time) (Convocation, error) {
	if c.Status != ConvocationStatusDraft {
		return Convocation{}, fmt.Errorf("cannot publish convocation in status %q", c.Status)
	}
	if !closesAt.After(opensAt) {
		return Convocation{}, fmt.Errorf("nomination window must close after it opens")
	}
	now := time.Now()
	c.Status = ConvocationStatusPublished
	c.NominationsOpenAt = &opensAt
	c.NominationsCloseAt = &closesAt
	c.PublishedAt = &now
	c.UpdatedAt = now
	return c, nil
}

// Close ends a published convocation.
func (c Convocation) Close() (Convocation, error) {
	if c.Status != ConvocationStatusPublished {
		return Convocation{}, fmt.Errorf("cannot close convocation in status %q", c.Status)
	}
	c.Status = ConvocationStatusClosed
	c.UpdatedAt = time.Now()
	return c, nil
}

// AcceptsNominationsAt reports whether the nomination window is open at t.
func (c Convocation) AcceptsNominationsAt(t time.Time) bool {
	if c.Status != ConvocationStatusPublished {
		return false
	}
	if c.NominationsOpenAt == nil || c.NominationsCloseAt == nil {
		return false
	}
	return !t.Before(*c.NominationsOpenAt) && t.Before(*c.NominationsCloseAt)
}

// ConvocationFilterFields describes the filterable fields of the convocation list.
func ConvocationFilterFields() []FilterFieldDescriptor {
	return []FilterFieldDescriptor{
		{Name: "title", Label: "Title", Type: FilterFieldText, Operators: TextOperators},
		{Name: "status", Label: "Status", Type: FilterFieldSelect, Operators: SelectOperators,
			Options: []FilterFieldOption{
				{Value: string(ConvocationStatusDraft), Label: "Draft"},
				{Value: string(ConvocationStatusPublished), Label: "Published"},
				{Value: string(ConvocationStatusClosed), Label: "Closed"},
			}},
		{Name: "nominations_open_at", Label: "Nominations open", Type: FilterFieldDatetime, Operators: DatetimeOperators},
		{Name: "nominations_close_at", Label: "Nominations close", Type: FilterFieldDatetime, Operators: DatetimeOperators},
		{Name: "published_at", Label: "Published at", Type: FilterFieldDatetime, Operators: DatetimeOperators},
	}
}
