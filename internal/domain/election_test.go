package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestElectionLifecycle(t *testing.T) {
	election := NewElection(uuid.New(), "Board Election 2026", "Annual board election")
	if election.Status != ElectionStatusDraft {
		t.Fatalf("new election status = %q, want draft", election.Status)
	}

	starts := time.Now().Add(24 * time.Hour)
	ends := starts.Add(48 * time.Hour)

	scheduled, err := election.Schedule(starts, ends)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if scheduled.Status != ElectionStatusScheduled {
		t.Errorf("status = %q, want scheduled", scheduled.Status)
	}
	if scheduled.StartsAt == nil || !scheduled.StartsAt.Equal(starts) {
		t.Errorf("StartsAt not recorded")
	}

	opened, err := scheduled.Open()
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	closed, err := opened.Close()
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	archived, err := closed.Archive()
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if archived.Status != ElectionStatusArchived {
		t.Errorf("status = %q, want archived", archived.Status)
	}

	// The original value is untouched.
	if election.Status != ElectionStatusDraft {
		t.Errorf("transition mutated the receiver: %q", election.Status)
	}
}

func TestElectionInvalidTransitions(t *testing.T) {
	election := NewElection(uuid.New(), "Test", "")
	starts := time.Now()
	ends := starts.Add(time.Hour)

	if _, err := election.Open(); err == nil {
		t.Error("opening a draft election should fail")
	}
	if _, err := election.Close(); err == nil {
		t.Error("closing a draft election should fail")
	}
	if _, err := election.Archive(); err == nil {
		t.Error("archiving a draft election should fail")
	}
	if _, err := election.Schedule(ends, starts); err == nil {
		t.Error("scheduling with an inverted window should fail")
	}

	scheduled, _ := election.Schedule(starts, ends)
	if _, err := scheduled.Schedule(starts, ends); err == nil {
		t.Error("rescheduling a scheduled election should fail")
	}
}
