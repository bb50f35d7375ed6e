package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAssemblyLifecycle(t *testing.T) {
	assembly := NewAssembly(uuid.New(), "General Assembly", "Annual budget vote", time.Now().Add(time.Hour), 10)
	if assembly.Status != AssemblyStatusScheduled {
		t.Fatalf("new assembly status = %q, want scheduled", assembly.Status)
	}

	started, err := assembly.Start(15)
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if started.Status != AssemblyStatusInProgress {
		t.Errorf("status = %q, want in_progress", started.Status)
	}
	if started.AttendeeCount != 15 {
		t.Errorf("attendee count = %d, want 15", started.AttendeeCount)
	}
	if started.StartedAt == nil {
		t.Error("StartedAt not recorded")
	}

	concluded, err := started.Conclude()
	if err != nil {
		t.Fatalf("Conclude failed: %v", err)
	}
	if concluded.Status != AssemblyStatusConcluded {
		t.Errorf("status = %q, want concluded", concluded.Status)
	}
	if concluded.ConcludedAt == nil {
		t.Error("ConcludedAt not recorded")
	}
}

func TestAssemblyQuorum(t *testing.T) {
	assembly := NewAssembly(uuid.New(), "Test", "", time.Now(), 10)

	if _, err := assembly.Start(9); err == nil {
		t.Error("starting below quorum should fail")
	}
	if _, err := assembly.Start(10); err != nil {
		t.Errorf("starting at exactly quorum should work: %v", err)
	}
}

func TestAssemblyCancel(t *testing.T) {
	assembly := NewAssembly(uuid.New(), "Test", "", time.Now(), 0)

	cancelled, err := assembly.Cancel()
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != AssemblyStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	started, _ := assembly.Start(0)
	if _, err := started.Cancel(); err == nil {
		t.Error("cancelling an assembly in progress should fail")
	}
	if _, err := cancelled.Conclude(); err == nil {
		t.Error("concluding a cancelled assembly should fail")
	}
}
