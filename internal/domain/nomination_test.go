package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestNominationReviewFlow(t *testing.T) {
	nomination := NewNomination(uuid.New(), uuid.New(), "Ada Lovelace", "ada@example.org", map[string]any{"bio": "mathematician"})
	if nomination.Status != NominationStatusDraft {
		t.Fatalf("new nomination status = %q, want draft", nomination.Status)
	}

	submitted, err := nomination.Submit()
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if submitted.SubmittedAt == nil {
		t.Error("SubmittedAt not recorded")
	}

	reviewing, err := submitted.StartReview()
	if err != nil {
		t.Fatalf("StartReview failed: %v", err)
	}

	approved, err := reviewing.Approve("meets all requirements")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if approved.Status != NominationStatusApproved {
		t.Errorf("status = %q, want approved", approved.Status)
	}
	if approved.ReviewNotes != "meets all requirements" {
		t.Errorf("review notes not recorded: %q", approved.ReviewNotes)
	}
	if approved.ResolvedAt == nil {
		t.Error("ResolvedAt not recorded")
	}
}

func TestNominationReject(t *testing.T) {
	nomination := NewNomination(uuid.New(), uuid.New(), "Test", "", nil)
	submitted, _ := nomination.Submit()
	reviewing, _ := submitted.StartReview()

	if _, err := reviewing.Reject(""); err == nil {
		t.Error("rejecting without a reason should fail")
	}

	rejected, err := reviewing.Reject("incomplete application")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if rejected.Status != NominationStatusRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}
}

func TestNominationWithdraw(t *testing.T) {
	nomination := NewNomination(uuid.New(), uuid.New(), "Test", "", nil)

	withdrawn, err := nomination.Withdraw()
	if err != nil {
		t.Fatalf("withdrawing a draft should work: %v", err)
	}
	if withdrawn.Status != NominationStatusWithdrawn {
		t.Errorf("status = %q, want withdrawn", withdrawn.Status)
	}

	submitted, _ := nomination.Submit()
	if _, err := submitted.Withdraw(); err != nil {
		t.Errorf("withdrawing a submitted nomination should work: %v", err)
	}

	reviewing, _ := submitted.StartReview()
	if _, err := reviewing.Withdraw(); err == nil {
		t.Error("withdrawing under review should fail")
	}
}

func TestNominationToCandidacy(t *testing.T) {
	nomination := NewNomination(uuid.New(), uuid.New(), "Ada Lovelace", "ada@example.org", nil)

	if _, err := nomination.ToCandidacy(); err == nil {
		t.Error("deriving a candidacy from an unapproved nomination should fail")
	}

	submitted, _ := nomination.Submit()
	reviewing, _ := submitted.StartReview()
	approved, _ := reviewing.Approve("")

	candidacy, err := approved.ToCandidacy()
	if err != nil {
		t.Fatalf("ToCandidacy failed: %v", err)
	}
	if candidacy.TenantID != nomination.TenantID {
		t.Error("candidacy tenant differs from nomination tenant")
	}
	if candidacy.ElectionID != nomination.ElectionID {
		t.Error("candidacy election differs from nomination election")
	}
	if candidacy.NominationID == nil || *candidacy.NominationID != nomination.ID {
		t.Error("candidacy does not reference its nomination")
	}
	if candidacy.CandidateName != "Ada Lovelace" {
		t.Errorf("candidate name = %q", candidacy.CandidateName)
	}
	if candidacy.Status != CandidacyStatusPending {
		t.Errorf("candidacy status = %q, want pending", candidacy.Status)
	}
}

func TestNominationInvalidTransitions(t *testing.T) {
	nomination := NewNomination(uuid.New(), uuid.New(), "Test", "", nil)

	if _, err := nomination.StartReview(); err == nil {
		t.Error("reviewing a draft should fail")
	}
	if _, err := nomination.Approve(""); err == nil {
		t.Error("approving a draft should fail")
	}
	if _, err := nomination.Reject("reason"); err == nil {
		t.Error("rejecting a draft should fail")
	}

	submitted, _ := nomination.Submit()
	if _, err := submitted.Submit(); err == nil {
		t.Error("resubmitting should fail")
	}
}
