package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestCandidacyConfirm(t *testing.T) {
	candidacy := NewCandidacy(uuid.New(), uuid.New(), "Ada Lovelace")
	if candidacy.Status != CandidacyStatusPending {
		t.Fatalf("new candidacy status = %q, want pending", candidacy.Status)
	}

	confirmed, err := candidacy.Confirm()
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if confirmed.Status != CandidacyStatusConfirmed {
		t.Errorf("status = %q, want confirmed", confirmed.Status)
	}

	if _, err := confirmed.Confirm(); err == nil {
		t.Error("reconfirming should fail")
	}
}

func TestCandidacyWithdraw(t *testing.T) {
	candidacy := NewCandidacy(uuid.New(), uuid.New(), "Test")

	withdrawn, err := candidacy.Withdraw("personal reasons")
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if withdrawn.Status != CandidacyStatusWithdrawn {
		t.Errorf("status = %q, want withdrawn", withdrawn.Status)
	}
	if withdrawn.StatusReason != "personal reasons" {
		t.Errorf("reason not recorded: %q", withdrawn.StatusReason)
	}

	confirmed, _ := candidacy.Confirm()
	if _, err := confirmed.Withdraw(""); err != nil {
		t.Errorf("withdrawing a confirmed candidacy should work: %v", err)
	}

	if _, err := withdrawn.Withdraw(""); err == nil {
		t.Error("withdrawing twice should fail")
	}
}

func TestCandidacyDisqualify(t *testing.T) {
	candidacy := NewCandidacy(uuid.New(), uuid.New(), "Test")

	if _, err := candidacy.Disqualify(""); err == nil {
		t.Error("disqualifying without a reason should fail")
	}

	disqualified, err := candidacy.Disqualify("ineligible")
	if err != nil {
		t.Fatalf("Disqualify failed: %v", err)
	}
	if disqualified.Status != CandidacyStatusDisqualified {
		t.Errorf("status = %q, want disqualified", disqualified.Status)
	}

	if _, err := disqualified.Disqualify("again"); err == nil {
		t.Error("disqualifying twice should fail")
	}
}
