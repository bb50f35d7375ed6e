package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestConvocationPublish(t *testing.T) {
	convocation := NewConvocation(uuid.New(), uuid.New(), "Call for candidates", "Nominations are open.")
	if convocation.Status != ConvocationStatusDraft {
		t.Fatalf("new convocation status = %q, want draft", convocation.Status)
	}

	opens := time.Now()
	closes := opens.Add(7 * 24 * time.Hour)

	published, err := convocation.Publish(opens, closes)
	if err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if published.Status != ConvocationStatusPublished {
		t.Errorf("status = %q, want published", published.Status)
	}
	if published.PublishedAt == nil {
		t.Error("PublishedAt not recorded")
	}

	if _, err := published.Publish(opens, closes); err == nil {
		t.Error("republishing should fail")
	}
	if _, err := convocation.Publish(closes, opens); err == nil {
		t.Error("publishing with an inverted window should fail")
	}
}

func TestConvocationClose(t *testing.T) {
	convocation := NewConvocation(uuid.New(), uuid.New(), "Test", "")

	if _, err := convocation.Close(); err == nil {
		t.Error("closing a draft should fail")
	}

	published, _ := convocation.Publish(time.Now(), time.Now().Add(time.Hour))
	closed, err := published.Close()
	if err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if closed.Status != ConvocationStatusClosed {
		t.Errorf("status = %q, want closed", closed.Status)
	}
}

func TestConvocationAcceptsNominationsAt(t *testing.T) {
	convocation := NewConvocation(uuid.New(), uuid.New(), "Test", "")
	opens := time.Now()
	closes := opens.Add(time.Hour)

	if convocation.AcceptsNominationsAt(opens) {
		t.Error("a draft convocation accepts no nominations")
	}

	published, _ := convocation.Publish(opens, closes)

	if !published.AcceptsNominationsAt(opens) {
		t.Error("window open boundary should be inclusive")
	}
	if !published.AcceptsNominationsAt(opens.Add(30 * time.Minute)) {
		t.Error("mid-window should accept")
	}
	if published.AcceptsNominationsAt(closes) {
		t.Error("window close boundary should be exclusive")
	}
	if published.AcceptsNominationsAt(opens.Add(-time.Second)) {
		t.Error("before the window should not accept")
	}

	closed, _ := published.Close()
	if closed.AcceptsNominationsAt(opens.Add(30 * time.Minute)) {
		t.Error("a closed convocation accepts no nominations")
	}
}
