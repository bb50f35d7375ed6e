package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestTenantScope(t *testing.T) {
	tenantID := uuid.New()

	scope, err := TenantScope(tenantID)
	if err != nil {
		t.Fatalf("TenantScope failed: %v", err)
	}
	if scope.IsSystem() {
		t.Error("tenant scope must not be system")
	}
	if scope.IsZero() {
		t.Error("tenant scope must not be zero")
	}
	got, ok := scope.TenantID()
	if !ok || got != tenantID {
		t.Errorf("TenantID = %v, %v; want %v, true", got, ok, tenantID)
	}

	if _, err := TenantScope(uuid.Nil); err == nil {
		t.Error("TenantScope with the nil uuid should fail")
	}
}

func TestSystemScope(t *testing.T) {
	scope := SystemScope()
	if !scope.IsSystem() {
		t.Error("system scope must report IsSystem")
	}
	if scope.IsZero() {
		t.Error("system scope is resolved, not zero")
	}
	if _, ok := scope.TenantID(); ok {
		t.Error("system scope is not bound to a tenant")
	}
}

func TestZeroScopeFailsClosed(t *testing.T) {
	var scope Scope
	if !scope.IsZero() {
		t.Fatal("zero value scope must be zero")
	}
	if scope.IsSystem() {
		t.Error("zero scope must never widen to system")
	}
	if _, err := scope.StampTenant(uuid.New()); err == nil {
		t.Error("stamping under a zero scope should fail")
	}
}

func TestStampTenant(t *testing.T) {
	tenantID := uuid.New()
	other := uuid.New()
	scope, _ := TenantScope(tenantID)

	got, err := scope.StampTenant(uuid.Nil)
	if err != nil {
		t.Fatalf("StampTenant failed: %v", err)
	}
	if got != tenantID {
		t.Errorf("stamped %v, want scope tenant %v", got, tenantID)
	}

	got, err = scope.StampTenant(tenantID)
	if err != nil || got != tenantID {
		t.Errorf("stamping the matching tenant should pass: %v", err)
	}

	if _, err := scope.StampTenant(other); err == nil {
		t.Error("stamping a foreign tenant under a tenant scope should fail")
	}

	system := SystemScope()
	if _, err := system.StampTenant(uuid.Nil); err == nil {
		t.Error("system scope without an explicit tenant should fail")
	}
	got, err = system.StampTenant(other)
	if err != nil || got != other {
		t.Errorf("system scope with an explicit tenant should pass: %v", err)
	}
}

func TestScopeContextRoundTrip(t *testing.T) {
	tenantID := uuid.New()
	scope, _ := TenantScope(tenantID)

	ctx := ContextWithScope(context.Background(), scope)
	got, err := RequireScope(ctx)
	if err != nil {
		t.Fatalf("RequireScope failed: %v", err)
	}
	id, _ := got.TenantID()
	if id != tenantID {
		t.Errorf("round-tripped tenant = %v, want %v", id, tenantID)
	}
}

func TestRequireScopeFailsWithoutResolution(t *testing.T) {
	if _, err := RequireScope(context.Background()); err == nil {
		t.Error("a bare context has no scope")
	}

	// A zero scope placed on the context is still unresolved.
	ctx := ContextWithScope(context.Background(), Scope{})
	if _, err := RequireScope(ctx); err == nil {
		t.Error("a zero scope must not satisfy RequireScope")
	}
}
