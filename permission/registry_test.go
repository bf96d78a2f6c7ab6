package permission

import "testing"

func TestRegistryFreezeRejectsRegistration(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register(CapApprove); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	r.Freeze()
	if _, err := r.Register(CapAdmin); err == nil {
		t.Fatal("expected error after freeze")
	}
	if r.Count() != 1 {
		t.Fatalf("expected 1 capability, got %d", r.Count())
	}
}

func TestRegistryRejectsDuplicatesAndEmpty(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Register(""); err == nil {
		t.Fatal("expected error for empty name")
	}
	if _, err := r.Register(CapApprove); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := r.Register(CapApprove); err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestRegistryLimit(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < maskBits; i++ {
		if _, err := r.Register(Capability(string(rune('A'+i%26)) + string(rune('a'+i/26)))); err != nil {
			t.Fatalf("Register %d failed: %v", i, err)
		}
	}
	if _, err := r.Register("overflow"); err == nil {
		t.Fatal("expected limit error")
	}
}

func TestRoleManagerRejectsUnknownCapability(t *testing.T) {
	reg := NewRegistry()
	rm := NewRoleManager(reg)
	if err := rm.RegisterRole(RoleAdmin, []Capability{CapAdmin}); err == nil {
		t.Fatal("expected error for unregistered capability")
	}
	if err := rm.RegisterRole(RoleEmployee, nil); err != nil {
		t.Fatalf("RegisterRole failed: %v", err)
	}
	if _, ok := rm.Mask(RoleEmployee); !ok {
		t.Fatal("role with no capabilities must still be known")
	}
	rm.Freeze()
	if err := rm.RegisterRole(RoleAdmin, nil); err == nil {
		t.Fatal("expected error after freeze")
	}
}

func TestMask64Bounds(t *testing.T) {
	var m Mask64
	m.Set(-1)
	m.Set(64)
	if m.Raw() != 0 {
		t.Fatalf("out-of-range bits must be ignored, got %x", m.Raw())
	}
	m.Set(3)
	if !m.Has(3) || m.Has(4) {
		t.Fatal("unexpected bit state")
	}
	m.Clear(3)
	if m.Has(3) {
		t.Fatal("expected bit cleared")
	}
}
