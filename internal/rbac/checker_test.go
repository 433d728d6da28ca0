package rbac

import "testing"

func TestCheckerHas(t *testing.T) {
	c := NewChecker(map[string][]string{
		"student": {"attempt:create", "attempt:view-own"},
		"editor":  {"content:*"},
		"admin":   {"*"},
	})

	tests := []struct {
		role, perm string
		want       bool
	}{
		{"student", "attempt:create", true},
		{"student", "content:manage", false},
		{"editor", "content:manage", true},
		{"editor", "attempt:create", false},
		{"admin", "anything:at-all", true},
		{"unknown", "attempt:create", false},
		{"", "attempt:create", false},
	}
	for _, tc := range tests {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%q, %q) = %v, want %v", tc.role, tc.perm, got, tc.want)
		}
	}

	if !c.Any("student", "content:manage", "attempt:view-own") {
		t.Error("Any must pass when one permission matches")
	}
	if c.Any("student", "content:manage", "config:manage") {
		t.Error("Any must fail when none match")
	}
}

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	for _, perm := range []string{"attempt:create", "attempt:save", "attempt:submit", "attempt:view-own"} {
		if !c.Has("student", perm) {
			t.Errorf("student must hold %s", perm)
		}
	}
	if c.Has("student", "content:manage") {
		t.Error("student must not manage content")
	}
	if !c.Has("admin", "config:manage") {
		t.Error("admin wildcard must cover config:manage")
	}
}
