package rbac

import "testing"

func TestCanAccessEmptyRequirement(t *testing.T) {
	if !CanAccess(nil, nil) {
		t.Fatal("empty requirement must grant access")
	}
	if !CanAccess([]int64{}, []int64{1, 2, 3}) {
		t.Fatal("empty requirement must grant access regardless of held set")
	}
}

func TestCanAccessNoOverlap(t *testing.T) {
	if CanAccess([]int64{PermPayroll}, nil) {
		t.Fatal("empty held set must be denied")
	}
	if CanAccess([]int64{PermPayroll}, []int64{PermAttendance}) {
		t.Fatal("disjoint sets must be denied")
	}
}

func TestCanAccessAnyOf(t *testing.T) {
	// Holding just one of several required permissions is enough.
	if !CanAccess([]int64{PermEmployeesView, PermEmployeesEdit}, []int64{PermEmployeesEdit}) {
		t.Fatal("ANY-of semantics: single overlap must grant access")
	}
}
