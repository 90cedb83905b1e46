package model

import "testing"

func TestFieldTypeIsValid(t *testing.T) {
	if FieldType("markdown").IsValid() {
		t.Error("unknown field type should be invalid")
	}
	if !FieldMultiSelect.IsValid() {
		t.Error("multi_select should be valid")
	}
	if FieldNumber.String() != "number" {
		t.Errorf("FieldNumber.String() = %q", FieldNumber.String())
	}
}

func TestPlanIsValid(t *testing.T) {
	for _, p := range []Plan{PlanFree, PlanPro, PlanCompany} {
		if !p.IsValid() {
			t.Errorf("plan %q should be valid", p)
		}
	}
	if Plan("enterprise").IsValid() {
		t.Error("unknown plan should be invalid")
	}
}

func TestBugEnums(t *testing.T) {
	if BugSeverity("extreme").IsValid() {
		t.Error("unknown severity should be invalid")
	}
	if !BugInProgress.IsValid() {
		t.Error("in_progress should be valid")
	}
}

func TestContentEnums(t *testing.T) {
	if ContentType("changelog").IsValid() {
		t.Error("unknown content type should be invalid")
	}
	if !ContentPublished.IsValid() {
		t.Error("published should be valid")
	}
}
