package approval

import (
	"testing"

	"nirman/internal/model"
)

func TestAdminBypassesApproval(t *testing.T) {
	for _, m := range model.GovernedModules() {
		for _, action := range []Action{ActionCreate, ActionEdit, ActionDelete} {
			if RequiresApproval(m, action, model.RoleAdmin) {
				t.Errorf("admin should bypass approval for %s %s", action, m)
			}
		}
	}
}

func TestMatrixForUsers(t *testing.T) {
	tests := []struct {
		action Action
		want   bool
	}{
		{ActionCreate, false},
		{ActionEdit, true},
		{ActionDelete, true},
	}
	for _, m := range model.GovernedModules() {
		for _, tt := range tests {
			got := RequiresApproval(m, tt.action, model.RoleUser)
			if got != tt.want {
				t.Errorf("RequiresApproval(%s, %s, user) = %v, want %v", m, tt.action, got, tt.want)
			}
		}
	}
}

func TestUnknownModuleFailsClosed(t *testing.T) {
	if !RequiresApproval(model.Module("bogus"), ActionCreate, model.RoleUser) {
		t.Error("unknown module should require approval")
	}
	if !RequiresApproval(model.ModuleLedger, Action("bogus"), model.RoleUser) {
		t.Error("unknown action should require approval")
	}
}

func TestMatrixCoversAllModules(t *testing.T) {
	for _, m := range model.GovernedModules() {
		if _, ok := approvalMatrix[m]; !ok {
			t.Errorf("approval matrix missing module %s", m)
		}
	}
}
