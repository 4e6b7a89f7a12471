package approval

import (
	"nirman/internal/model"
)

// Action is a mutating operation on a governed resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// modulePolicy says which actions need an admin decision before they take
// effect for non-admin users.
type modulePolicy struct {
	Create bool
	Edit   bool
	Delete bool
}

// approvalMatrix is the static per-module policy, loaded once and never
// mutated at runtime. The values are currently uniform across modules but
// the table stays keyed per module so a single module can diverge without
// touching the lookup.
var approvalMatrix = map[model.Module]modulePolicy{
	model.ModuleLedger:         {Create: false, Edit: true, Delete: true},
	model.ModuleTransaction:    {Create: false, Edit: true, Delete: true},
	model.ModuleRecord:         {Create: false, Edit: true, Delete: true},
	model.ModuleTask:           {Create: false, Edit: true, Delete: true},
	model.ModuleMaterial:       {Create: false, Edit: true, Delete: true},
	model.ModuleMaterialLedger: {Create: false, Edit: true, Delete: true},
	model.ModuleHajari:         {Create: false, Edit: true, Delete: true},
	model.ModulePhoto:          {Create: false, Edit: true, Delete: true},
	model.ModuleDocument:       {Create: false, Edit: true, Delete: true},
}

// RequiresApproval answers whether (module, action) must go through the
// pending queue for the given role. Admins bypass approval unconditionally.
// An unknown module or action fails closed: it reports approval required
// rather than silently letting the mutation through.
func RequiresApproval(m model.Module, action Action, role string) bool {
	if role == model.RoleAdmin {
		return false
	}

	policy, ok := approvalMatrix[m]
	if !ok {
		return true
	}

	switch action {
	case ActionCreate:
		return policy.Create
	case ActionEdit:
		return policy.Edit
	case ActionDelete:
		return policy.Delete
	default:
		return true
	}
}
