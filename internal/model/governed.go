package model

import (
	"github.com/google/uuid"
)

// Module identifies one of the governed resource kinds.
type Module string

const (
	ModuleLedger         Module = "ledger"
	ModuleTransaction    Module = "transaction"
	ModuleRecord         Module = "record"
	ModuleTask           Module = "task"
	ModuleMaterial       Module = "material"
	ModuleMaterialLedger Module = "material-ledger"
	ModuleHajari         Module = "hajari"
	ModulePhoto          Module = "photo"
	ModuleDocument       Module = "document"
)

// ApprovalStatus enum constants
const (
	ApprovalApproved      = "approved"
	ApprovalPendingCreate = "pending-create"
	ApprovalPendingEdit   = "pending-edit"
	ApprovalPendingDelete = "pending-delete"
	ApprovalRejected      = "rejected"
)

// Owned ties a resource to exactly one organization (tenant).
// Every governed table carries this; tenant equality is checked on every
// read and write.
type Owned struct {
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
}

func (o *Owned) GetOrganizationID() uuid.UUID { return o.OrganizationID }

func (o *Owned) SetOrganizationID(id uuid.UUID) { o.OrganizationID = id }

// Governed holds the approval-workflow columns shared by all nine governed
// resource kinds. PendingData is a JSON snapshot of the proposed field
// changes and is only meaningful while ApprovalStatus is pending-edit.
type Governed struct {
	ApprovalStatus string     `gorm:"type:varchar(20);not null;default:'approved';index" json:"approval_status"`
	PendingData    string     `gorm:"type:text" json:"pending_data,omitempty"` // JSON-encoded diff; empty when nothing is pending
	SubmittedBy    *uuid.UUID `gorm:"type:uuid" json:"submitted_by,omitempty"`
	RequestMessage string     `gorm:"type:text" json:"request_message,omitempty"`
	ReviewRemarks  string     `gorm:"type:text" json:"review_remarks,omitempty"`
	RejectionCount int        `gorm:"not null;default:0" json:"rejection_count"`
}

func (g *Governed) Approval() *Governed { return g }

// Pending reports whether the resource is awaiting an admin decision.
func (g *Governed) Pending() bool {
	switch g.ApprovalStatus {
	case ApprovalPendingCreate, ApprovalPendingEdit, ApprovalPendingDelete:
		return true
	}
	return false
}

// GovernedResource is implemented by all nine governed models.
type GovernedResource interface {
	GetID() uuid.UUID
	GetOrganizationID() uuid.UUID
	SetOrganizationID(uuid.UUID)
	Approval() *Governed
	ResourceModule() Module
}

// governedFactories maps each module tag to constructors for a single
// instance and for a slice, both usable directly with GORM.
var governedFactories = map[Module]struct {
	one  func() GovernedResource
	many func() any
}{
	ModuleLedger:         {func() GovernedResource { return &Ledger{} }, func() any { return &[]Ledger{} }},
	ModuleTransaction:    {func() GovernedResource { return &Transaction{} }, func() any { return &[]Transaction{} }},
	ModuleRecord:         {func() GovernedResource { return &Record{} }, func() any { return &[]Record{} }},
	ModuleTask:           {func() GovernedResource { return &Task{} }, func() any { return &[]Task{} }},
	ModuleMaterial:       {func() GovernedResource { return &Material{} }, func() any { return &[]Material{} }},
	ModuleMaterialLedger: {func() GovernedResource { return &MaterialLedgerEntry{} }, func() any { return &[]MaterialLedgerEntry{} }},
	ModuleHajari:         {func() GovernedResource { return &Hajari{} }, func() any { return &[]Hajari{} }},
	ModulePhoto:          {func() GovernedResource { return &Photo{} }, func() any { return &[]Photo{} }},
	ModuleDocument:       {func() GovernedResource { return &Document{} }, func() any { return &[]Document{} }},
}

// GovernedModules returns the module tags in a stable order, used for
// fan-out reads such as the pending-approvals listing.
func GovernedModules() []Module {
	return []Module{
		ModuleLedger, ModuleTransaction, ModuleRecord, ModuleTask,
		ModuleMaterial, ModuleMaterialLedger, ModuleHajari, ModulePhoto,
		ModuleDocument,
	}
}

// NewGovernedResource returns a fresh instance of the model behind a module
// tag. The second return is false for an unknown tag.
func NewGovernedResource(m Module) (GovernedResource, bool) {
	f, ok := governedFactories[m]
	if !ok {
		return nil, false
	}
	return f.one(), true
}

// NewGovernedSlice returns a pointer to an empty typed slice for the module,
// suitable for a GORM Find.
func NewGovernedSlice(m Module) (any, bool) {
	f, ok := governedFactories[m]
	if !ok {
		return nil, false
	}
	return f.many(), true
}
