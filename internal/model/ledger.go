package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PartyType enum constants
const (
	PartyClient     = "client"
	PartySupplier   = "supplier"
	PartyContractor = "contractor"
	PartyWorker     = "worker"
)

// Ledger is a per-party account book (client, supplier, contractor or
// worker) under a project.
type Ledger struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	Owned
	Governed
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	PartyType      string          `gorm:"type:varchar(20);not null;default:'client'" json:"party_type"`
	Phone          string          `gorm:"type:varchar(20)" json:"phone"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"opening_balance"`
	Notes          string          `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (l *Ledger) GetID() uuid.UUID       { return l.ID }
func (l *Ledger) ResourceModule() Module { return ModuleLedger }
