package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialEntryType enum constants
const (
	MaterialIn  = "in"
	MaterialOut = "out"
)

// Material is a catalogue item (cement, rebar, sand...) tracked per
// organization.
type Material struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Owned
	Governed
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Unit      string    `gorm:"type:varchar(20);not null;default:'unit'" json:"unit"` // bag, kg, m3, piece
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Material) GetID() uuid.UUID       { return m.ID }
func (m *Material) ResourceModule() Module { return ModuleMaterial }

// MaterialLedgerEntry records material moving in or out of a project site.
type MaterialLedgerEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID  *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	MaterialID *uuid.UUID `gorm:"type:uuid;index" json:"material_id,omitempty"`
	Owned
	Governed
	EntryType string          `gorm:"type:varchar(10);not null" json:"entry_type"`
	Quantity  decimal.Decimal `gorm:"type:decimal(18,3);not null" json:"quantity"`
	Rate      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"rate"`
	EntryDate time.Time       `gorm:"not null;index" json:"entry_date"`
	Remarks   string          `gorm:"type:text" json:"remarks"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (m *MaterialLedgerEntry) GetID() uuid.UUID       { return m.ID }
func (m *MaterialLedgerEntry) ResourceModule() Module { return ModuleMaterialLedger }
