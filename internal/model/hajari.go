package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Hajari is a daily labor-attendance entry: which worker showed up on a
// project, for how many shifts, at what wage.
type Hajari struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	LedgerID  *uuid.UUID `gorm:"type:uuid;index" json:"ledger_id,omitempty"` // worker's ledger, if one exists
	Owned
	Governed
	WorkerName     string          `gorm:"type:varchar(255);not null" json:"worker_name"`
	AttendanceDate time.Time       `gorm:"not null;index" json:"attendance_date"`
	Shifts         decimal.Decimal `gorm:"type:decimal(4,2);not null;default:1" json:"shifts"` // 0.5 = half day
	WageRate       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"wage_rate"`
	Remarks        string          `gorm:"type:text" json:"remarks"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (h *Hajari) GetID() uuid.UUID       { return h.ID }
func (h *Hajari) ResourceModule() Module { return ModuleHajari }
