package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordStatus enum constants
const (
	RecordPending = "pending"
	RecordPartial = "partial"
	RecordPaid    = "paid"
)

// Record is an invoice-like entity tracking an amount owed against a party.
// PaidAmount and BalanceAmount are derived from the settlement history and
// never written directly by callers.
type Record struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	LedgerID  *uuid.UUID `gorm:"type:uuid;index" json:"ledger_id,omitempty"`
	Owned
	Governed
	PartyName     string          `gorm:"type:varchar(255);not null" json:"party_name"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"paid_amount"`
	BalanceAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance_amount"`
	Status        string          `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	Description   string          `gorm:"type:text" json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (r *Record) GetID() uuid.UUID       { return r.ID }
func (r *Record) ResourceModule() Module { return ModuleRecord }

// Settlement is an immutable partial-payment fact against a Record.
// Corrections are made by appending a new settlement, never by editing.
type Settlement struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	RecordID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"record_id"`
	TransactionID  *uuid.UUID      `gorm:"type:uuid" json:"transaction_id,omitempty"` // set when converted to a ledger transaction
	SettlementDate time.Time       `gorm:"not null" json:"settlement_date"`
	AmountPaid     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount_paid"`
	PaymentMode    string          `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_mode"`
	Remarks        string          `gorm:"type:text" json:"remarks"`
	CreatedBy      *uuid.UUID      `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// RecomputeTotals derives the paid/balance/status triple for a record from
// its full settlement history. Overpayment is allowed: the balance goes
// negative rather than being clamped, and the record simply reads as paid.
func RecomputeTotals(amount decimal.Decimal, settlements []Settlement) (paid, balance decimal.Decimal, status string) {
	paid = decimal.Zero
	for _, s := range settlements {
		paid = paid.Add(s.AmountPaid)
	}
	balance = amount.Sub(paid)

	switch {
	case !paid.IsPositive():
		status = RecordPending
	case paid.GreaterThanOrEqual(amount):
		status = RecordPaid
	default:
		status = RecordPartial
	}
	return paid, balance, status
}
