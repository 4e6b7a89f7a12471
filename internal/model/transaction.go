package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType enum constants
const (
	TxnCredit = "credit"
	TxnDebit  = "debit"
)

// PaymentMode enum constants
const (
	PayCash   = "cash"
	PayCheque = "cheque"
	PayBank   = "bank-transfer"
	PayUPI    = "upi"
)

// Transaction is a single money movement against a ledger. Settlements on a
// Record may generate one automatically; those are created pre-approved.
type Transaction struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index" json:"project_id,omitempty"`
	LedgerID  *uuid.UUID `gorm:"type:uuid;index" json:"ledger_id,omitempty"`
	Owned
	Governed
	Type        string          `gorm:"type:varchar(10);not null" json:"type"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	TxnDate     time.Time       `gorm:"not null;index" json:"txn_date"`
	PaymentMode string          `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_mode"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (t *Transaction) GetID() uuid.UUID       { return t.ID }
func (t *Transaction) ResourceModule() Module { return ModuleTransaction }
