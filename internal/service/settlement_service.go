package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nirman/internal/model"
	"nirman/pkg/apperror"
)

// AddSettlementRequest carries one partial payment against a record.
type AddSettlementRequest struct {
	SettlementDate       time.Time       `json:"settlement_date" binding:"required"`
	AmountPaid           decimal.Decimal `json:"amount_paid" binding:"required"`
	PaymentMode          string          `json:"payment_mode" binding:"required"`
	Remarks              string          `json:"remarks"`
	ConvertToTransaction bool            `json:"convert_to_transaction"`
}

// SettlementResult returns the appended settlement together with the
// record's recomputed totals.
type SettlementResult struct {
	Settlement model.Settlement `json:"settlement"`
	Record     model.Record     `json:"record"`
}

// SettlementService maintains record totals as payments come in.
type SettlementService interface {
	AddSettlement(ctx context.Context, actor Actor, recordID uuid.UUID, req AddSettlementRequest) (SettlementResult, error)
	ListSettlements(ctx context.Context, actor Actor, recordID uuid.UUID) ([]model.Settlement, error)
}

type settlementService struct {
	db        *gorm.DB
	audit     AuditService
	txTimeout time.Duration
}

// NewSettlementService creates the settlement service. txTimeout bounds the
// settlement transaction; zero means the default of 30s.
func NewSettlementService(db *gorm.DB, audit AuditService, txTimeout time.Duration) SettlementService {
	if txTimeout <= 0 {
		txTimeout = 30 * time.Second
	}
	return &settlementService{db: db, audit: audit, txTimeout: txTimeout}
}

// AddSettlement appends an immutable settlement to a record and recomputes
// the derived totals from the full settlement history, all inside one
// database transaction with the record row locked. Settlements never pass
// through the approval queue: the parent record was already approved, and a
// generated transaction is created pre-approved for the same reason.
func (s *settlementService) AddSettlement(ctx context.Context, actor Actor, recordID uuid.UUID, req AddSettlementRequest) (SettlementResult, error) {
	if !req.AmountPaid.IsPositive() {
		return SettlementResult{}, apperror.Validation("amount_paid must be positive")
	}
	if req.SettlementDate.IsZero() {
		return SettlementResult{}, apperror.Validation("settlement_date is required")
	}
	if req.PaymentMode == "" {
		return SettlementResult{}, apperror.Validation("payment_mode is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	var (
		record     model.Record
		settlement model.Settlement
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the record row so two concurrent settlements cannot both
		// read the same history and write stale totals.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&record, "id = ? AND organization_id = ?", recordID, actor.OrganizationID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("record not found")
		}
		if err != nil {
			return err
		}

		settlement = model.Settlement{
			OrganizationID: actor.OrganizationID,
			RecordID:       record.ID,
			SettlementDate: req.SettlementDate,
			AmountPaid:     req.AmountPaid,
			PaymentMode:    req.PaymentMode,
			Remarks:        req.Remarks,
			CreatedBy:      &actor.UserID,
		}
		if err := tx.Create(&settlement).Error; err != nil {
			return fmt.Errorf("failed to create settlement: %w", err)
		}

		if req.ConvertToTransaction {
			txn := model.Transaction{
				ProjectID: record.ProjectID,
				LedgerID:  record.LedgerID,
				Owned:     model.Owned{OrganizationID: actor.OrganizationID},
				Governed: model.Governed{
					ApprovalStatus: model.ApprovalApproved,
					SubmittedBy:    &actor.UserID,
				},
				Type:        model.TxnCredit,
				Amount:      req.AmountPaid,
				TxnDate:     req.SettlementDate,
				PaymentMode: req.PaymentMode,
				Description: fmt.Sprintf("Settlement against %s", record.PartyName),
			}
			if err := tx.Create(&txn).Error; err != nil {
				return fmt.Errorf("failed to create transaction from settlement: %w", err)
			}
			settlement.TransactionID = &txn.ID
			if err := tx.Model(&settlement).Update("transaction_id", txn.ID).Error; err != nil {
				return fmt.Errorf("failed to link settlement to transaction: %w", err)
			}
		}

		// Recompute from the full history including the new settlement.
		var history []model.Settlement
		if err := tx.Where("record_id = ?", record.ID).Find(&history).Error; err != nil {
			return fmt.Errorf("failed to load settlement history: %w", err)
		}
		paid, balance, status := model.RecomputeTotals(record.Amount, history)

		if err := tx.Model(&record).Updates(map[string]any{
			"paid_amount":    paid,
			"balance_amount": balance,
			"status":         status,
		}).Error; err != nil {
			return fmt.Errorf("failed to update record totals: %w", err)
		}
		record.PaidAmount = paid
		record.BalanceAmount = balance
		record.Status = status
		return nil
	})
	if err != nil {
		return SettlementResult{}, err
	}

	s.audit.Log(ctx, actor.OrganizationID, &actor.UserID, model.ActionAddSettlement, string(model.ModuleRecord), record.ID, map[string]any{
		"settlement_id": settlement.ID.String(),
		"amount_paid":   req.AmountPaid.StringFixed(2),
		"status":        record.Status,
	})

	return SettlementResult{Settlement: settlement, Record: record}, nil
}

func (s *settlementService) ListSettlements(ctx context.Context, actor Actor, recordID uuid.UUID) ([]model.Settlement, error) {
	var record model.Record
	err := s.db.WithContext(ctx).First(&record, "id = ? AND organization_id = ?", recordID, actor.OrganizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("record not found")
	}
	if err != nil {
		return nil, err
	}

	var settlements []model.Settlement
	if err := s.db.WithContext(ctx).
		Where("record_id = ?", recordID).
		Order("settlement_date asc, created_at asc").
		Find(&settlements).Error; err != nil {
		return nil, err
	}
	return settlements, nil
}
