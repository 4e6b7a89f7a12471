package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"nirman/internal/approval"
	"nirman/internal/model"
	"nirman/internal/repository"
	"nirman/pkg/apperror"
)

func TestSanitizePayloadStripsProtectedColumns(t *testing.T) {
	payload := map[string]any{
		"name":            "Cement supplier",
		"id":              uuid.New().String(),
		"organization_id": uuid.New().String(),
		"approval_status": "approved",
		"pending_data":    "{}",
		"rejection_count": 99,
	}
	got := sanitizePayload(model.ModuleLedger, payload)
	if len(got) != 1 || got["name"] != "Cement supplier" {
		t.Errorf("sanitized payload = %v, want only name", got)
	}
}

func TestSanitizePayloadStripsDerivedRecordColumns(t *testing.T) {
	payload := map[string]any{
		"party_name":     "Sharma Traders",
		"amount":         "1000",
		"paid_amount":    "999",
		"balance_amount": "1",
		"status":         "paid",
	}
	got := sanitizePayload(model.ModuleRecord, payload)
	if _, ok := got["paid_amount"]; ok {
		t.Error("paid_amount must not pass through on records")
	}
	if _, ok := got["status"]; ok {
		t.Error("status must not pass through on records")
	}
	if got["party_name"] != "Sharma Traders" || got["amount"] != "1000" {
		t.Errorf("legitimate fields were stripped: %v", got)
	}

	// status is derived only on records; other modules keep it.
	task := sanitizePayload(model.ModuleTask, map[string]any{"status": "done"})
	if task["status"] != "done" {
		t.Error("task status should pass through")
	}
}

// --- integration tests (need a PostgreSQL database) ---

// setupTestDB connects using TEST_DB_DSN (key=value form) and isolates the
// test in a throwaway schema. Tests are skipped when the variable is unset.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping database integration test")
	}

	schema := fmt.Sprintf("test_nirman_%d", time.Now().UnixNano()%1000000)
	setupDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connecting for schema setup: %v", err)
	}
	setupDB.Exec("CREATE SCHEMA IF NOT EXISTS " + schema)
	if sqlDB, err := setupDB.DB(); err == nil {
		sqlDB.Close()
	}

	db, err := gorm.Open(postgres.Open(dsn+" search_path="+schema), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("connecting to test schema: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DROP SCHEMA IF EXISTS " + schema + " CASCADE")
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	err = db.AutoMigrate(
		&model.Organization{}, &model.User{},
		&model.Ledger{}, &model.Transaction{}, &model.Record{}, &model.Settlement{},
		&model.Task{}, &model.Material{}, &model.MaterialLedgerEntry{},
		&model.Hajari{}, &model.Photo{}, &model.Document{},
		&model.Notification{}, &model.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrating test tables: %v", err)
	}
	return db
}

type testEnv struct {
	db        *gorm.DB
	resources ResourceService
	admin     Actor
	user      Actor
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)

	org := model.Organization{Name: "Test Constructions"}
	if err := db.Create(&org).Error; err != nil {
		t.Fatal(err)
	}
	adminUser := model.User{OrganizationID: org.ID, Name: "Admin", Email: fmt.Sprintf("admin-%s@test.local", uuid.NewString()), Password: "x", Role: model.RoleAdmin}
	normalUser := model.User{OrganizationID: org.ID, Name: "Member", Email: fmt.Sprintf("member-%s@test.local", uuid.NewString()), Password: "x", Role: model.RoleUser}
	if err := db.Create(&adminUser).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&normalUser).Error; err != nil {
		t.Fatal(err)
	}

	users := repository.NewUserRepository(db)
	audit := NewAuditService(db)
	notifier := NewNotificationService(db, users, nil)
	return &testEnv{
		db:        db,
		resources: NewResourceService(db, audit, notifier),
		admin:     Actor{UserID: adminUser.ID, OrganizationID: org.ID, Role: model.RoleAdmin},
		user:      Actor{UserID: normalUser.ID, OrganizationID: org.ID, Role: model.RoleUser},
	}
}

func TestEditThenApproveScenario(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	created, err := env.resources.Create(ctx, env.user, model.ModuleLedger,
		map[string]any{"name": "Old", "party_type": model.PartySupplier}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Matrix: user creates apply immediately.
	if created.Approval().ApprovalStatus != model.ApprovalApproved {
		t.Fatalf("create status = %s, want approved", created.Approval().ApprovalStatus)
	}

	edited, err := env.resources.Edit(ctx, env.user, model.ModuleLedger, created.GetID(),
		map[string]any{"name": "New"}, "fixing the name")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if edited.Approval().ApprovalStatus != model.ApprovalPendingEdit {
		t.Fatalf("edit status = %s, want pending-edit", edited.Approval().ApprovalStatus)
	}

	// The live name is untouched while the request is pending.
	var live model.Ledger
	if err := env.db.First(&live, "id = ?", created.GetID()).Error; err != nil {
		t.Fatal(err)
	}
	if live.Name != "Old" {
		t.Fatalf("live name = %q, want Old while pending", live.Name)
	}

	result, err := env.resources.Resolve(ctx, env.admin, model.ModuleLedger, created.GetID(), approval.DecisionApproved, "ok")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if result.Action != string(approval.ResolutionEdited) {
		t.Fatalf("action = %s, want edited", result.Action)
	}

	if err := env.db.First(&live, "id = ?", created.GetID()).Error; err != nil {
		t.Fatal(err)
	}
	if live.Name != "New" {
		t.Errorf("name = %q, want New after approval", live.Name)
	}
	if live.ApprovalStatus != model.ApprovalApproved {
		t.Errorf("status = %s, want approved", live.ApprovalStatus)
	}
	if live.PendingData != "" {
		t.Errorf("pending data = %q, want cleared", live.PendingData)
	}
}

func TestDeleteThenRejectScenario(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	created, err := env.resources.Create(ctx, env.user, model.ModuleTask,
		map[string]any{"name": "Pour foundation"}, "")
	if err != nil {
		t.Fatal(err)
	}

	del, err := env.resources.Delete(ctx, env.user, model.ModuleTask, created.GetID(), "duplicate entry")
	if err != nil {
		t.Fatal(err)
	}
	if del.Status != model.ApprovalPendingDelete {
		t.Fatalf("delete status = %s, want pending-delete", del.Status)
	}

	// Still fully readable while pending.
	if _, err := env.resources.Get(ctx, env.user, model.ModuleTask, created.GetID()); err != nil {
		t.Fatalf("pending-delete task should remain readable: %v", err)
	}

	result, err := env.resources.Resolve(ctx, env.admin, model.ModuleTask, created.GetID(), approval.DecisionRejected, "not a duplicate")
	if err != nil {
		t.Fatal(err)
	}
	if result.Action != string(approval.ResolutionRejected) {
		t.Fatalf("action = %s, want rejected", result.Action)
	}

	var task model.Task
	if err := env.db.First(&task, "id = ?", created.GetID()).Error; err != nil {
		t.Fatalf("rejected task must still exist: %v", err)
	}
	if task.ApprovalStatus != model.ApprovalRejected {
		t.Errorf("status = %s, want rejected", task.ApprovalStatus)
	}
	if task.RejectionCount != 1 {
		t.Errorf("rejection count = %d, want 1", task.RejectionCount)
	}
	if task.Name != "Pour foundation" {
		t.Errorf("name = %q, task should be unchanged", task.Name)
	}
}

func TestAdminDeleteAppliesImmediately(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	created, err := env.resources.Create(ctx, env.admin, model.ModuleMaterial,
		map[string]any{"name": "Cement", "unit": "bag"}, "")
	if err != nil {
		t.Fatal(err)
	}

	del, err := env.resources.Delete(ctx, env.admin, model.ModuleMaterial, created.GetID(), "")
	if err != nil {
		t.Fatal(err)
	}
	if del.Status != "deleted" {
		t.Fatalf("status = %s, want deleted", del.Status)
	}
	var count int64
	env.db.Model(&model.Material{}).Where("id = ?", created.GetID()).Count(&count)
	if count != 0 {
		t.Error("admin delete should remove the row")
	}
}

func TestTenantIsolation(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	created, err := env.resources.Create(ctx, env.admin, model.ModuleLedger,
		map[string]any{"name": "Org A ledger"}, "")
	if err != nil {
		t.Fatal(err)
	}

	// A caller from another organization gets NotFound, never the data.
	otherOrg := model.Organization{Name: "Other Org"}
	if err := env.db.Create(&otherOrg).Error; err != nil {
		t.Fatal(err)
	}
	outsider := Actor{UserID: uuid.New(), OrganizationID: otherOrg.ID, Role: model.RoleAdmin}

	if _, err := env.resources.Get(ctx, outsider, model.ModuleLedger, created.GetID()); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("cross-tenant get: expected NotFound, got %v", err)
	}
	if _, err := env.resources.Edit(ctx, outsider, model.ModuleLedger, created.GetID(), map[string]any{"name": "stolen"}, ""); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("cross-tenant edit: expected NotFound, got %v", err)
	}
	if _, err := env.resources.Delete(ctx, outsider, model.ModuleLedger, created.GetID(), ""); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("cross-tenant delete: expected NotFound, got %v", err)
	}
	if _, err := env.resources.Resolve(ctx, outsider, model.ModuleLedger, created.GetID(), approval.DecisionApproved, ""); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("cross-tenant resolve: expected NotFound, got %v", err)
	}
}

func TestListPendingFanOut(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	ledger, err := env.resources.Create(ctx, env.user, model.ModuleLedger, map[string]any{"name": "L"}, "")
	if err != nil {
		t.Fatal(err)
	}
	task, err := env.resources.Create(ctx, env.user, model.ModuleTask, map[string]any{"name": "T"}, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := env.resources.Edit(ctx, env.user, model.ModuleLedger, ledger.GetID(), map[string]any{"name": "L2"}, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := env.resources.Delete(ctx, env.user, model.ModuleTask, task.GetID(), ""); err != nil {
		t.Fatal(err)
	}

	pending, err := env.resources.ListPending(ctx, env.admin)
	if err != nil {
		t.Fatal(err)
	}
	ledgers, ok := pending[model.ModuleLedger].(*[]model.Ledger)
	if !ok || len(*ledgers) != 1 {
		t.Errorf("expected 1 pending ledger, got %v", pending[model.ModuleLedger])
	}
	tasks, ok := pending[model.ModuleTask].(*[]model.Task)
	if !ok || len(*tasks) != 1 {
		t.Errorf("expected 1 pending task, got %v", pending[model.ModuleTask])
	}

	if _, err := env.resources.ListPending(ctx, env.user); !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("non-admin pending list: expected Forbidden, got %v", err)
	}
}

func TestSettlementToPaidScenario(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	settlements := NewSettlementService(env.db, NewAuditService(env.db), 0)

	created, err := env.resources.Create(ctx, env.admin, model.ModuleRecord,
		map[string]any{"party_name": "Sharma Traders", "amount": "1000"}, "")
	if err != nil {
		t.Fatal(err)
	}
	recordID := created.GetID()

	first, err := settlements.AddSettlement(ctx, env.admin, recordID, AddSettlementRequest{
		SettlementDate: time.Now(),
		AmountPaid:     decimal.RequireFromString("400"),
		PaymentMode:    model.PayCash,
	})
	if err != nil {
		t.Fatalf("first settlement: %v", err)
	}
	if first.Record.Status != model.RecordPartial {
		t.Errorf("status = %s, want partial", first.Record.Status)
	}
	if !first.Record.BalanceAmount.Equal(decimal.RequireFromString("600")) {
		t.Errorf("balance = %s, want 600", first.Record.BalanceAmount)
	}

	second, err := settlements.AddSettlement(ctx, env.admin, recordID, AddSettlementRequest{
		SettlementDate:       time.Now(),
		AmountPaid:           decimal.RequireFromString("600"),
		PaymentMode:          model.PayBank,
		ConvertToTransaction: true,
	})
	if err != nil {
		t.Fatalf("second settlement: %v", err)
	}
	if second.Record.Status != model.RecordPaid {
		t.Errorf("status = %s, want paid", second.Record.Status)
	}
	if !second.Record.BalanceAmount.IsZero() {
		t.Errorf("balance = %s, want 0", second.Record.BalanceAmount)
	}
	if second.Settlement.TransactionID == nil {
		t.Fatal("second settlement should link a generated transaction")
	}

	var txn model.Transaction
	if err := env.db.First(&txn, "id = ?", *second.Settlement.TransactionID).Error; err != nil {
		t.Fatalf("linked transaction missing: %v", err)
	}
	if txn.ApprovalStatus != model.ApprovalApproved {
		t.Errorf("generated transaction status = %s, want approved", txn.ApprovalStatus)
	}
	if !txn.Amount.Equal(decimal.RequireFromString("600")) {
		t.Errorf("generated transaction amount = %s, want 600", txn.Amount)
	}

	var txnCount int64
	env.db.Model(&model.Transaction{}).Count(&txnCount)
	if txnCount != 1 {
		t.Errorf("transaction count = %d, want exactly 1", txnCount)
	}

	if _, err := settlements.AddSettlement(ctx, env.admin, uuid.New(), AddSettlementRequest{
		SettlementDate: time.Now(),
		AmountPaid:     decimal.RequireFromString("10"),
		PaymentMode:    model.PayCash,
	}); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("missing record: expected NotFound, got %v", err)
	}
}
