package transaction

import (
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache memory database keeps every pooled connection on
	// the same data; the test name keeps databases isolated between tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	err = db.AutoMigrate(
		&Cashbox{},
		&Transaction{},
		&IdempotencyRecord{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return db
}

func mustCreateCashbox(t *testing.T, service *Service, initial float64) *Cashbox {
	t.Helper()
	cashbox, err := service.CreateCashbox(CreateCashboxRequest{
		Name:           "Site Office",
		InitialBalance: initial,
	})
	if err != nil {
		t.Fatalf("CreateCashbox() error = %v", err)
	}
	return cashbox
}

func cashboxBalance(t *testing.T, service *Service, cashboxID string) float64 {
	t.Helper()
	cashbox, err := service.GetCashbox(cashboxID)
	if err != nil {
		t.Fatalf("GetCashbox() error = %v", err)
	}
	return cashbox.CurrentBalance
}

func TestCreateCashboxSeedsCurrentBalance(t *testing.T) {
	service := NewService(newTestDB(t))

	cashbox := mustCreateCashbox(t, service, 25000)
	if cashbox.CurrentBalance != 25000 {
		t.Errorf("current balance = %v, want 25000", cashbox.CurrentBalance)
	}
	if cashbox.CashboxID == "" {
		t.Error("cashbox ID not assigned")
	}
}

func TestCreateTransactionMovesCashboxBalance(t *testing.T) {
	service := NewService(newTestDB(t))
	cashbox := mustCreateCashbox(t, service, 10000)

	_, err := service.CreateTransaction(CreateTransactionRequest{
		Type:      TypeReceipt,
		Amount:    4000,
		ProjectID: "PRJ_1",
		CashboxID: cashbox.CashboxID,
	}, "")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if got := cashboxBalance(t, service, cashbox.CashboxID); math.Abs(got-14000) > 0.01 {
		t.Errorf("balance after receipt = %v, want 14000", got)
	}

	_, err = service.CreateTransaction(CreateTransactionRequest{
		Type:      TypePayment,
		Amount:    1500,
		ProjectID: "PRJ_1",
		CashboxID: cashbox.CashboxID,
	}, "")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	if got := cashboxBalance(t, service, cashbox.CashboxID); math.Abs(got-12500) > 0.01 {
		t.Errorf("balance after payment = %v, want 12500", got)
	}
}

func TestCreateTransactionDefaultsDate(t *testing.T) {
	service := NewService(newTestDB(t))

	txn, err := service.CreateTransaction(CreateTransactionRequest{
		Type:      TypeReceipt,
		Amount:    100,
		ProjectID: "PRJ_1",
	}, "")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if txn.Date.IsZero() {
		t.Error("date not defaulted")
	}
}

func TestCreateTransactionIdempotency(t *testing.T) {
	service := NewService(newTestDB(t))
	cashbox := mustCreateCashbox(t, service, 0)

	req := CreateTransactionRequest{
		Type:      TypeReceipt,
		Amount:    5000,
		ProjectID: "PRJ_1",
		CashboxID: cashbox.CashboxID,
	}

	first, err := service.CreateTransaction(req, "key-123")
	if err != nil {
		t.Fatalf("first CreateTransaction() error = %v", err)
	}

	// A retried request with the same key returns the original transaction
	// and does not touch the cashbox again.
	second, err := service.CreateTransaction(req, "key-123")
	if err != nil {
		t.Fatalf("second CreateTransaction() error = %v", err)
	}
	if second.TransactionID != first.TransactionID {
		t.Errorf("retry created %s, want %s", second.TransactionID, first.TransactionID)
	}

	if got := cashboxBalance(t, service, cashbox.CashboxID); math.Abs(got-5000) > 0.01 {
		t.Errorf("balance = %v, want 5000", got)
	}

	txns, err := service.GetTransactions(TransactionFilter{ProjectID: "PRJ_1"})
	if err != nil {
		t.Fatalf("GetTransactions() error = %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("got %d transactions, want 1", len(txns))
	}
}

func TestUpdateTransactionAdjustsCashboxByDelta(t *testing.T) {
	service := NewService(newTestDB(t))
	cashbox := mustCreateCashbox(t, service, 0)

	txn, err := service.CreateTransaction(CreateTransactionRequest{
		Type:      TypeReceipt,
		Amount:    3000,
		ProjectID: "PRJ_1",
		CashboxID: cashbox.CashboxID,
	}, "")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	newAmount := 2000.0
	if _, err := service.UpdateTransaction(txn.TransactionID, UpdateTransactionRequest{
		Amount: &newAmount,
	}); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	if got := cashboxBalance(t, service, cashbox.CashboxID); math.Abs(got-2000) > 0.01 {
		t.Errorf("balance after amount change = %v, want 2000", got)
	}

	// Flipping the type reverses the signed effect.
	payment := TypePayment
	if _, err := service.UpdateTransaction(txn.TransactionID, UpdateTransactionRequest{
		Type: &payment,
	}); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	if got := cashboxBalance(t, service, cashbox.CashboxID); math.Abs(got-(-2000)) > 0.01 {
		t.Errorf("balance after type flip = %v, want -2000", got)
	}
}

func TestDeleteTransactionReversesCashboxEffect(t *testing.T) {
	service := NewService(newTestDB(t))
	cashbox := mustCreateCashbox(t, service, 8000)

	txn, err := service.CreateTransaction(CreateTransactionRequest{
		Type:      TypePayment,
		Amount:    3000,
		ProjectID: "PRJ_1",
		CashboxID: cashbox.CashboxID,
	}, "")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if got := cashboxBalance(t, service, cashbox.CashboxID); math.Abs(got-5000) > 0.01 {
		t.Fatalf("balance after payment = %v, want 5000", got)
	}

	if err := service.DeleteTransaction(txn.TransactionID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if got := cashboxBalance(t, service, cashbox.CashboxID); math.Abs(got-8000) > 0.01 {
		t.Errorf("balance after delete = %v, want 8000", got)
	}

	if _, err := service.GetTransaction(txn.TransactionID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("err = %v, want record not found", err)
	}
}

func TestSettledTransactionIsFrozen(t *testing.T) {
	db := newTestDB(t)
	service := NewService(db)

	txn, err := service.CreateTransaction(CreateTransactionRequest{
		Type:      TypeReceipt,
		Amount:    1000,
		ProjectID: "PRJ_1",
		PartnerID: "PRT_A",
		Date:      time.Now(),
	}, "")
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}

	err = db.Model(&Transaction{}).
		Where("transaction_id = ?", txn.TransactionID).
		Update("settlement_run_id", "RUN_test").Error
	if err != nil {
		t.Fatalf("failed to stamp transaction: %v", err)
	}

	amount := 2000.0
	if _, err := service.UpdateTransaction(txn.TransactionID, UpdateTransactionRequest{
		Amount: &amount,
	}); !errors.Is(err, ErrTransactionSettled) {
		t.Errorf("update err = %v, want ErrTransactionSettled", err)
	}

	if err := service.DeleteTransaction(txn.TransactionID); !errors.Is(err, ErrTransactionSettled) {
		t.Errorf("delete err = %v, want ErrTransactionSettled", err)
	}
}

func TestGetTransactionsFilter(t *testing.T) {
	service := NewService(newTestDB(t))

	for _, seed := range []CreateTransactionRequest{
		{Type: TypeReceipt, Amount: 100, ProjectID: "PRJ_1", PartnerID: "PRT_A"},
		{Type: TypePayment, Amount: 200, ProjectID: "PRJ_1", PartnerID: "PRT_B"},
		{Type: TypeReceipt, Amount: 300, ProjectID: "PRJ_2", PartnerID: "PRT_A"},
	} {
		if _, err := service.CreateTransaction(seed, ""); err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
	}

	tests := []struct {
		name   string
		filter TransactionFilter
		want   int
	}{
		{"by project", TransactionFilter{ProjectID: "PRJ_1"}, 2},
		{"by partner", TransactionFilter{PartnerID: "PRT_A"}, 2},
		{"by type", TransactionFilter{Type: TypePayment}, 1},
		{"project and partner", TransactionFilter{ProjectID: "PRJ_1", PartnerID: "PRT_A"}, 1},
		{"no filter", TransactionFilter{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns, err := service.GetTransactions(tt.filter)
			if err != nil {
				t.Fatalf("GetTransactions() error = %v", err)
			}
			if len(txns) != tt.want {
				t.Errorf("got %d transactions, want %d", len(txns), tt.want)
			}
		})
	}
}
