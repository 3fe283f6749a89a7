package transaction

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) CreateCashbox(cashbox *Cashbox) error {
	return d.db.Create(cashbox).Error
}

func (d *Database) GetCashbox(cashboxID string) (*Cashbox, error) {
	var cashbox Cashbox
	if err := d.db.Where("cashbox_id = ?", cashboxID).First(&cashbox).Error; err != nil {
		return nil, err
	}
	return &cashbox, nil
}

func (d *Database) GetAllCashboxes() ([]Cashbox, error) {
	var cashboxes []Cashbox
	if err := d.db.Order("created_at DESC").Find(&cashboxes).Error; err != nil {
		return nil, err
	}
	return cashboxes, nil
}

func (d *Database) UpdateCashbox(cashbox *Cashbox) error {
	return d.db.Save(cashbox).Error
}

func (d *Database) DeleteCashbox(cashboxID string) error {
	result := d.db.Where("cashbox_id = ?", cashboxID).Delete(&Cashbox{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetIdempotencyRecord looks up a previous creation by its client key
func (d *Database) GetIdempotencyRecord(key string) (*IdempotencyRecord, error) {
	var record IdempotencyRecord
	if err := d.db.Where("key = ?", key).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// CreateTransactionWithIdempotency persists the transaction, records its
// idempotency key and applies the amount to the linked cashbox balance, all
// atomically
func (d *Database) CreateTransactionWithIdempotency(txn *Transaction, idempotencyKey string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(txn).Error; err != nil {
			return err
		}

		if idempotencyKey != "" {
			record := &IdempotencyRecord{
				Key:        idempotencyKey,
				ResourceID: txn.TransactionID,
				ExpiresAt:  time.Now().Add(24 * time.Hour),
				CreatedAt:  time.Now(),
			}
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}

		if txn.CashboxID != "" {
			if err := applyToCashbox(tx, txn.CashboxID, signedAmount(txn)); err != nil {
				return err
			}
		}

		return nil
	})
}

// UpdateTransaction saves the modified transaction and moves the cashbox
// balance by the difference between the old and new signed amounts
func (d *Database) UpdateTransaction(txn *Transaction, previousSigned float64) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(txn).Error; err != nil {
			return err
		}

		if txn.CashboxID != "" {
			delta := signedAmount(txn) - previousSigned
			if err := applyToCashbox(tx, txn.CashboxID, delta); err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteTransaction removes the transaction and reverses its cashbox effect
func (d *Database) DeleteTransaction(txn *Transaction) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("transaction_id = ?", txn.TransactionID).Delete(&Transaction{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if txn.CashboxID != "" {
			if err := applyToCashbox(tx, txn.CashboxID, -signedAmount(txn)); err != nil {
				return err
			}
		}

		return nil
	})
}

func (d *Database) GetTransaction(transactionID string) (*Transaction, error) {
	var txn Transaction
	if err := d.db.Where("transaction_id = ?", transactionID).First(&txn).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetTransactions lists transactions matching the filter, newest first
func (d *Database) GetTransactions(filter TransactionFilter) ([]Transaction, error) {
	query := d.db.Model(&Transaction{})
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.PartnerID != "" {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.CashboxID != "" {
		query = query.Where("cashbox_id = ?", filter.CashboxID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}

	var txns []Transaction
	if err := query.Order("date DESC").Find(&txns).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txns, nil
}

// signedAmount is the cashbox-relative value of a transaction: receipts add
// funds, payments remove them
func signedAmount(txn *Transaction) float64 {
	if txn.Type == TypePayment {
		return -txn.Amount
	}
	return txn.Amount
}

// applyToCashbox shifts a cashbox's current balance by delta
func applyToCashbox(tx *gorm.DB, cashboxID string, delta float64) error {
	result := tx.Model(&Cashbox{}).
		Where("cashbox_id = ?", cashboxID).
		Updates(map[string]interface{}{
			"current_balance": gorm.Expr("current_balance + ?", delta),
			"updated_at":      time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("cashbox %s not found: %w", cashboxID, gorm.ErrRecordNotFound)
	}
	return nil
}
