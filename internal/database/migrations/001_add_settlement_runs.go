package migrations

import (
	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/internal/property"
	"github.com/estatebook/estatebook-api/internal/settlement"
	"github.com/estatebook/estatebook-api/internal/transaction"
)

// AddSettlementRuns creates the settlement, transaction and installment
// tables and the indexes the settlement run and overdue sweep depend on
func AddSettlementRuns(db *gorm.DB) error {
	if err := db.AutoMigrate(&transaction.Transaction{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&settlement.Settlement{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&property.Installment{}); err != nil {
		return err
	}

	// Add indexes for better query performance
	// Using raw SQL for index creation to have more control over index types
	indexes := []string{
		// Composite index for the per-partner netting scan
		`CREATE INDEX IF NOT EXISTS idx_transactions_project_partner
		 ON transactions(project_id, partner_id)`,

		// Index for the unsettled-transaction filter
		`CREATE INDEX IF NOT EXISTS idx_transactions_run
		 ON transactions(settlement_run_id)`,

		// Index for settlement history by project
		`CREATE INDEX IF NOT EXISTS idx_settlements_project
		 ON settlements(project_id)`,

		// Composite index for the installment overdue sweep
		`CREATE INDEX IF NOT EXISTS idx_installments_status_due
		 ON installments(status, due_date)`,
	}

	// Execute each index creation
	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}

	return nil
}
