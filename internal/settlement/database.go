package settlement

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/internal/project"
	"github.com/estatebook/estatebook-api/internal/transaction"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// GetProjectByID confirms a project exists before a settlement run
func (d *Database) GetProjectByID(projectID string) (*project.Project, error) {
	var proj project.Project
	if err := d.db.Where("project_id = ?", projectID).First(&proj).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}
	return &proj, nil
}

// GetPartnersByProject returns the partner group for a settlement run
func (d *Database) GetPartnersByProject(projectID string) ([]project.Partner, error) {
	var partners []project.Partner
	if err := d.db.Where("project_id = ?", projectID).Find(&partners).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch partners: %w", err)
	}
	return partners, nil
}

// GetUnsettledTransactions returns the project's partner-attributed
// transactions not yet consumed by any settlement run
func (d *Database) GetUnsettledTransactions(projectID string) ([]transaction.Transaction, error) {
	var txns []transaction.Transaction
	err := d.db.
		Where("project_id = ? AND partner_id <> '' AND settlement_run_id = ''", projectID).
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return txns, nil
}

// ApplySettlementRun persists a completed run atomically: the settlement
// records are created, the consumed transactions are stamped with the run ID,
// and each settled partner's balance is rolled forward. Any failure rolls the
// whole run back.
func (d *Database) ApplySettlementRun(runID string, settlements []Settlement, transactionIDs []string) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		for i := range settlements {
			if err := tx.Create(&settlements[i]).Error; err != nil {
				return fmt.Errorf("failed to create settlement record: %w", err)
			}
		}

		if len(transactionIDs) > 0 {
			err := tx.Model(&transaction.Transaction{}).
				Where("transaction_id IN ?", transactionIDs).
				Updates(map[string]interface{}{
					"settlement_run_id": runID,
					"updated_at":        time.Now(),
				}).Error
			if err != nil {
				return fmt.Errorf("failed to mark transactions settled: %w", err)
			}
		}

		for i := range settlements {
			stl := &settlements[i]
			result := tx.Model(&project.Partner{}).
				Where("partner_id = ?", stl.PartnerID).
				Updates(map[string]interface{}{
					"previous_balance": stl.PreviousBalance,
					"current_balance":  stl.FinalBalance,
					"updated_at":       time.Now(),
				})
			if result.Error != nil {
				return fmt.Errorf("failed to apply settlement to partner: %w", result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("partner %s not found: %w", stl.PartnerID, gorm.ErrRecordNotFound)
			}
		}

		return nil
	})
}

func (d *Database) GetSettlement(settlementID string) (*Settlement, error) {
	var stl Settlement
	if err := d.db.Where("settlement_id = ?", settlementID).First(&stl).Error; err != nil {
		return nil, err
	}
	return &stl, nil
}

// GetSettlements lists settlements matching the filter, newest first
func (d *Database) GetSettlements(filter SettlementFilter) ([]Settlement, error) {
	query := d.db.Model(&Settlement{})
	if filter.ProjectID != "" {
		query = query.Where("project_id = ?", filter.ProjectID)
	}
	if filter.PartnerID != "" {
		query = query.Where("partner_id = ?", filter.PartnerID)
	}
	if filter.RunID != "" {
		query = query.Where("run_id = ?", filter.RunID)
	}

	var settlements []Settlement
	if err := query.Order("created_at DESC").Find(&settlements).Error; err != nil {
		return nil, err
	}
	return settlements, nil
}
