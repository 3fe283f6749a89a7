package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/internal/database/migrations"
	"github.com/estatebook/estatebook-api/internal/finance"
	"github.com/estatebook/estatebook-api/internal/project"
	"github.com/estatebook/estatebook-api/internal/property"
	"github.com/estatebook/estatebook-api/internal/transaction"
)

// NewDatabase opens the sqlite database and brings the schema up to date
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := migrations.AddSettlementRuns(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Auto-migrate other schemas
	err = db.AutoMigrate(
		&project.Project{},
		&project.Partner{},
		&transaction.Cashbox{},
		&transaction.IdempotencyRecord{},
		&finance.Invoice{},
		&finance.Revenue{},
		&finance.Expense{},
		&property.Customer{},
		&property.Unit{},
		&property.Installment{},
		&property.UnitPartner{},
		&property.ReturnedUnit{},
		&property.Payment{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
