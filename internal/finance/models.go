package finance

import (
	"time"

	"gorm.io/gorm"
)

// Invoice statuses
const (
	InvoiceDraft     = "DRAFT"
	InvoiceIssued    = "ISSUED"
	InvoicePaid      = "PAID"
	InvoiceCancelled = "CANCELLED"
)

type Invoice struct {
	gorm.Model `json:"-"`
	InvoiceID  string    `gorm:"uniqueIndex" json:"invoice_id"`
	CustomerID string    `gorm:"index" json:"customer_id"`
	UnitID     string    `gorm:"index" json:"unit_id,omitempty"`
	Amount     float64   `json:"amount"`
	Status     string    `json:"status"` // DRAFT, ISSUED, PAID, CANCELLED
	IssueDate  time.Time `json:"issue_date"`
	DueDate    time.Time `json:"due_date"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Revenue is an income record attributed to a project
type Revenue struct {
	gorm.Model  `json:"-"`
	RevenueID   string    `gorm:"uniqueIndex" json:"revenue_id"`
	ProjectID   string    `gorm:"index" json:"project_id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Expense is a cost record attributed to a project
type Expense struct {
	gorm.Model  `json:"-"`
	ExpenseID   string    `gorm:"uniqueIndex" json:"expense_id"`
	ProjectID   string    `gorm:"index" json:"project_id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateInvoiceRequest struct {
	CustomerID string    `json:"customer_id" binding:"required"`
	UnitID     string    `json:"unit_id"`
	Amount     float64   `json:"amount" binding:"required,gt=0"`
	Status     string    `json:"status" binding:"omitempty,oneof=DRAFT ISSUED PAID CANCELLED"`
	IssueDate  time.Time `json:"issue_date"`
	DueDate    time.Time `json:"due_date"`
	Notes      string    `json:"notes"`
}

type UpdateInvoiceRequest struct {
	Amount  *float64   `json:"amount" binding:"omitempty,gt=0"`
	Status  *string    `json:"status" binding:"omitempty,oneof=DRAFT ISSUED PAID CANCELLED"`
	DueDate *time.Time `json:"due_date"`
	Notes   *string    `json:"notes"`
}

type CreateLedgerEntryRequest struct {
	ProjectID   string    `json:"project_id" binding:"required"`
	Category    string    `json:"category" binding:"required"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

type UpdateLedgerEntryRequest struct {
	Category    *string    `json:"category"`
	Amount      *float64   `json:"amount" binding:"omitempty,gt=0"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
}

// LedgerFilter narrows revenue and expense listings
type LedgerFilter struct {
	ProjectID string
	Category  string
}
