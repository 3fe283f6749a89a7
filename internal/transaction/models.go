package transaction

import (
	"time"

	"gorm.io/gorm"
)

// Transaction types
const (
	TypeReceipt = "RECEIPT"
	TypePayment = "PAYMENT"
)

// Cashbox is a named pool of funds. CurrentBalance tracks InitialBalance plus
// every receipt and minus every payment recorded against the cashbox.
type Cashbox struct {
	gorm.Model     `json:"-"`
	CashboxID      string    `gorm:"uniqueIndex" json:"cashbox_id"`
	Name           string    `json:"name"`
	InitialBalance float64   `json:"initial_balance"`
	CurrentBalance float64   `json:"current_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Transaction is a single receipt or payment. PartnerID is empty for
// transactions not attributed to a partner; only attributed transactions
// participate in settlement. SettlementRunID is stamped when a settlement run
// consumes the transaction, after which it is frozen.
type Transaction struct {
	gorm.Model      `json:"-"`
	TransactionID   string    `gorm:"uniqueIndex" json:"transaction_id"`
	Type            string    `json:"type"` // RECEIPT or PAYMENT
	Amount          float64   `json:"amount"`
	ProjectID       string    `gorm:"index" json:"project_id"`
	PartnerID       string    `gorm:"index" json:"partner_id,omitempty"`
	CashboxID       string    `gorm:"index" json:"cashbox_id,omitempty"`
	Date            time.Time `json:"date"`
	Description     string    `json:"description"`
	SettlementRunID string    `gorm:"index" json:"settlement_run_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IdempotencyRecord maps a client-supplied key to the resource it created so
// retried POSTs return the original resource instead of duplicating it
type IdempotencyRecord struct {
	gorm.Model `json:"-"`
	Key        string    `gorm:"uniqueIndex" json:"key"`
	ResourceID string    `json:"resource_id"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateCashboxRequest is the validated body for cashbox creation
type CreateCashboxRequest struct {
	Name           string  `json:"name" binding:"required"`
	InitialBalance float64 `json:"initial_balance" binding:"gte=0"`
}

// UpdateCashboxRequest carries optional fields for a cashbox update
type UpdateCashboxRequest struct {
	Name *string `json:"name"`
}

// CreateTransactionRequest is the validated body for transaction creation
type CreateTransactionRequest struct {
	Type        string    `json:"type" binding:"required,oneof=RECEIPT PAYMENT"`
	Amount      float64   `json:"amount" binding:"required,gte=0"`
	ProjectID   string    `json:"project_id" binding:"required"`
	PartnerID   string    `json:"partner_id"`
	CashboxID   string    `json:"cashbox_id"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

// UpdateTransactionRequest carries optional fields for a transaction update
type UpdateTransactionRequest struct {
	Type        *string    `json:"type" binding:"omitempty,oneof=RECEIPT PAYMENT"`
	Amount      *float64   `json:"amount" binding:"omitempty,gte=0"`
	Date        *time.Time `json:"date"`
	Description *string    `json:"description"`
}

// TransactionFilter narrows transaction listings
type TransactionFilter struct {
	ProjectID string
	PartnerID string
	CashboxID string
	Type      string
}
