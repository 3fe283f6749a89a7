package property

import (
	"time"

	"gorm.io/gorm"
)

// Unit statuses
const (
	UnitAvailable = "AVAILABLE"
	UnitSold      = "SOLD"
	UnitReturned  = "RETURNED"
)

// Installment statuses
const (
	InstallmentUnpaid  = "UNPAID"
	InstallmentPaid    = "PAID"
	InstallmentOverdue = "OVERDUE"
)

type Customer struct {
	gorm.Model `json:"-"`
	CustomerID string    `gorm:"uniqueIndex" json:"customer_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	Address    string    `json:"address,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Unit is a property unit offered for sale. The monetary side fields
// (reservation fee, commission, maintenance, garage share) follow the sales
// contract and may be zero.
type Unit struct {
	gorm.Model        `json:"-"`
	UnitID            string    `gorm:"uniqueIndex" json:"unit_id"`
	Type              string    `json:"type"` // RESIDENTIAL or COMMERCIAL
	Area              float64   `json:"area"`
	TotalPrice        float64   `json:"total_price"`
	DownPayment       float64   `json:"down_payment"`
	ReservationFee    float64   `json:"reservation_fee,omitempty"`
	Commission        float64   `json:"commission,omitempty"`
	MaintenanceAmount float64   `json:"maintenance_amount,omitempty"`
	GarageShare       float64   `json:"garage_share,omitempty"`
	Status            string    `gorm:"index" json:"status"` // AVAILABLE, SOLD, RETURNED
	CustomerID        string    `gorm:"index" json:"customer_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Installment is a scheduled partial payment owed by a customer against a
// unit's total price
type Installment struct {
	gorm.Model    `json:"-"`
	InstallmentID string     `gorm:"uniqueIndex" json:"installment_id"`
	UnitID        string     `gorm:"index" json:"unit_id"`
	Schedule      string     `json:"schedule"` // MONTHLY, QUARTERLY, ANNUAL
	Amount        float64    `json:"amount"`
	DueDate       time.Time  `json:"due_date"`
	PaymentDate   *time.Time `json:"payment_date,omitempty"`
	Status        string     `gorm:"index" json:"status"` // UNPAID, PAID, OVERDUE
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Resale statuses of a returned unit
const (
	ResaleForSale = "FOR_SALE"
	ResaleResold  = "RESOLD"
)

// Payment types
const (
	PaymentDownPayment    = "DOWN_PAYMENT"
	PaymentInstallment    = "INSTALLMENT"
	PaymentAdditionalFees = "ADDITIONAL_FEES"
)

// UnitPartner links a partner to a unit they co-own, with their stake in that
// unit. A unit may carry several links whose percentages describe the split.
type UnitPartner struct {
	gorm.Model            `json:"-"`
	UnitPartnerID         string    `gorm:"uniqueIndex" json:"unit_partner_id"`
	UnitID                string    `gorm:"index" json:"unit_id"`
	PartnerID             string    `gorm:"index" json:"partner_id"`
	PartnershipPercentage float64   `json:"partnership_percentage"`
	CreatedAt             time.Time `json:"created_at"`
}

// ReturnedUnit records why a sold unit came back and how the partnership
// settled it: the partner who completed the buyer's refund, the amount paid
// out, and whether the unit has been resold since. Creating one marks the
// unit RETURNED.
type ReturnedUnit struct {
	gorm.Model          `json:"-"`
	ReturnID            string     `gorm:"uniqueIndex" json:"return_id"`
	UnitID              string     `gorm:"index" json:"unit_id"`
	ReturnReason        string     `json:"return_reason"`
	CompletingPartnerID string     `json:"completing_partner_id,omitempty"`
	CompletionDate      *time.Time `json:"completion_date,omitempty"`
	CompletionAmount    float64    `json:"completion_amount,omitempty"`
	ResaleStatus        string     `json:"resale_status"` // FOR_SALE, RESOLD
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Payment is money received from a customer against a unit, distinct from the
// installment schedule: down payments and ad-hoc fees land here too
type Payment struct {
	gorm.Model    `json:"-"`
	PaymentID     string    `gorm:"uniqueIndex" json:"payment_id"`
	UnitID        string    `gorm:"index" json:"unit_id"`
	CustomerID    string    `gorm:"index" json:"customer_id"`
	Amount        float64   `json:"amount"`
	PaymentType   string    `json:"payment_type"` // DOWN_PAYMENT, INSTALLMENT, ADDITIONAL_FEES
	PaymentMethod string    `json:"payment_method,omitempty"` // CASH, TRANSFER, CHEQUE
	Date          time.Time `json:"date"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateCustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

type CreateUnitRequest struct {
	Type              string  `json:"type" binding:"required,oneof=RESIDENTIAL COMMERCIAL"`
	Area              float64 `json:"area" binding:"required,gt=0"`
	TotalPrice        float64 `json:"total_price" binding:"required,gt=0"`
	DownPayment       float64 `json:"down_payment" binding:"gte=0"`
	ReservationFee    float64 `json:"reservation_fee" binding:"gte=0"`
	Commission        float64 `json:"commission" binding:"gte=0"`
	MaintenanceAmount float64 `json:"maintenance_amount" binding:"gte=0"`
	GarageShare       float64 `json:"garage_share" binding:"gte=0"`
	CustomerID        string  `json:"customer_id"`
}

type UpdateUnitRequest struct {
	Type              *string  `json:"type" binding:"omitempty,oneof=RESIDENTIAL COMMERCIAL"`
	Area              *float64 `json:"area" binding:"omitempty,gt=0"`
	TotalPrice        *float64 `json:"total_price" binding:"omitempty,gt=0"`
	DownPayment       *float64 `json:"down_payment" binding:"omitempty,gte=0"`
	ReservationFee    *float64 `json:"reservation_fee" binding:"omitempty,gte=0"`
	Commission        *float64 `json:"commission" binding:"omitempty,gte=0"`
	MaintenanceAmount *float64 `json:"maintenance_amount" binding:"omitempty,gte=0"`
	GarageShare       *float64 `json:"garage_share" binding:"omitempty,gte=0"`
	Status            *string  `json:"status" binding:"omitempty,oneof=AVAILABLE SOLD RETURNED"`
	CustomerID        *string  `json:"customer_id"`
}

type CreateInstallmentRequest struct {
	UnitID   string    `json:"unit_id" binding:"required"`
	Schedule string    `json:"schedule" binding:"required,oneof=MONTHLY QUARTERLY ANNUAL"`
	Amount   float64   `json:"amount" binding:"required,gt=0"`
	DueDate  time.Time `json:"due_date" binding:"required"`
}

type CreateUnitPartnerRequest struct {
	UnitID                string  `json:"unit_id" binding:"required"`
	PartnerID             string  `json:"partner_id" binding:"required"`
	PartnershipPercentage float64 `json:"partnership_percentage" binding:"required,gt=0,lte=100"`
}

type CreateReturnedUnitRequest struct {
	UnitID              string     `json:"unit_id" binding:"required"`
	ReturnReason        string     `json:"return_reason" binding:"required"`
	CompletingPartnerID string     `json:"completing_partner_id"`
	CompletionDate      *time.Time `json:"completion_date"`
	CompletionAmount    float64    `json:"completion_amount" binding:"gte=0"`
	ResaleStatus        string     `json:"resale_status" binding:"omitempty,oneof=FOR_SALE RESOLD"`
}

type UpdateReturnedUnitRequest struct {
	ReturnReason        *string    `json:"return_reason"`
	CompletingPartnerID *string    `json:"completing_partner_id"`
	CompletionDate      *time.Time `json:"completion_date"`
	CompletionAmount    *float64   `json:"completion_amount" binding:"omitempty,gte=0"`
	ResaleStatus        *string    `json:"resale_status" binding:"omitempty,oneof=FOR_SALE RESOLD"`
}

type CreatePaymentRequest struct {
	UnitID        string    `json:"unit_id" binding:"required"`
	CustomerID    string    `json:"customer_id" binding:"required"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	PaymentType   string    `json:"payment_type" binding:"required,oneof=DOWN_PAYMENT INSTALLMENT ADDITIONAL_FEES"`
	PaymentMethod string    `json:"payment_method" binding:"omitempty,oneof=CASH TRANSFER CHEQUE"`
	Date          time.Time `json:"date"`
	Notes         string    `json:"notes"`
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	UnitID     string
	CustomerID string
}

type UpdateInstallmentRequest struct {
	Amount      *float64   `json:"amount" binding:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
	PaymentDate *time.Time `json:"payment_date"`
	Status      *string    `json:"status" binding:"omitempty,oneof=UNPAID PAID OVERDUE"`
}
