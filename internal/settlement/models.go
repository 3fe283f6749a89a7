package settlement

import (
	"time"

	"gorm.io/gorm"
)

// Direction notes recorded on emitted settlements
const (
	NoteOwedToPartner = "owed to partner"
	NoteOwedByPartner = "owed by partner"
)

// Settlement is a computed equalizing payment for one partner, produced by a
// settlement run. PaymentAmount and OutstandingAmount both carry the absolute
// deviation from the group average; Notes records the direction of the
// transfer.
type Settlement struct {
	gorm.Model        `json:"-"`
	SettlementID      string    `gorm:"uniqueIndex" json:"settlement_id"`
	RunID             string    `gorm:"index" json:"run_id"`
	PartnerID         string    `gorm:"index" json:"partner_id"`
	ProjectID         string    `gorm:"index" json:"project_id"`
	PaymentAmount     float64   `json:"payment_amount"`
	PreviousBalance   float64   `json:"previous_balance"`
	OutstandingAmount float64   `json:"outstanding_amount"`
	FinalBalance      float64   `json:"final_balance"`
	Date              time.Time `json:"date"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// SettlementFilter narrows settlement listings
type SettlementFilter struct {
	ProjectID string
	PartnerID string
	RunID     string
}
