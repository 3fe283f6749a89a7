package project

import (
	"time"

	"gorm.io/gorm"
)

// Project is an investment project that groups partners, transactions and
// financial records
type Project struct {
	gorm.Model  `json:"-"`
	ProjectID   string    `gorm:"uniqueIndex" json:"project_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // ACTIVE, COMPLETED, ON_HOLD
	StartDate   time.Time `json:"start_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Partner is a stakeholder in a project entitled to a share of its proceeds.
// CurrentBalance is a running balance mutated when settlements are applied;
// SharePercentage is informational and takes no part in equalization.
type Partner struct {
	gorm.Model      `json:"-"`
	PartnerID       string    `gorm:"uniqueIndex" json:"partner_id"`
	ProjectID       string    `gorm:"index" json:"project_id"`
	Name            string    `json:"name"`
	SharePercentage float64   `json:"share_percentage"`
	PreviousBalance float64   `json:"previous_balance"`
	CurrentBalance  float64   `json:"current_balance"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateProjectRequest is the validated body for project creation
type CreateProjectRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Status      string    `json:"status" binding:"omitempty,oneof=ACTIVE COMPLETED ON_HOLD"`
	StartDate   time.Time `json:"start_date"`
}

// UpdateProjectRequest carries optional fields for a project update
type UpdateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=ACTIVE COMPLETED ON_HOLD"`
	StartDate   *time.Time `json:"start_date"`
}

// CreatePartnerRequest is the validated body for partner creation
type CreatePartnerRequest struct {
	ProjectID       string  `json:"project_id" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	SharePercentage float64 `json:"share_percentage" binding:"gte=0,lte=100"`
	PreviousBalance float64 `json:"previous_balance"`
	CurrentBalance  float64 `json:"current_balance"`
}

// UpdatePartnerRequest carries optional fields for a partner update
type UpdatePartnerRequest struct {
	Name            *string  `json:"name"`
	SharePercentage *float64 `json:"share_percentage" binding:"omitempty,gte=0,lte=100"`
	PreviousBalance *float64 `json:"previous_balance"`
	CurrentBalance  *float64 `json:"current_balance"`
}
