package dashboard

import (
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/internal/finance"
	"github.com/estatebook/estatebook-api/internal/project"
	"github.com/estatebook/estatebook-api/internal/property"
	"github.com/estatebook/estatebook-api/internal/transaction"
	"github.com/estatebook/estatebook-api/pkg/response"
)

// Stats is the aggregate snapshot backing the dashboard landing page
type Stats struct {
	TotalProjects       int64     `json:"total_projects"`
	TotalPartners       int64     `json:"total_partners"`
	TotalUnits          int64     `json:"total_units"`
	AvailableUnits      int64     `json:"available_units"`
	SoldUnits           int64     `json:"sold_units"`
	ReturnedUnits       int64     `json:"returned_units"`
	TotalRevenue        float64   `json:"total_revenue"`
	TotalExpenses       float64   `json:"total_expenses"`
	PendingPayments     float64   `json:"pending_payments"`
	OverdueInstallments int64     `json:"overdue_installments"`
	CashboxFunds        float64   `json:"cashbox_funds"`
	GeneratedAt         time.Time `json:"generated_at"`
}

// MonthlyCashflow is one point on the revenue/expense chart
type MonthlyCashflow struct {
	Month    string  `json:"month"` // YYYY-MM
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
}

// Service aggregates reporting figures across every entity
type Service struct {
	db *gorm.DB
}

// NewService creates a new dashboard service with the given database connection
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// GetStats computes the dashboard snapshot. Figures are derived fresh from
// the stored records on every call rather than maintained incrementally.
func (s *Service) GetStats() (*Stats, error) {
	stats := &Stats{GeneratedAt: time.Now()}

	if err := s.db.Model(&project.Project{}).Count(&stats.TotalProjects).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&project.Partner{}).Count(&stats.TotalPartners).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&property.Unit{}).Count(&stats.TotalUnits).Error; err != nil {
		return nil, err
	}
	unitCounts := []struct {
		Status string
		Count  int64
	}{}
	err := s.db.Model(&property.Unit{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&unitCounts).Error
	if err != nil {
		return nil, err
	}
	for _, uc := range unitCounts {
		switch uc.Status {
		case property.UnitAvailable:
			stats.AvailableUnits = uc.Count
		case property.UnitSold:
			stats.SoldUnits = uc.Count
		case property.UnitReturned:
			stats.ReturnedUnits = uc.Count
		}
	}

	err = s.db.Model(&finance.Revenue{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalRevenue).Error
	if err != nil {
		return nil, err
	}
	err = s.db.Model(&finance.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.TotalExpenses).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&property.Installment{}).
		Where("status = ?", property.InstallmentUnpaid).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&stats.PendingPayments).Error
	if err != nil {
		return nil, err
	}
	now := time.Now()
	err = s.db.Model(&property.Installment{}).
		Where("status = ? OR (status = ? AND due_date < ?)",
			property.InstallmentOverdue, property.InstallmentUnpaid, now).
		Count(&stats.OverdueInstallments).Error
	if err != nil {
		return nil, err
	}

	err = s.db.Model(&transaction.Cashbox{}).
		Select("COALESCE(SUM(current_balance), 0)").
		Scan(&stats.CashboxFunds).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// GetMonthlyCashflow returns per-month revenue and expense totals, oldest
// month first
func (s *Service) GetMonthlyCashflow() ([]MonthlyCashflow, error) {
	type row struct {
		Month string
		Total float64
	}

	var revenueRows []row
	err := s.db.Model(&finance.Revenue{}).
		Select("strftime('%Y-%m', date) AS month, SUM(amount) AS total").
		Group("month").
		Scan(&revenueRows).Error
	if err != nil {
		return nil, err
	}

	var expenseRows []row
	err = s.db.Model(&finance.Expense{}).
		Select("strftime('%Y-%m', date) AS month, SUM(amount) AS total").
		Group("month").
		Scan(&expenseRows).Error
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]*MonthlyCashflow)
	months := []string{}
	for _, r := range revenueRows {
		byMonth[r.Month] = &MonthlyCashflow{Month: r.Month, Revenue: r.Total}
		months = append(months, r.Month)
	}
	for _, r := range expenseRows {
		if entry, ok := byMonth[r.Month]; ok {
			entry.Expenses = r.Total
			continue
		}
		byMonth[r.Month] = &MonthlyCashflow{Month: r.Month, Expenses: r.Total}
		months = append(months, r.Month)
	}

	// Lexicographic order is chronological for YYYY-MM
	sort.Strings(months)

	cashflow := make([]MonthlyCashflow, 0, len(months))
	for _, m := range months {
		cashflow = append(cashflow, *byMonth[m])
	}
	return cashflow, nil
}

// GinHandlers contains HTTP handlers for dashboard endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for dashboard endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

func (h *GinHandlers) GetStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := h.service.GetStats()
		response.Handle(c, stats, err)
	}
}

func (h *GinHandlers) GetMonthlyCashflowHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cashflow, err := h.service.GetMonthlyCashflow()
		response.Handle(c, cashflow, err)
	}
}
