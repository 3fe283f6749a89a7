package finance

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/pkg/response"
)

// Service handles invoices and the revenue/expense ledger
type Service struct {
	db *Database
}

// NewService creates a new finance service with the given database connection
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// CreateInvoice registers a new invoice, defaulting to DRAFT status
func (s *Service) CreateInvoice(req CreateInvoiceRequest) (*Invoice, error) {
	status := req.Status
	if status == "" {
		status = InvoiceDraft
	}
	issueDate := req.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now()
	}

	invoice := &Invoice{
		InvoiceID:  "INV_" + uuid.New().String(),
		CustomerID: req.CustomerID,
		UnitID:     req.UnitID,
		Amount:     req.Amount,
		Status:     status,
		IssueDate:  issueDate,
		DueDate:    req.DueDate,
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.db.CreateInvoice(invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

func (s *Service) GetInvoice(invoiceID string) (*Invoice, error) {
	return s.db.GetInvoice(invoiceID)
}

func (s *Service) GetInvoices(status string) ([]Invoice, error) {
	return s.db.GetInvoices(status)
}

func (s *Service) UpdateInvoice(invoiceID string, req UpdateInvoiceRequest) (*Invoice, error) {
	invoice, err := s.db.GetInvoice(invoiceID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		invoice.Amount = *req.Amount
	}
	if req.Status != nil {
		invoice.Status = *req.Status
	}
	if req.DueDate != nil {
		invoice.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
	}
	invoice.UpdatedAt = time.Now()

	if err := s.db.UpdateInvoice(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) DeleteInvoice(invoiceID string) error {
	return s.db.DeleteInvoice(invoiceID)
}

// CreateRevenue records an income entry against a project
func (s *Service) CreateRevenue(req CreateLedgerEntryRequest) (*Revenue, error) {
	revenue := &Revenue{
		RevenueID:   "REV_" + uuid.New().String(),
		ProjectID:   req.ProjectID,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        entryDate(req.Date),
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.db.CreateRevenue(revenue); err != nil {
		return nil, fmt.Errorf("failed to create revenue: %w", err)
	}
	return revenue, nil
}

func (s *Service) GetRevenue(revenueID string) (*Revenue, error) {
	return s.db.GetRevenue(revenueID)
}

func (s *Service) GetRevenues(filter LedgerFilter) ([]Revenue, error) {
	return s.db.GetRevenues(filter)
}

func (s *Service) UpdateRevenue(revenueID string, req UpdateLedgerEntryRequest) (*Revenue, error) {
	revenue, err := s.db.GetRevenue(revenueID)
	if err != nil {
		return nil, err
	}

	applyLedgerUpdate(req, &revenue.Category, &revenue.Amount, &revenue.Date, &revenue.Description)
	revenue.UpdatedAt = time.Now()

	if err := s.db.UpdateRevenue(revenue); err != nil {
		return nil, err
	}
	return revenue, nil
}

func (s *Service) DeleteRevenue(revenueID string) error {
	return s.db.DeleteRevenue(revenueID)
}

// CreateExpense records a cost entry against a project
func (s *Service) CreateExpense(req CreateLedgerEntryRequest) (*Expense, error) {
	expense := &Expense{
		ExpenseID:   "EXP_" + uuid.New().String(),
		ProjectID:   req.ProjectID,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        entryDate(req.Date),
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.db.CreateExpense(expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return expense, nil
}

func (s *Service) GetExpense(expenseID string) (*Expense, error) {
	return s.db.GetExpense(expenseID)
}

func (s *Service) GetExpenses(filter LedgerFilter) ([]Expense, error) {
	return s.db.GetExpenses(filter)
}

func (s *Service) UpdateExpense(expenseID string, req UpdateLedgerEntryRequest) (*Expense, error) {
	expense, err := s.db.GetExpense(expenseID)
	if err != nil {
		return nil, err
	}

	applyLedgerUpdate(req, &expense.Category, &expense.Amount, &expense.Date, &expense.Description)
	expense.UpdatedAt = time.Now()

	if err := s.db.UpdateExpense(expense); err != nil {
		return nil, err
	}
	return expense, nil
}

func (s *Service) DeleteExpense(expenseID string) error {
	return s.db.DeleteExpense(expenseID)
}

func entryDate(date time.Time) time.Time {
	if date.IsZero() {
		return time.Now()
	}
	return date
}

func applyLedgerUpdate(req UpdateLedgerEntryRequest, category *string, amount *float64, date *time.Time, description *string) {
	if req.Category != nil {
		*category = *req.Category
	}
	if req.Amount != nil {
		*amount = *req.Amount
	}
	if req.Date != nil {
		*date = *req.Date
	}
	if req.Description != nil {
		*description = *req.Description
	}
}

// GinHandlers contains HTTP handlers for invoice, revenue and expense endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for finance endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

func (h *GinHandlers) CreateInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		invoice, err := h.service.CreateInvoice(req)
		response.Handle(c, invoice, err)
	}
}

func (h *GinHandlers) GetInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		invoice, err := h.service.GetInvoice(c.Param("invoice_id"))
		response.Handle(c, invoice, err)
	}
}

func (h *GinHandlers) ListInvoicesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		invoices, err := h.service.GetInvoices(c.Query("status"))
		response.Handle(c, invoices, err)
	}
}

func (h *GinHandlers) UpdateInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		invoice, err := h.service.UpdateInvoice(c.Param("invoice_id"), req)
		response.Handle(c, invoice, err)
	}
}

func (h *GinHandlers) DeleteInvoiceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteInvoice(c.Param("invoice_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}

func (h *GinHandlers) CreateRevenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLedgerEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		revenue, err := h.service.CreateRevenue(req)
		response.Handle(c, revenue, err)
	}
}

func (h *GinHandlers) GetRevenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		revenue, err := h.service.GetRevenue(c.Param("revenue_id"))
		response.Handle(c, revenue, err)
	}
}

func (h *GinHandlers) ListRevenuesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := LedgerFilter{
			ProjectID: c.Query("project_id"),
			Category:  c.Query("category"),
		}
		revenues, err := h.service.GetRevenues(filter)
		response.Handle(c, revenues, err)
	}
}

func (h *GinHandlers) UpdateRevenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateLedgerEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		revenue, err := h.service.UpdateRevenue(c.Param("revenue_id"), req)
		response.Handle(c, revenue, err)
	}
}

func (h *GinHandlers) DeleteRevenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteRevenue(c.Param("revenue_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}

func (h *GinHandlers) CreateExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateLedgerEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		expense, err := h.service.CreateExpense(req)
		response.Handle(c, expense, err)
	}
}

func (h *GinHandlers) GetExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		expense, err := h.service.GetExpense(c.Param("expense_id"))
		response.Handle(c, expense, err)
	}
}

func (h *GinHandlers) ListExpensesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := LedgerFilter{
			ProjectID: c.Query("project_id"),
			Category:  c.Query("category"),
		}
		expenses, err := h.service.GetExpenses(filter)
		response.Handle(c, expenses, err)
	}
}

func (h *GinHandlers) UpdateExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateLedgerEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		expense, err := h.service.UpdateExpense(c.Param("expense_id"), req)
		response.Handle(c, expense, err)
	}
}

func (h *GinHandlers) DeleteExpenseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteExpense(c.Param("expense_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}
