package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/pkg/response"
)

// ErrTransactionSettled is returned when mutating a transaction already
// consumed by a settlement run
var ErrTransactionSettled = errors.New("transaction already consumed by a settlement run")

// Service handles cashbox and transaction management
type Service struct {
	db *Database
}

// NewService creates a new transaction service with the given database connection
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// CreateCashbox registers a new cashbox with its current balance seeded from
// the initial balance
func (s *Service) CreateCashbox(req CreateCashboxRequest) (*Cashbox, error) {
	cashbox := &Cashbox{
		CashboxID:      "CSH_" + uuid.New().String(),
		Name:           req.Name,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	if err := s.db.CreateCashbox(cashbox); err != nil {
		return nil, fmt.Errorf("failed to create cashbox: %w", err)
	}
	return cashbox, nil
}

// GetCashbox retrieves a cashbox by its ID
func (s *Service) GetCashbox(cashboxID string) (*Cashbox, error) {
	return s.db.GetCashbox(cashboxID)
}

// GetAllCashboxes lists every cashbox
func (s *Service) GetAllCashboxes() ([]Cashbox, error) {
	return s.db.GetAllCashboxes()
}

// UpdateCashbox applies the provided fields to an existing cashbox
func (s *Service) UpdateCashbox(cashboxID string, req UpdateCashboxRequest) (*Cashbox, error) {
	cashbox, err := s.db.GetCashbox(cashboxID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cashbox.Name = *req.Name
	}
	cashbox.UpdatedAt = time.Now()

	if err := s.db.UpdateCashbox(cashbox); err != nil {
		return nil, err
	}
	return cashbox, nil
}

// DeleteCashbox removes a cashbox
func (s *Service) DeleteCashbox(cashboxID string) error {
	return s.db.DeleteCashbox(cashboxID)
}

// CreateTransaction records a receipt or payment with idempotency support.
// A repeated idempotency key within its validity window returns the original
// transaction instead of creating a duplicate.
func (s *Service) CreateTransaction(req CreateTransactionRequest, idempotencyKey string) (*Transaction, error) {
	if idempotencyKey != "" {
		record, err := s.db.GetIdempotencyRecord(idempotencyKey)
		if err == nil && record.ExpiresAt.After(time.Now()) {
			return s.db.GetTransaction(record.ResourceID)
		}
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	txn := &Transaction{
		TransactionID: "TXN_" + uuid.New().String(),
		Type:          req.Type,
		Amount:        req.Amount,
		ProjectID:     req.ProjectID,
		PartnerID:     req.PartnerID,
		CashboxID:     req.CashboxID,
		Date:          date,
		Description:   req.Description,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.db.CreateTransactionWithIdempotency(txn, idempotencyKey); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return txn, nil
}

// GetTransaction retrieves a transaction by its ID
func (s *Service) GetTransaction(transactionID string) (*Transaction, error) {
	return s.db.GetTransaction(transactionID)
}

// GetTransactions lists transactions matching the filter
func (s *Service) GetTransactions(filter TransactionFilter) ([]Transaction, error) {
	return s.db.GetTransactions(filter)
}

// UpdateTransaction applies the provided fields to an unsettled transaction,
// keeping the linked cashbox balance consistent
func (s *Service) UpdateTransaction(transactionID string, req UpdateTransactionRequest) (*Transaction, error) {
	txn, err := s.db.GetTransaction(transactionID)
	if err != nil {
		return nil, err
	}
	if txn.SettlementRunID != "" {
		return nil, ErrTransactionSettled
	}

	previousSigned := signedAmount(txn)

	if req.Type != nil {
		txn.Type = *req.Type
	}
	if req.Amount != nil {
		txn.Amount = *req.Amount
	}
	if req.Date != nil {
		txn.Date = *req.Date
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	txn.UpdatedAt = time.Now()

	if err := s.db.UpdateTransaction(txn, previousSigned); err != nil {
		return nil, err
	}
	return txn, nil
}

// DeleteTransaction removes an unsettled transaction and reverses its cashbox
// effect
func (s *Service) DeleteTransaction(transactionID string) error {
	txn, err := s.db.GetTransaction(transactionID)
	if err != nil {
		return err
	}
	if txn.SettlementRunID != "" {
		return ErrTransactionSettled
	}
	return s.db.DeleteTransaction(txn)
}

// GinHandlers contains HTTP handlers for cashbox and transaction endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for transaction endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

func (h *GinHandlers) CreateCashboxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCashboxRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		cashbox, err := h.service.CreateCashbox(req)
		response.Handle(c, cashbox, err)
	}
}

func (h *GinHandlers) GetCashboxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cashbox, err := h.service.GetCashbox(c.Param("cashbox_id"))
		response.Handle(c, cashbox, err)
	}
}

func (h *GinHandlers) ListCashboxesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		cashboxes, err := h.service.GetAllCashboxes()
		response.Handle(c, cashboxes, err)
	}
}

func (h *GinHandlers) UpdateCashboxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCashboxRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		cashbox, err := h.service.UpdateCashbox(c.Param("cashbox_id"), req)
		response.Handle(c, cashbox, err)
	}
}

func (h *GinHandlers) DeleteCashboxHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteCashbox(c.Param("cashbox_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}

// CreateTransactionHandler handles POST requests to record transactions.
// An optional Idempotency-Key header guards against duplicate submissions.
func (h *GinHandlers) CreateTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		txn, err := h.service.CreateTransaction(req, c.GetHeader("Idempotency-Key"))
		response.Handle(c, txn, err)
	}
}

func (h *GinHandlers) GetTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		txn, err := h.service.GetTransaction(c.Param("transaction_id"))
		response.Handle(c, txn, err)
	}
}

func (h *GinHandlers) ListTransactionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := TransactionFilter{
			ProjectID: c.Query("project_id"),
			PartnerID: c.Query("partner_id"),
			CashboxID: c.Query("cashbox_id"),
			Type:      c.Query("type"),
		}

		txns, err := h.service.GetTransactions(filter)
		response.Handle(c, txns, err)
	}
}

func (h *GinHandlers) UpdateTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateTransactionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		txn, err := h.service.UpdateTransaction(c.Param("transaction_id"), req)
		if errors.Is(err, ErrTransactionSettled) {
			response.Conflict(c, err.Error())
			return
		}
		response.Handle(c, txn, err)
	}
}

func (h *GinHandlers) DeleteTransactionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h.service.DeleteTransaction(c.Param("transaction_id"))
		if errors.Is(err, ErrTransactionSettled) {
			response.Conflict(c, err.Error())
			return
		}
		if err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}
