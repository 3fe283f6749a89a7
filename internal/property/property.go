package property

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/pkg/response"
)

// Service handles customers, property units and installment schedules
type Service struct {
	db *Database
}

// NewService creates a new property service with the given database connection
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

func (s *Service) CreateCustomer(req CreateCustomerRequest) (*Customer, error) {
	customer := &Customer{
		CustomerID: "CST_" + uuid.New().String(),
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.db.CreateCustomer(customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *Service) GetCustomer(customerID string) (*Customer, error) {
	return s.db.GetCustomer(customerID)
}

func (s *Service) GetAllCustomers() ([]Customer, error) {
	return s.db.GetAllCustomers()
}

func (s *Service) UpdateCustomer(customerID string, req UpdateCustomerRequest) (*Customer, error) {
	customer, err := s.db.GetCustomer(customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
	}
	customer.UpdatedAt = time.Now()

	if err := s.db.UpdateCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *Service) DeleteCustomer(customerID string) error {
	return s.db.DeleteCustomer(customerID)
}

// CreateUnit registers a new unit as AVAILABLE, or SOLD when created with a
// customer already attached
func (s *Service) CreateUnit(req CreateUnitRequest) (*Unit, error) {
	status := UnitAvailable
	if req.CustomerID != "" {
		status = UnitSold
	}

	unit := &Unit{
		UnitID:            "UNT_" + uuid.New().String(),
		Type:              req.Type,
		Area:              req.Area,
		TotalPrice:        req.TotalPrice,
		DownPayment:       req.DownPayment,
		ReservationFee:    req.ReservationFee,
		Commission:        req.Commission,
		MaintenanceAmount: req.MaintenanceAmount,
		GarageShare:       req.GarageShare,
		Status:            status,
		CustomerID:        req.CustomerID,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}

	if err := s.db.CreateUnit(unit); err != nil {
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return unit, nil
}

func (s *Service) GetUnit(unitID string) (*Unit, error) {
	return s.db.GetUnit(unitID)
}

// GetUnits lists units, optionally filtered by status
func (s *Service) GetUnits(status string) ([]Unit, error) {
	return s.db.GetUnits(status)
}

func (s *Service) UpdateUnit(unitID string, req UpdateUnitRequest) (*Unit, error) {
	unit, err := s.db.GetUnit(unitID)
	if err != nil {
		return nil, err
	}

	if req.Type != nil {
		unit.Type = *req.Type
	}
	if req.Area != nil {
		unit.Area = *req.Area
	}
	if req.TotalPrice != nil {
		unit.TotalPrice = *req.TotalPrice
	}
	if req.DownPayment != nil {
		unit.DownPayment = *req.DownPayment
	}
	if req.ReservationFee != nil {
		unit.ReservationFee = *req.ReservationFee
	}
	if req.Commission != nil {
		unit.Commission = *req.Commission
	}
	if req.MaintenanceAmount != nil {
		unit.MaintenanceAmount = *req.MaintenanceAmount
	}
	if req.GarageShare != nil {
		unit.GarageShare = *req.GarageShare
	}
	if req.Status != nil {
		unit.Status = *req.Status
	}
	if req.CustomerID != nil {
		unit.CustomerID = *req.CustomerID
	}
	unit.UpdatedAt = time.Now()

	if err := s.db.UpdateUnit(unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *Service) DeleteUnit(unitID string) error {
	return s.db.DeleteUnit(unitID)
}

// CreateInstallment schedules a payment against an existing unit
func (s *Service) CreateInstallment(req CreateInstallmentRequest) (*Installment, error) {
	if _, err := s.db.GetUnit(req.UnitID); err != nil {
		return nil, err
	}

	installment := &Installment{
		InstallmentID: "INS_" + uuid.New().String(),
		UnitID:        req.UnitID,
		Schedule:      req.Schedule,
		Amount:        req.Amount,
		DueDate:       req.DueDate,
		Status:        InstallmentUnpaid,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.db.CreateInstallment(installment); err != nil {
		return nil, fmt.Errorf("failed to create installment: %w", err)
	}
	return installment, nil
}

func (s *Service) GetInstallment(installmentID string) (*Installment, error) {
	return s.db.GetInstallment(installmentID)
}

// GetInstallments lists installments, filtered by unit or overdue state
func (s *Service) GetInstallments(unitID string, overdueOnly bool) ([]Installment, error) {
	if unitID != "" {
		return s.db.GetInstallmentsByUnit(unitID)
	}
	if overdueOnly {
		return s.db.GetOverdueInstallments(time.Now())
	}
	return s.db.GetAllInstallments()
}

// UpdateInstallment applies the provided fields. Setting a payment date
// marks the installment paid unless a status is given explicitly.
func (s *Service) UpdateInstallment(installmentID string, req UpdateInstallmentRequest) (*Installment, error) {
	installment, err := s.db.GetInstallment(installmentID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		installment.Amount = *req.Amount
	}
	if req.DueDate != nil {
		installment.DueDate = *req.DueDate
	}
	if req.PaymentDate != nil {
		installment.PaymentDate = req.PaymentDate
		installment.Status = InstallmentPaid
	}
	if req.Status != nil {
		installment.Status = *req.Status
	}
	installment.UpdatedAt = time.Now()

	if err := s.db.UpdateInstallment(installment); err != nil {
		return nil, err
	}
	return installment, nil
}

func (s *Service) DeleteInstallment(installmentID string) error {
	return s.db.DeleteInstallment(installmentID)
}

// CreateUnitPartner links a partner to an existing unit with their stake
func (s *Service) CreateUnitPartner(req CreateUnitPartnerRequest) (*UnitPartner, error) {
	if _, err := s.db.GetUnit(req.UnitID); err != nil {
		return nil, err
	}

	unitPartner := &UnitPartner{
		UnitPartnerID:         "UPT_" + uuid.New().String(),
		UnitID:                req.UnitID,
		PartnerID:             req.PartnerID,
		PartnershipPercentage: req.PartnershipPercentage,
		CreatedAt:             time.Now(),
	}

	if err := s.db.CreateUnitPartner(unitPartner); err != nil {
		return nil, fmt.Errorf("failed to create unit partner: %w", err)
	}
	return unitPartner, nil
}

// GetUnitPartners lists partnership links for a unit or a partner. One of the
// two filters is required; an unfiltered listing is meaningless here.
func (s *Service) GetUnitPartners(unitID, partnerID string) ([]UnitPartner, error) {
	if unitID != "" {
		return s.db.GetUnitPartnersByUnit(unitID)
	}
	if partnerID != "" {
		return s.db.GetUnitPartnersByPartner(partnerID)
	}
	return []UnitPartner{}, nil
}

func (s *Service) DeleteUnitPartner(unitPartnerID string) error {
	return s.db.DeleteUnitPartner(unitPartnerID)
}

// CreateReturnedUnit records a unit return. The unit is flipped to RETURNED
// atomically with the record; resale status defaults to FOR_SALE.
func (s *Service) CreateReturnedUnit(req CreateReturnedUnitRequest) (*ReturnedUnit, error) {
	if _, err := s.db.GetUnit(req.UnitID); err != nil {
		return nil, err
	}

	resaleStatus := req.ResaleStatus
	if resaleStatus == "" {
		resaleStatus = ResaleForSale
	}

	ret := &ReturnedUnit{
		ReturnID:            "RTN_" + uuid.New().String(),
		UnitID:              req.UnitID,
		ReturnReason:        req.ReturnReason,
		CompletingPartnerID: req.CompletingPartnerID,
		CompletionDate:      req.CompletionDate,
		CompletionAmount:    req.CompletionAmount,
		ResaleStatus:        resaleStatus,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}

	if err := s.db.CreateReturnedUnit(ret); err != nil {
		return nil, fmt.Errorf("failed to create returned unit: %w", err)
	}
	return ret, nil
}

func (s *Service) GetReturnedUnit(returnID string) (*ReturnedUnit, error) {
	return s.db.GetReturnedUnit(returnID)
}

func (s *Service) GetAllReturnedUnits() ([]ReturnedUnit, error) {
	return s.db.GetAllReturnedUnits()
}

func (s *Service) UpdateReturnedUnit(returnID string, req UpdateReturnedUnitRequest) (*ReturnedUnit, error) {
	ret, err := s.db.GetReturnedUnit(returnID)
	if err != nil {
		return nil, err
	}

	if req.ReturnReason != nil {
		ret.ReturnReason = *req.ReturnReason
	}
	if req.CompletingPartnerID != nil {
		ret.CompletingPartnerID = *req.CompletingPartnerID
	}
	if req.CompletionDate != nil {
		ret.CompletionDate = req.CompletionDate
	}
	if req.CompletionAmount != nil {
		ret.CompletionAmount = *req.CompletionAmount
	}
	if req.ResaleStatus != nil {
		ret.ResaleStatus = *req.ResaleStatus
	}
	ret.UpdatedAt = time.Now()

	if err := s.db.UpdateReturnedUnit(ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// CreatePayment records money received from a customer against a unit
func (s *Service) CreatePayment(req CreatePaymentRequest) (*Payment, error) {
	if _, err := s.db.GetUnit(req.UnitID); err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = time.Now()
	}

	payment := &Payment{
		PaymentID:     "PAY_" + uuid.New().String(),
		UnitID:        req.UnitID,
		CustomerID:    req.CustomerID,
		Amount:        req.Amount,
		PaymentType:   req.PaymentType,
		PaymentMethod: req.PaymentMethod,
		Date:          date,
		Notes:         req.Notes,
		CreatedAt:     time.Now(),
	}

	if err := s.db.CreatePayment(payment); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	return payment, nil
}

func (s *Service) GetPayment(paymentID string) (*Payment, error) {
	return s.db.GetPayment(paymentID)
}

func (s *Service) GetPayments(filter PaymentFilter) ([]Payment, error) {
	return s.db.GetPayments(filter)
}

// GetDB exposes the database layer for the background processor
func (s *Service) GetDB() *Database {
	return s.db
}

// GinHandlers contains HTTP handlers for customer, unit and installment endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for property endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

func (h *GinHandlers) CreateCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		customer, err := h.service.CreateCustomer(req)
		response.Handle(c, customer, err)
	}
}

func (h *GinHandlers) GetCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		customer, err := h.service.GetCustomer(c.Param("customer_id"))
		response.Handle(c, customer, err)
	}
}

func (h *GinHandlers) ListCustomersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := h.service.GetAllCustomers()
		response.Handle(c, customers, err)
	}
}

func (h *GinHandlers) UpdateCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		customer, err := h.service.UpdateCustomer(c.Param("customer_id"), req)
		response.Handle(c, customer, err)
	}
}

func (h *GinHandlers) DeleteCustomerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteCustomer(c.Param("customer_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}

func (h *GinHandlers) CreateUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUnitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		unit, err := h.service.CreateUnit(req)
		response.Handle(c, unit, err)
	}
}

func (h *GinHandlers) GetUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		unit, err := h.service.GetUnit(c.Param("unit_id"))
		response.Handle(c, unit, err)
	}
}

func (h *GinHandlers) ListUnitsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		units, err := h.service.GetUnits(c.Query("status"))
		response.Handle(c, units, err)
	}
}

func (h *GinHandlers) UpdateUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUnitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		unit, err := h.service.UpdateUnit(c.Param("unit_id"), req)
		response.Handle(c, unit, err)
	}
}

func (h *GinHandlers) DeleteUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteUnit(c.Param("unit_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}

func (h *GinHandlers) CreateInstallmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateInstallmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		installment, err := h.service.CreateInstallment(req)
		response.Handle(c, installment, err)
	}
}

func (h *GinHandlers) GetInstallmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		installment, err := h.service.GetInstallment(c.Param("installment_id"))
		response.Handle(c, installment, err)
	}
}

func (h *GinHandlers) ListInstallmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		installments, err := h.service.GetInstallments(
			c.Query("unit_id"),
			c.Query("overdue") == "true",
		)
		response.Handle(c, installments, err)
	}
}

func (h *GinHandlers) UpdateInstallmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateInstallmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		installment, err := h.service.UpdateInstallment(c.Param("installment_id"), req)
		response.Handle(c, installment, err)
	}
}

func (h *GinHandlers) DeleteInstallmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteInstallment(c.Param("installment_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}

func (h *GinHandlers) CreateUnitPartnerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUnitPartnerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		unitPartner, err := h.service.CreateUnitPartner(req)
		response.Handle(c, unitPartner, err)
	}
}

func (h *GinHandlers) ListUnitPartnersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		unitPartners, err := h.service.GetUnitPartners(
			c.Query("unit_id"),
			c.Query("partner_id"),
		)
		response.Handle(c, unitPartners, err)
	}
}

func (h *GinHandlers) DeleteUnitPartnerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteUnitPartner(c.Param("unit_partner_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}

func (h *GinHandlers) CreateReturnedUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateReturnedUnitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		ret, err := h.service.CreateReturnedUnit(req)
		response.Handle(c, ret, err)
	}
}

func (h *GinHandlers) GetReturnedUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ret, err := h.service.GetReturnedUnit(c.Param("return_id"))
		response.Handle(c, ret, err)
	}
}

func (h *GinHandlers) ListReturnedUnitsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		returns, err := h.service.GetAllReturnedUnits()
		response.Handle(c, returns, err)
	}
}

func (h *GinHandlers) UpdateReturnedUnitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateReturnedUnitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		ret, err := h.service.UpdateReturnedUnit(c.Param("return_id"), req)
		response.Handle(c, ret, err)
	}
}

func (h *GinHandlers) CreatePaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		payment, err := h.service.CreatePayment(req)
		response.Handle(c, payment, err)
	}
}

func (h *GinHandlers) GetPaymentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		payment, err := h.service.GetPayment(c.Param("payment_id"))
		response.Handle(c, payment, err)
	}
}

func (h *GinHandlers) ListPaymentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := PaymentFilter{
			UnitID:     c.Query("unit_id"),
			CustomerID: c.Query("customer_id"),
		}

		payments, err := h.service.GetPayments(filter)
		response.Handle(c, payments, err)
	}
}
