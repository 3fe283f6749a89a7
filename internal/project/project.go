package project

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/pkg/response"
)

// Service handles project and partner management
type Service struct {
	db *Database
}

// NewService creates a new project service with the given database connection
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// CreateProject registers a new project, defaulting to ACTIVE status
func (s *Service) CreateProject(req CreateProjectRequest) (*Project, error) {
	status := req.Status
	if status == "" {
		status = "ACTIVE"
	}
	startDate := req.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	project := &Project{
		ProjectID:   "PRJ_" + uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		Status:      status,
		StartDate:   startDate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.db.CreateProject(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetProject retrieves a project by its ID
func (s *Service) GetProject(projectID string) (*Project, error) {
	return s.db.GetProject(projectID)
}

// GetAllProjects lists every project, newest first
func (s *Service) GetAllProjects() ([]Project, error) {
	return s.db.GetAllProjects()
}

// UpdateProject applies the provided fields to an existing project
func (s *Service) UpdateProject(projectID string, req UpdateProjectRequest) (*Project, error) {
	project, err := s.db.GetProject(projectID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.StartDate != nil {
		project.StartDate = *req.StartDate
	}
	project.UpdatedAt = time.Now()

	if err := s.db.UpdateProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes a project
func (s *Service) DeleteProject(projectID string) error {
	return s.db.DeleteProject(projectID)
}

// CreatePartner registers a partner under an existing project
func (s *Service) CreatePartner(req CreatePartnerRequest) (*Partner, error) {
	// The owning project must exist
	if _, err := s.db.GetProject(req.ProjectID); err != nil {
		return nil, err
	}

	partner := &Partner{
		PartnerID:       "PRT_" + uuid.New().String(),
		ProjectID:       req.ProjectID,
		Name:            req.Name,
		SharePercentage: req.SharePercentage,
		PreviousBalance: req.PreviousBalance,
		CurrentBalance:  req.CurrentBalance,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.db.CreatePartner(partner); err != nil {
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}
	return partner, nil
}

// GetPartner retrieves a partner by its ID
func (s *Service) GetPartner(partnerID string) (*Partner, error) {
	return s.db.GetPartner(partnerID)
}

// GetPartners lists partners, optionally filtered by project
func (s *Service) GetPartners(projectID string) ([]Partner, error) {
	if projectID != "" {
		return s.db.GetPartnersByProject(projectID)
	}
	return s.db.GetAllPartners()
}

// UpdatePartner applies the provided fields to an existing partner
func (s *Service) UpdatePartner(partnerID string, req UpdatePartnerRequest) (*Partner, error) {
	partner, err := s.db.GetPartner(partnerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.SharePercentage != nil {
		partner.SharePercentage = *req.SharePercentage
	}
	if req.PreviousBalance != nil {
		partner.PreviousBalance = *req.PreviousBalance
	}
	if req.CurrentBalance != nil {
		partner.CurrentBalance = *req.CurrentBalance
	}
	partner.UpdatedAt = time.Now()

	if err := s.db.UpdatePartner(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

// DeletePartner removes a partner
func (s *Service) DeletePartner(partnerID string) error {
	return s.db.DeletePartner(partnerID)
}

// GinHandlers contains HTTP handlers for project and partner endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for project endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

func (h *GinHandlers) CreateProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		project, err := h.service.CreateProject(req)
		response.Handle(c, project, err)
	}
}

func (h *GinHandlers) GetProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := h.service.GetProject(c.Param("project_id"))
		response.Handle(c, project, err)
	}
}

func (h *GinHandlers) ListProjectsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projects, err := h.service.GetAllProjects()
		response.Handle(c, projects, err)
	}
}

func (h *GinHandlers) UpdateProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		project, err := h.service.UpdateProject(c.Param("project_id"), req)
		response.Handle(c, project, err)
	}
}

func (h *GinHandlers) DeleteProjectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeleteProject(c.Param("project_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}

func (h *GinHandlers) CreatePartnerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePartnerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		partner, err := h.service.CreatePartner(req)
		response.Handle(c, partner, err)
	}
}

func (h *GinHandlers) GetPartnerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		partner, err := h.service.GetPartner(c.Param("partner_id"))
		response.Handle(c, partner, err)
	}
}

func (h *GinHandlers) ListPartnersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		partners, err := h.service.GetPartners(c.Query("project_id"))
		response.Handle(c, partners, err)
	}
}

func (h *GinHandlers) UpdatePartnerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePartnerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ValidationFailed(c, err.Error())
			return
		}

		partner, err := h.service.UpdatePartner(c.Param("partner_id"), req)
		response.Handle(c, partner, err)
	}
}

func (h *GinHandlers) DeletePartnerHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := h.service.DeletePartner(c.Param("partner_id")); err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.NoContent(c)
	}
}
