package settlement

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/estatebook/estatebook-api/pkg/response"
)

// Service runs settlement calculations and serves settlement history
type Service struct {
	db *Database
}

// NewService creates a new settlement service with the given database connection
func NewService(gormDB *gorm.DB) *Service {
	return &Service{
		db: NewDatabase(gormDB),
	}
}

// CalculateSettlements equalizes the net contributions of a project's
// partners and persists the result.
//
// The run reads only transactions not consumed by a previous run, so calling
// it again without new activity settles nothing. Emitted settlements, the
// settled-transaction marks and the partner balance roll-forward commit in a
// single database transaction. A run that emits no settlements consumes no
// transactions, leaving balanced contributions available to future runs.
func (s *Service) CalculateSettlements(projectID string) ([]Settlement, error) {
	logger := log.With().
		Str("project_id", projectID).
		Str("service", "settlement").
		Logger()

	logger.Info().Msg("starting settlement run")

	if _, err := s.db.GetProjectByID(projectID); err != nil {
		logger.Error().Err(err).Msg("failed to fetch project")
		return nil, err
	}

	partners, err := s.db.GetPartnersByProject(projectID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch partners")
		return nil, err
	}

	if len(partners) < 2 {
		logger.Info().Int("partner_count", len(partners)).Msg("nothing to settle")
		return []Settlement{}, nil
	}

	txns, err := s.db.GetUnsettledTransactions(projectID)
	if err != nil {
		logger.Error().Err(err).Msg("failed to fetch transactions")
		return nil, err
	}

	drafts := ComputeEqualization(partners, txns)
	if len(drafts) == 0 {
		logger.Info().
			Int("partner_count", len(partners)).
			Int("transaction_count", len(txns)).
			Msg("partners already balanced, no settlements emitted")
		return []Settlement{}, nil
	}

	runID := "RUN_" + uuid.New().String()
	now := time.Now()

	settlements := make([]Settlement, 0, len(drafts))
	for _, draft := range drafts {
		settlements = append(settlements, Settlement{
			SettlementID:      "STL_" + uuid.New().String(),
			RunID:             runID,
			PartnerID:         draft.PartnerID,
			ProjectID:         projectID,
			PaymentAmount:     draft.PaymentAmount,
			PreviousBalance:   draft.PreviousBalance,
			OutstandingAmount: draft.PaymentAmount,
			FinalBalance:      draft.FinalBalance,
			Date:              now,
			Notes:             draft.Notes,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}

	// Transactions attributed to a partner outside the group take no part in
	// the computation, so they are not consumed either; they stay available
	// for a run after that partner joins the project.
	partnerSet := make(map[string]struct{}, len(partners))
	for _, p := range partners {
		partnerSet[p.PartnerID] = struct{}{}
	}
	transactionIDs := make([]string, 0, len(txns))
	for _, txn := range txns {
		if _, ok := partnerSet[txn.PartnerID]; !ok {
			continue
		}
		transactionIDs = append(transactionIDs, txn.TransactionID)
	}

	if err := s.db.ApplySettlementRun(runID, settlements, transactionIDs); err != nil {
		logger.Error().Err(err).Str("run_id", runID).Msg("failed to apply settlement run")
		return nil, fmt.Errorf("failed to apply settlement run: %w", err)
	}

	logger.Info().
		Str("run_id", runID).
		Int("settlement_count", len(settlements)).
		Int("transactions_consumed", len(transactionIDs)).
		Msg("settlement run completed")

	return settlements, nil
}

// GetSettlement retrieves a settlement by ID
func (s *Service) GetSettlement(settlementID string) (*Settlement, error) {
	return s.db.GetSettlement(settlementID)
}

// GetSettlements lists settlements matching the filter
func (s *Service) GetSettlements(filter SettlementFilter) ([]Settlement, error) {
	return s.db.GetSettlements(filter)
}

// GinHandlers contains HTTP handlers for settlement endpoints
type GinHandlers struct {
	service *Service
}

// NewGinHandlers creates a new set of HTTP handlers for settlement endpoints
func NewGinHandlers(service *Service) *GinHandlers {
	return &GinHandlers{
		service: service,
	}
}

// CalculateSettlementsHandler handles POST requests to run the settlement
// calculation for a project. The request body is empty; the response carries
// the settlements created by the run. The run computes rather than creates a
// resource, so success is 200, not 201.
func (h *GinHandlers) CalculateSettlementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID := c.Param("project_id")

		settlements, err := h.service.CalculateSettlements(projectID)
		if err != nil {
			response.Handle(c, nil, err)
			return
		}
		response.OK(c, settlements)
	}
}

func (h *GinHandlers) GetSettlementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		settlement, err := h.service.GetSettlement(c.Param("settlement_id"))
		response.Handle(c, settlement, err)
	}
}

func (h *GinHandlers) ListSettlementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := SettlementFilter{
			ProjectID: c.Query("project_id"),
			PartnerID: c.Query("partner_id"),
			RunID:     c.Query("run_id"),
		}

		settlements, err := h.service.GetSettlements(filter)
		response.Handle(c, settlements, err)
	}
}
