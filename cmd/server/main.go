package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/estatebook/estatebook-api/internal/auth"
	"github.com/estatebook/estatebook-api/internal/config"
	"github.com/estatebook/estatebook-api/internal/dashboard"
	"github.com/estatebook/estatebook-api/internal/database"
	"github.com/estatebook/estatebook-api/internal/finance"
	"github.com/estatebook/estatebook-api/internal/project"
	"github.com/estatebook/estatebook-api/internal/property"
	"github.com/estatebook/estatebook-api/internal/settlement"
	"github.com/estatebook/estatebook-api/internal/transaction"
	"github.com/estatebook/estatebook-api/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// init configures the application logging based on environment settings
// In development mode, it enables pretty printing with timestamps
// Debug logging can be enabled via DEBUG environment variable
func init() {
	// Configure pretty logging for development
	if os.Getenv("ENV") != "production" {
		output := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
		zlog.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set global log level
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if os.Getenv("DEBUG") == "true" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

// main initializes and runs the bookkeeping API server with graceful
// shutdown support
func main() {
	cfg := config.Load()

	// Initialize database
	db, err := database.NewDatabase(cfg.DatabasePath)
	if err != nil {
		zlog.Fatal().Err(err).Msg("Failed to initialize database")
	}

	// Initialize router
	router := gin.Default()

	// Initialize services and handlers
	authService := auth.NewService(cfg.JWTSecret)
	authService.RegisterAPICredentials(cfg.APIKey, cfg.APISecret)
	authHandlers := auth.NewGinHandlers(authService)

	projectService := project.NewService(db)
	projectHandlers := project.NewGinHandlers(projectService)

	transactionService := transaction.NewService(db)
	transactionHandlers := transaction.NewGinHandlers(transactionService)

	settlementService := settlement.NewService(db)
	settlementHandlers := settlement.NewGinHandlers(settlementService)

	financeService := finance.NewService(db)
	financeHandlers := finance.NewGinHandlers(financeService)

	propertyService := property.NewService(db)
	propertyHandlers := property.NewGinHandlers(propertyService)

	dashboardService := dashboard.NewService(db)
	dashboardHandlers := dashboard.NewGinHandlers(dashboardService)

	// Create and start the installment overdue processor
	sweepInterval, err := time.ParseDuration(cfg.SweepInterval)
	if err != nil {
		zlog.Warn().Str("interval", cfg.SweepInterval).Msg("Invalid sweep interval, using default")
		sweepInterval = time.Hour
	}
	installmentProcessor := property.NewProcessor(propertyService.GetDB(), sweepInterval)
	processorCtx, processorCancel := context.WithCancel(context.Background())
	defer processorCancel()

	go installmentProcessor.Start(processorCtx)

	// Setup middleware. Rate limiting is attached per route group so the
	// limiter on authenticated routes can key on the client identity set by
	// JWTAuth rather than the caller's IP.
	router.Use(middleware.CORS())

	// Setup API routes
	setupRoutes(
		router,
		authService,
		authHandlers,
		projectHandlers,
		transactionHandlers,
		settlementHandlers,
		financeHandlers,
		propertyHandlers,
		dashboardHandlers,
	)

	// Create server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown setup
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal().Err(err).Msg("listen")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info().Msg("Shutting down server...")

	// Give outstanding operations 5 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	zlog.Info().Msg("Server exiting")
}

// setupRoutes configures all API endpoints and their handlers.
// The token endpoint and health check are public; every resource route sits
// behind JWT authentication.
func setupRoutes(
	router *gin.Engine,
	authService *auth.Service,
	authHandlers *auth.GinHandlers,
	projectHandlers *project.GinHandlers,
	transactionHandlers *transaction.GinHandlers,
	settlementHandlers *settlement.GinHandlers,
	financeHandlers *finance.GinHandlers,
	propertyHandlers *property.GinHandlers,
	dashboardHandlers *dashboard.GinHandlers,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		// Auth routes; unauthenticated, so the limiter keys on client IP
		authGroup := v1.Group("/auth")
		authGroup.Use(middleware.RateLimit())
		{
			authGroup.POST("/token", authHandlers.GenerateTokenHandler())
		}

		api := v1.Group("")
		api.Use(middleware.JWTAuth(authService), middleware.RateLimit())
		{
			// Projects and partners
			projects := api.Group("/projects")
			{
				projects.POST("", projectHandlers.CreateProjectHandler())
				projects.GET("", projectHandlers.ListProjectsHandler())
				projects.GET("/:project_id", projectHandlers.GetProjectHandler())
				projects.PUT("/:project_id", projectHandlers.UpdateProjectHandler())
				projects.DELETE("/:project_id", projectHandlers.DeleteProjectHandler())

				// Settlement calculation runs against a single project
				projects.POST("/:project_id/settlements/calculate", settlementHandlers.CalculateSettlementsHandler())
			}

			partners := api.Group("/partners")
			{
				partners.POST("", projectHandlers.CreatePartnerHandler())
				partners.GET("", projectHandlers.ListPartnersHandler())
				partners.GET("/:partner_id", projectHandlers.GetPartnerHandler())
				partners.PUT("/:partner_id", projectHandlers.UpdatePartnerHandler())
				partners.DELETE("/:partner_id", projectHandlers.DeletePartnerHandler())
			}

			settlements := api.Group("/settlements")
			{
				settlements.GET("", settlementHandlers.ListSettlementsHandler())
				settlements.GET("/:settlement_id", settlementHandlers.GetSettlementHandler())
			}

			cashboxes := api.Group("/cashboxes")
			{
				cashboxes.POST("", transactionHandlers.CreateCashboxHandler())
				cashboxes.GET("", transactionHandlers.ListCashboxesHandler())
				cashboxes.GET("/:cashbox_id", transactionHandlers.GetCashboxHandler())
				cashboxes.PUT("/:cashbox_id", transactionHandlers.UpdateCashboxHandler())
				cashboxes.DELETE("/:cashbox_id", transactionHandlers.DeleteCashboxHandler())
			}

			transactions := api.Group("/transactions")
			{
				transactions.POST("", transactionHandlers.CreateTransactionHandler())
				transactions.GET("", transactionHandlers.ListTransactionsHandler())
				transactions.GET("/:transaction_id", transactionHandlers.GetTransactionHandler())
				transactions.PUT("/:transaction_id", transactionHandlers.UpdateTransactionHandler())
				transactions.DELETE("/:transaction_id", transactionHandlers.DeleteTransactionHandler())
			}

			invoices := api.Group("/invoices")
			{
				invoices.POST("", financeHandlers.CreateInvoiceHandler())
				invoices.GET("", financeHandlers.ListInvoicesHandler())
				invoices.GET("/:invoice_id", financeHandlers.GetInvoiceHandler())
				invoices.PUT("/:invoice_id", financeHandlers.UpdateInvoiceHandler())
				invoices.DELETE("/:invoice_id", financeHandlers.DeleteInvoiceHandler())
			}

			revenues := api.Group("/revenues")
			{
				revenues.POST("", financeHandlers.CreateRevenueHandler())
				revenues.GET("", financeHandlers.ListRevenuesHandler())
				revenues.GET("/:revenue_id", financeHandlers.GetRevenueHandler())
				revenues.PUT("/:revenue_id", financeHandlers.UpdateRevenueHandler())
				revenues.DELETE("/:revenue_id", financeHandlers.DeleteRevenueHandler())
			}

			expenses := api.Group("/expenses")
			{
				expenses.POST("", financeHandlers.CreateExpenseHandler())
				expenses.GET("", financeHandlers.ListExpensesHandler())
				expenses.GET("/:expense_id", financeHandlers.GetExpenseHandler())
				expenses.PUT("/:expense_id", financeHandlers.UpdateExpenseHandler())
				expenses.DELETE("/:expense_id", financeHandlers.DeleteExpenseHandler())
			}

			customers := api.Group("/customers")
			{
				customers.POST("", propertyHandlers.CreateCustomerHandler())
				customers.GET("", propertyHandlers.ListCustomersHandler())
				customers.GET("/:customer_id", propertyHandlers.GetCustomerHandler())
				customers.PUT("/:customer_id", propertyHandlers.UpdateCustomerHandler())
				customers.DELETE("/:customer_id", propertyHandlers.DeleteCustomerHandler())
			}

			units := api.Group("/units")
			{
				units.POST("", propertyHandlers.CreateUnitHandler())
				units.GET("", propertyHandlers.ListUnitsHandler())
				units.GET("/:unit_id", propertyHandlers.GetUnitHandler())
				units.PUT("/:unit_id", propertyHandlers.UpdateUnitHandler())
				units.DELETE("/:unit_id", propertyHandlers.DeleteUnitHandler())
			}

			installments := api.Group("/installments")
			{
				installments.POST("", propertyHandlers.CreateInstallmentHandler())
				installments.GET("", propertyHandlers.ListInstallmentsHandler())
				installments.GET("/:installment_id", propertyHandlers.GetInstallmentHandler())
				installments.PUT("/:installment_id", propertyHandlers.UpdateInstallmentHandler())
				installments.DELETE("/:installment_id", propertyHandlers.DeleteInstallmentHandler())
			}

			unitPartners := api.Group("/unit-partners")
			{
				unitPartners.POST("", propertyHandlers.CreateUnitPartnerHandler())
				unitPartners.GET("", propertyHandlers.ListUnitPartnersHandler())
				unitPartners.DELETE("/:unit_partner_id", propertyHandlers.DeleteUnitPartnerHandler())
			}

			returnedUnits := api.Group("/returned-units")
			{
				returnedUnits.POST("", propertyHandlers.CreateReturnedUnitHandler())
				returnedUnits.GET("", propertyHandlers.ListReturnedUnitsHandler())
				returnedUnits.GET("/:return_id", propertyHandlers.GetReturnedUnitHandler())
				returnedUnits.PUT("/:return_id", propertyHandlers.UpdateReturnedUnitHandler())
			}

			payments := api.Group("/payments")
			{
				payments.POST("", propertyHandlers.CreatePaymentHandler())
				payments.GET("", propertyHandlers.ListPaymentsHandler())
				payments.GET("/:payment_id", propertyHandlers.GetPaymentHandler())
			}

			dashboardGroup := api.Group("/dashboard")
			{
				dashboardGroup.GET("/stats", dashboardHandlers.GetStatsHandler())
				dashboardGroup.GET("/charts/cashflow", dashboardHandlers.GetMonthlyCashflowHandler())
			}
		}
	}
}
