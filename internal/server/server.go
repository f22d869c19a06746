// Package server assembles the HTTP application: services, handlers and the
// gin router they are mounted on.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"pennyplan/internal/config"
	"pennyplan/internal/events"
	"pennyplan/internal/handlers"
	"pennyplan/internal/middleware"
	"pennyplan/internal/services"
)

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App is the assembled application. Its router and background jobs share
// one writer gate and one change bus.
type App struct {
	Router    *gin.Engine
	recurring services.RecurringServicer
}

// New builds the application. publisher and pinger may be nil.
func New(cfg *config.Config, db *gorm.DB, publisher services.ActivityPublisher, pinger Pinger) *App {
	bus := events.NewBus()
	gate := services.NewWriterGate()

	activityService := services.NewActivityService(db, publisher)
	budgetService := services.NewBudgetService(db, gate, bus, activityService)
	categoryService := services.NewCategoryService(db, gate, activityService)
	periodService := services.NewPeriodService(db, gate, bus, activityService)
	sectionService := services.NewSectionService(db, gate, bus, activityService)
	assignmentService := services.NewAssignmentService(db, gate, bus, activityService)
	planService := services.NewPlanService(db, gate, bus, activityService)
	transactionService := services.NewTransactionService(db, gate, bus, activityService)
	rolloverService := services.NewRolloverService(db, gate, bus, activityService)
	aggregatorService := services.NewAggregatorService(db, bus, cfg.SummaryCacheSize, cfg.SummaryCacheTTL)
	exportService := services.NewExportService(db, aggregatorService)
	recurringService := services.NewRecurringService(db, gate, bus, activityService)
	liabilityService := services.NewLiabilityService(db)

	routes := &handlers.Routes{
		Scope:        handlers.NewScope(budgetService, periodService),
		Budgets:      handlers.NewBudgetHandler(budgetService),
		Categories:   handlers.NewCategoryHandler(categoryService),
		Periods:      handlers.NewPeriodHandler(periodService, rolloverService),
		Sections:     handlers.NewSectionHandler(sectionService, assignmentService),
		Plans:        handlers.NewPlanHandler(planService),
		Transactions: handlers.NewTransactionHandler(transactionService),
		Reports:      handlers.NewReportHandler(aggregatorService, exportService),
		Recurring:    handlers.NewRecurringHandler(recurringService),
		Liabilities:  handlers.NewLiabilityHandler(liabilityService),
		Activity:     handlers.NewActivityHandler(activityService),
		Events:       handlers.NewEventsHandler(bus),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/api/health", func(c *gin.Context) {
		if pinger != nil {
			if err := pinger.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	routes.Register(v1.Group("", middleware.AuthMiddleware(cfg.JWTSecret)))
	routes.RegisterMaintenance(v1.Group("/internal", middleware.APIKeyMiddleware(cfg.InternalAPIKey)))

	return &App{Router: router, recurring: recurringService}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
