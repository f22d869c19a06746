package handlers

import (
	"github.com/gin-gonic/gin"

	"pennyplan/internal/models"
	"pennyplan/internal/services"
)

const (
	budgetKey = "budget"
	periodKey = "period"
)

// Scope resolves the budget and period named in the path and stores them on
// the context. A budget of another owner is reported as not found.
type Scope struct {
	budgetService services.BudgetServicer
	periodService services.PeriodServicer
}

// NewScope creates a new Scope.
func NewScope(budgetService services.BudgetServicer, periodService services.PeriodServicer) *Scope {
	return &Scope{budgetService: budgetService, periodService: periodService}
}

// Budget loads :budgetID for the authenticated owner.
func (s *Scope) Budget() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := getOwnerID(c)
		if err != nil {
			respondWithError(c, err)
			c.Abort()
			return
		}
		budgetID, err := parsePathID(c, "budgetID")
		if err != nil {
			respondWithError(c, err)
			c.Abort()
			return
		}
		budget, err := s.budgetService.GetBudget(c.Request.Context(), ownerID, budgetID)
		if err != nil {
			respondWithError(c, err)
			c.Abort()
			return
		}
		c.Set(budgetKey, budget)
		c.Next()
	}
}

// Period loads :periodID within the scoped budget. Must run after Budget.
func (s *Scope) Period() gin.HandlerFunc {
	return func(c *gin.Context) {
		periodID, err := parsePathID(c, "periodID")
		if err != nil {
			respondWithError(c, err)
			c.Abort()
			return
		}
		period, err := s.periodService.GetPeriod(c.Request.Context(), scopedBudget(c).ID, periodID)
		if err != nil {
			respondWithError(c, err)
			c.Abort()
			return
		}
		c.Set(periodKey, period)
		c.Next()
	}
}

func scopedBudget(c *gin.Context) *models.Budget {
	return c.MustGet(budgetKey).(*models.Budget)
}

func scopedPeriod(c *gin.Context) *models.Period {
	return c.MustGet(periodKey).(*models.Period)
}
