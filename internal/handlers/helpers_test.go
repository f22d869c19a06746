package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pennyplan/internal/events"
	"pennyplan/internal/middleware"
	"pennyplan/internal/validator"
)

const (
	testOwnerID       = "user_2abc"
	testBudgetID      = "01940a3c-7e1a-7000-8000-000000000001"
	testPeriodID      = "01940a3c-7e1a-7000-8000-000000000002"
	testOtherPeriodID = "01940a3c-7e1a-7000-8000-000000000003"
	testSectionID     = "01940a3c-7e1a-7000-8000-000000000004"
	testOtherSection  = "01940a3c-7e1a-7000-8000-000000000005"
	testCategoryID    = "01940a3c-7e1a-7000-8000-000000000006"
	testHeadID        = "01940a3c-7e1a-7000-8000-000000000007"
	testRecordID      = "01940a3c-7e1a-7000-8000-000000000008"
	testMaintenance   = "maint-key"

	budgetPath = "/budgets/" + testBudgetID
	periodPath = budgetPath + "/periods/" + testPeriodID
)

var testNow = time.Date(2025, time.January, 15, 9, 30, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// testServices holds one mock per service; tests override the fn fields
// they care about before calling router.
type testServices struct {
	budgets      *mockBudgetService
	periods      *mockPeriodService
	categories   *mockCategoryService
	sections     *mockSectionService
	assignments  *mockAssignmentService
	plans        *mockPlanService
	transactions *mockTransactionService
	rollover     *mockRolloverService
	aggregator   *mockAggregatorService
	export       *mockExportService
	recurring    *mockRecurringService
	liabilities  *mockLiabilityService
	activity     *mockActivityService
	bus          *events.Bus
}

func newTestServices() *testServices {
	return &testServices{
		budgets:      &mockBudgetService{},
		periods:      &mockPeriodService{},
		categories:   &mockCategoryService{},
		sections:     &mockSectionService{},
		assignments:  &mockAssignmentService{},
		plans:        &mockPlanService{},
		transactions: &mockTransactionService{},
		rollover:     &mockRolloverService{},
		aggregator:   &mockAggregatorService{},
		export:       &mockExportService{},
		recurring:    &mockRecurringService{},
		liabilities:  &mockLiabilityService{},
		activity:     &mockActivityService{},
		bus:          events.NewBus(),
	}
}

func (s *testServices) routes() *Routes {
	periods := NewPeriodHandler(s.periods, s.rollover)
	periods.now = func() time.Time { return testNow }
	recurring := NewRecurringHandler(s.recurring)
	recurring.now = func() time.Time { return testNow }

	return &Routes{
		Scope:        NewScope(s.budgets, s.periods),
		Budgets:      NewBudgetHandler(s.budgets),
		Categories:   NewCategoryHandler(s.categories),
		Periods:      periods,
		Sections:     NewSectionHandler(s.sections, s.assignments),
		Plans:        NewPlanHandler(s.plans),
		Transactions: NewTransactionHandler(s.transactions),
		Reports:      NewReportHandler(s.aggregator, s.export),
		Recurring:    recurring,
		Liabilities:  NewLiabilityHandler(s.liabilities),
		Activity:     NewActivityHandler(s.activity),
		Events:       NewEventsHandler(s.bus),
	}
}

func (s *testServices) router() *gin.Engine {
	return s.routerAs(testOwnerID)
}

func (s *testServices) routerAs(ownerID string) *gin.Engine {
	rt := s.routes()
	r := gin.New()
	rt.Register(r.Group("", injectOwnerID(ownerID)))
	rt.RegisterMaintenance(r.Group("/internal", middleware.APIKeyMiddleware(testMaintenance)))
	return r
}

func injectOwnerID(ownerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("ownerID", ownerID)
		c.Next()
	}
}

func newRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	return serve(r, newRequest(method, path, body))
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
