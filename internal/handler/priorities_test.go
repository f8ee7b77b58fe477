package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"dealerops/internal/config"
	"dealerops/internal/engine"
	"dealerops/internal/models"
	"dealerops/internal/repository"
)

// fakeRepo serves a canned active book; only the engine read path matters
// for these handler tests.
type fakeRepo struct {
	orders          []models.Order
	lastListParams  repository.ListActiveOrdersParams
	lastListCalled  bool
	updatedOrderIDs []string
}

func (f *fakeRepo) ListActiveOrders(ctx context.Context, params repository.ListActiveOrdersParams) ([]models.Order, error) {
	f.lastListCalled = true
	f.lastListParams = params
	return f.orders, nil
}

func (f *fakeRepo) UpdateOrderScores(ctx context.Context, orderID string, update repository.ScoreUpdate) error {
	f.updatedOrderIDs = append(f.updatedOrderIDs, orderID)
	return nil
}

func (f *fakeRepo) ListOrders(ctx context.Context, params repository.ListOrdersParams) ([]models.Order, error) {
	return nil, nil
}
func (f *fakeRepo) CountOrders(ctx context.Context, params repository.ListOrdersParams) (int64, error) {
	return 0, nil
}
func (f *fakeRepo) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return nil, nil
}
func (f *fakeRepo) ListActivities(ctx context.Context, params repository.ListActivitiesParams) ([]models.Activity, error) {
	return nil, nil
}
func (f *fakeRepo) InsertActivity(ctx context.Context, item *models.Activity) error { return nil }
func (f *fakeRepo) TouchLastContact(ctx context.Context, orderID string, at time.Time) error {
	return nil
}
func (f *fakeRepo) ListSalespeople(ctx context.Context) ([]models.Salesperson, error) {
	return nil, nil
}

func testOrder(id string, silentDays int) models.Order {
	now := time.Now()
	contacted := now.Add(-time.Duration(silentDays) * 24 * time.Hour)
	return models.Order{
		ID:              id,
		Status:          models.OrderStatusNegotiation,
		TotalAmount:     decimal.NewFromInt(50000),
		LastContactAt:   &contacted,
		FinancingStatus: models.FinancingNotStarted,
		StatusChangedAt: now.Add(-24 * time.Hour),
	}
}

func testConfig() config.EngineConfig {
	return config.EngineConfig{
		ContactSilenceDays:      7,
		ContactWeightPerDay:     3,
		ContactWeightCap:        30,
		MissingContactDays:      30,
		FinancingGraceHours:     48,
		FinancingStallWeight:    40,
		StageDwellWeight:        15,
		HighValueThreshold:      100000,
		HighValueWeight:         10,
		NegativeSentimentWeight: 25,
		StageSLADays:            map[string]int{"NEGOTIATION": 10},
		TieBreak:                "total_amount",
		Workers:                 4,
		DefaultLimit:            20,
		MaxLimit:                50,
	}
}

func newPrioritiesRouter(repo repository.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &PriorityHandler{
		Ranker:       engine.NewRanker(repo, testConfig(), nil, nil),
		DefaultLimit: 20,
		MaxLimit:     50,
	}
	h.Register(r)
	return r
}

func doGet(t *testing.T, r *gin.Engine, target string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	var body apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v\n%s", err, w.Body.String())
	}
	return w, body
}

func TestGetPriorities_OK(t *testing.T) {
	repo := &fakeRepo{orders: []models.Order{testOrder("ord_a", 10), testOrder("ord_b", 1)}}
	w, body := doGet(t, newPrioritiesRouter(repo), "/api/v1/priorities")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if body.Code != 0 || body.Message != "ok" {
		t.Fatalf("envelope=%+v", body)
	}
	data, err := json.Marshal(body.Data)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	var snap engine.PrioritySnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("snapshot decode: %v", err)
	}
	if len(snap.Items) != 2 {
		t.Fatalf("items=%d want=2", len(snap.Items))
	}
	if snap.Items[0].OrderID != "ord_a" {
		t.Fatalf("first=%s want the silent order ranked first", snap.Items[0].OrderID)
	}
}

func TestGetPriorities_InvalidRiskLevel(t *testing.T) {
	repo := &fakeRepo{}
	w, body := doGet(t, newPrioritiesRouter(repo), "/api/v1/priorities?risk_level=SEVERE")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", w.Code)
	}
	if body.Message != "risk_level must be one of LOW, MEDIUM, HIGH" {
		t.Fatalf("message=%q", body.Message)
	}
	if repo.lastListCalled {
		t.Fatalf("store hit despite invalid input")
	}
}

func TestGetPriorities_RiskLevelCaseInsensitive(t *testing.T) {
	repo := &fakeRepo{orders: []models.Order{testOrder("ord_a", 1)}}
	w, _ := doGet(t, newPrioritiesRouter(repo), "/api/v1/priorities?risk_level=low")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d want=200 for lowercase level", w.Code)
	}
}

func TestGetPriorities_NonNumericLimit(t *testing.T) {
	repo := &fakeRepo{}
	w, body := doGet(t, newPrioritiesRouter(repo), "/api/v1/priorities?limit=ten")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", w.Code)
	}
	if body.Message != "limit must be an integer" {
		t.Fatalf("message=%q", body.Message)
	}
}

func TestGetPriorities_LimitClamped(t *testing.T) {
	orders := make([]models.Order, 0, 60)
	for i := 0; i < 60; i++ {
		orders = append(orders, testOrder(orderID(i), 10))
	}
	repo := &fakeRepo{orders: orders}
	r := newPrioritiesRouter(repo)

	_, body := doGet(t, r, "/api/v1/priorities?limit=500")
	snap := decodeSnapshot(t, body)
	if len(snap.Items) != 50 {
		t.Fatalf("items=%d want max limit 50", len(snap.Items))
	}

	_, body = doGet(t, r, "/api/v1/priorities?limit=-3")
	snap = decodeSnapshot(t, body)
	if len(snap.Items) != 1 {
		t.Fatalf("items=%d want floor of 1", len(snap.Items))
	}
}

func TestGetPriorities_SalespersonForwarded(t *testing.T) {
	repo := &fakeRepo{}
	w, _ := doGet(t, newPrioritiesRouter(repo), "/api/v1/priorities?salesperson_id=sp_01")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if repo.lastListParams.SalespersonID == nil || *repo.lastListParams.SalespersonID != "sp_01" {
		t.Fatalf("salesperson filter not forwarded: %+v", repo.lastListParams)
	}
}

func decodeSnapshot(t *testing.T, body apiResponse) engine.PrioritySnapshot {
	t.Helper()
	raw, err := json.Marshal(body.Data)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}
	var snap engine.PrioritySnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("snapshot decode: %v", err)
	}
	return snap
}

func orderID(i int) string {
	return "ord_" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}
