package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"dealerops/internal/config"
	"dealerops/internal/models"
	"dealerops/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Only the engine surface carries behavior; the CRUD methods are inert.
type stubRepo struct {
	mu sync.Mutex

	orders  []models.Order
	listErr error

	updates map[string]repository.ScoreUpdate
}

func (s *stubRepo) ListActiveOrders(ctx context.Context, params repository.ListActiveOrdersParams) ([]models.Order, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	if params.SalespersonID == nil {
		return s.orders, nil
	}
	var out []models.Order
	for _, o := range s.orders {
		if o.SalespersonID != nil && *o.SalespersonID == *params.SalespersonID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateOrderScores(ctx context.Context, orderID string, update repository.ScoreUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updates == nil {
		s.updates = map[string]repository.ScoreUpdate{}
	}
	s.updates[orderID] = update
	return nil
}

func (s *stubRepo) ListOrders(ctx context.Context, params repository.ListOrdersParams) ([]models.Order, error) {
	return nil, nil
}
func (s *stubRepo) CountOrders(ctx context.Context, params repository.ListOrdersParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return nil, nil
}
func (s *stubRepo) ListActivities(ctx context.Context, params repository.ListActivitiesParams) ([]models.Activity, error) {
	return nil, nil
}
func (s *stubRepo) InsertActivity(ctx context.Context, item *models.Activity) error { return nil }
func (s *stubRepo) TouchLastContact(ctx context.Context, orderID string, at time.Time) error {
	return nil
}
func (s *stubRepo) ListSalespeople(ctx context.Context) ([]models.Salesperson, error) {
	return nil, nil
}

var errStoreDown = errors.New("store unavailable")

// recordingSink captures writeback dispatches without a queue.
type recordingSink struct {
	mu       sync.Mutex
	enqueued map[string]repository.ScoreUpdate
}

func (r *recordingSink) Enqueue(orderID string, update repository.ScoreUpdate) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.enqueued == nil {
		r.enqueued = map[string]repository.ScoreUpdate{}
	}
	r.enqueued[orderID] = update
	return true
}

func testEngineConfig() config.EngineConfig {
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
		StageSLADays: map[string]int{
			"NEW":                5,
			"CONTACTED":          7,
			"TEST_DRIVE":         7,
			"NEGOTIATION":        10,
			"FINANCING":          7,
			"APPROVED":           5,
			"READY_FOR_DELIVERY": 3,
		},
		TieBreak:     "total_amount",
		Workers:      4,
		DefaultLimit: 20,
		MaxLimit:     50,
	}
}
