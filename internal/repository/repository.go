package repository

import (
	"context"
	"time"

	"dealerops/internal/models"
)

type ListActiveOrdersParams struct {
	SalespersonID *string
}

type ListOrdersParams struct {
	Limit  int
	Offset int

	Status        *string
	SalespersonID *string
	RiskLevel     *string

	OrderBy string
	Asc     *bool
}

type ListActivitiesParams struct {
	OrderID string
	Limit   int
	Offset  int
}

// ScoreUpdate carries the derived triage fields written back after a scoring
// pass. It never touches order status.
type ScoreUpdate struct {
	RiskScore              int
	RiskLevel              string
	FulfillmentProbability int
	ScoredAt               time.Time
}

// Repository is the order-store boundary consumed by the risk engine and the
// transport layer. Implementations are injected at construction time; nothing
// reaches for ambient/global state.
type Repository interface {
	// Engine surface.
	ListActiveOrders(ctx context.Context, params ListActiveOrdersParams) ([]models.Order, error)
	UpdateOrderScores(ctx context.Context, orderID string, update ScoreUpdate) error

	// Surrounding CRUD surface.
	ListOrders(ctx context.Context, params ListOrdersParams) ([]models.Order, error)
	CountOrders(ctx context.Context, params ListOrdersParams) (int64, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListActivities(ctx context.Context, params ListActivitiesParams) ([]models.Activity, error)
	InsertActivity(ctx context.Context, item *models.Activity) error
	TouchLastContact(ctx context.Context, orderID string, at time.Time) error
	ListSalespeople(ctx context.Context) ([]models.Salesperson, error)
}
