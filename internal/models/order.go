package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order lifecycle statuses. DELIVERED and CANCELLED are terminal; the risk
// engine reads status but never writes it.
const (
	OrderStatusNew              = "NEW"
	OrderStatusContacted        = "CONTACTED"
	OrderStatusTestDrive        = "TEST_DRIVE"
	OrderStatusNegotiation      = "NEGOTIATION"
	OrderStatusFinancing        = "FINANCING"
	OrderStatusApproved         = "APPROVED"
	OrderStatusReadyForDelivery = "READY_FOR_DELIVERY"
	OrderStatusDelivered        = "DELIVERED"
	OrderStatusCancelled        = "CANCELLED"
)

const (
	FinancingNotStarted = "NOT_STARTED"
	FinancingPending    = "PENDING"
	FinancingApproved   = "APPROVED"
	FinancingRejected   = "REJECTED"
)

type Order struct {
	ID     string `gorm:"type:varchar(40);primaryKey"`
	Status string `gorm:"type:varchar(30);not null;index;default:'NEW'"`

	CustomerID string   `gorm:"type:varchar(40);not null;index"`
	Customer   Customer `gorm:"foreignKey:CustomerID"`

	VehicleID string  `gorm:"type:varchar(40);not null;index"`
	Vehicle   Vehicle `gorm:"foreignKey:VehicleID"`

	SalespersonID *string `gorm:"type:varchar(40);index"`

	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	BookingAmount decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	LastContactAt      *time.Time `gorm:"type:timestamptz"`
	FinancingStatus    string     `gorm:"type:varchar(20);not null;default:'NOT_STARTED';index"`
	FinancingAppliedAt *time.Time `gorm:"type:timestamptz"`
	StatusChangedAt    time.Time  `gorm:"type:timestamptz;not null"`

	Activities []Activity `gorm:"foreignKey:OrderID"`

	// Derived triage fields, refreshed best-effort by the risk engine.
	// The live computation is authoritative; these are a convenience cache
	// for dashboards and coaching views.
	RiskScore              int        `gorm:"not null;default:0;index"`
	RiskLevel              string     `gorm:"type:varchar(10);not null;default:'LOW';index"`
	FulfillmentProbability int        `gorm:"not null;default:0"`
	ScoredAt               *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Order) TableName() string {
	return "orders"
}

// TerminalStatuses are excluded from the active order book.
func TerminalStatuses() []string {
	return []string{OrderStatusDelivered, OrderStatusCancelled}
}
