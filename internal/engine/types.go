// Package engine implements order risk scoring, next-best-action planning and
// priority ranking over the active order book. Everything between the bulk
// store read and the writeback dispatch is pure, in-memory computation.
package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"dealerops/internal/models"
)

const (
	RiskLevelLow    = "LOW"
	RiskLevelMedium = "MEDIUM"
	RiskLevelHigh   = "HIGH"
)

const (
	UrgencyNow      = "NOW"
	UrgencyToday    = "TODAY"
	UrgencyThisWeek = "THIS_WEEK"
)

// Factor names are stable identifiers; descriptions are the user-facing text.
const (
	FactorContactRecency    = "contact_recency"
	FactorFinancingStall    = "financing_stall"
	FactorStageDwell        = "stage_dwell"
	FactorHighValue         = "high_value"
	FactorNegativeSentiment = "negative_sentiment"
)

// RiskFactor is one named, signed contribution to an order's risk score.
// Positive weight increases risk.
type RiskFactor struct {
	Name        string `json:"name"`
	Weight      int    `json:"weight"`
	Description string `json:"description"`
}

// RiskAssessment is the scored view of one order. Level is a pure function of
// Score; Factors is never empty when Score > 0.
type RiskAssessment struct {
	Score   int          `json:"score"`
	Level   string       `json:"level"`
	Factors []RiskFactor `json:"factors"`
}

// NextBestAction is the single recommended follow-up for an order. Exactly one
// exists per order per evaluation; the "no action required" value is the floor.
type NextBestAction struct {
	Action           string  `json:"action"`
	Channel          string  `json:"channel"`
	Urgency          string  `json:"urgency"`
	SuggestedMessage *string `json:"suggested_message,omitempty"`
	ExpectedImpact   string  `json:"expected_impact"`
	Reasoning        string  `json:"reasoning"`
}

// PriorityItem is one ranked entry of a snapshot. It is a derived, disposable
// view, never persisted as its own entity.
type PriorityItem struct {
	ID                     string         `json:"id"`
	OrderID                string         `json:"order_id"`
	Order                  models.Order   `json:"order"`
	Rank                   int            `json:"rank"`
	RiskScore              int            `json:"risk_score"`
	RiskLevel              string         `json:"risk_level"`
	RiskFactors            []RiskFactor   `json:"risk_factors"`
	FulfillmentProbability int            `json:"fulfillment_probability"`
	NextBestAction         NextBestAction `json:"next_best_action"`
	GeneratedAt            time.Time      `json:"generated_at"`
	ExpiresAt              time.Time      `json:"expires_at"`
}

type SnapshotSummary struct {
	HighRisk     int `json:"high_risk"`
	MediumRisk   int `json:"medium_risk"`
	LowRisk      int `json:"low_risk"`
	TotalActions int `json:"total_actions"`
}

type SnapshotStats struct {
	AverageRiskScore              float64         `json:"average_risk_score"`
	AverageFulfillmentProbability float64         `json:"average_fulfillment_probability"`
	TotalOrderValue               decimal.Decimal `json:"total_order_value"`
	AtRiskOrderValue              decimal.Decimal `json:"at_risk_order_value"`
}

// PrioritySnapshot is regenerated from scratch on every request; there is no
// cache. Summary and Stats cover the full active book, while Items may be a
// filtered/limited slice of it.
type PrioritySnapshot struct {
	Date        string          `json:"date"`
	GeneratedAt time.Time       `json:"generated_at"`
	Summary     SnapshotSummary `json:"summary"`
	Stats       SnapshotStats   `json:"stats"`
	Items       []PriorityItem  `json:"items"`
}
