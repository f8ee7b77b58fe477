package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"dealerops/internal/config"
	"dealerops/internal/models"
)

// FactorExtractor derives independent risk signals from an order snapshot.
// Extract is pure and total: missing optional fields are conservative
// defaults, never errors. Emission order is fixed so repeated runs over the
// same inputs produce identical output.
type FactorExtractor struct {
	Config config.EngineConfig
}

func (e *FactorExtractor) Extract(order models.Order, now time.Time) []RiskFactor {
	var factors []RiskFactor

	if f, ok := e.contactRecency(order, now); ok {
		factors = append(factors, f)
	}
	if f, ok := e.financingStall(order, now); ok {
		factors = append(factors, f)
	}
	if f, ok := e.stageDwell(order, now); ok {
		factors = append(factors, f)
	}
	if f, ok := e.highValue(order); ok {
		factors = append(factors, f)
	}
	if f, ok := e.negativeSentiment(order); ok {
		factors = append(factors, f)
	}

	return factors
}

// DaysSilent reports full days since the last customer-facing contact. A
// missing LastContactAt is treated as MissingContactDays of silence, a
// conservative default rather than an error.
func (e *FactorExtractor) DaysSilent(order models.Order, now time.Time) int {
	if order.LastContactAt == nil {
		return e.Config.MissingContactDays
	}
	days := int(now.Sub(*order.LastContactAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func (e *FactorExtractor) contactRecency(order models.Order, now time.Time) (RiskFactor, bool) {
	days := e.DaysSilent(order, now)
	if days <= e.Config.ContactSilenceDays {
		return RiskFactor{}, false
	}
	weight := days * e.Config.ContactWeightPerDay
	if e.Config.ContactWeightCap > 0 && weight > e.Config.ContactWeightCap {
		weight = e.Config.ContactWeightCap
	}
	return RiskFactor{
		Name:        FactorContactRecency,
		Weight:      weight,
		Description: fmt.Sprintf("No customer contact for %d days", days),
	}, true
}

func (e *FactorExtractor) financingStall(order models.Order, now time.Time) (RiskFactor, bool) {
	if order.FinancingStatus != models.FinancingPending {
		return RiskFactor{}, false
	}
	since := order.FinancingAppliedAt
	if since == nil {
		// Application timestamp missing; fall back to the stage change.
		since = &order.StatusChangedAt
	}
	if since.IsZero() {
		return RiskFactor{}, false
	}
	pending := now.Sub(*since)
	if pending <= time.Duration(e.Config.FinancingGraceHours)*time.Hour {
		return RiskFactor{}, false
	}
	days := int(pending.Hours() / 24)
	return RiskFactor{
		Name:        FactorFinancingStall,
		Weight:      e.Config.FinancingStallWeight,
		Description: fmt.Sprintf("Financing pending %d days", days),
	}, true
}

func (e *FactorExtractor) stageDwell(order models.Order, now time.Time) (RiskFactor, bool) {
	sla, ok := e.Config.StageSLADays[order.Status]
	if !ok || sla <= 0 {
		return RiskFactor{}, false
	}
	since := order.StatusChangedAt
	if since.IsZero() {
		since = order.CreatedAt
	}
	if since.IsZero() {
		return RiskFactor{}, false
	}
	days := int(now.Sub(since).Hours() / 24)
	if days <= sla {
		return RiskFactor{}, false
	}
	return RiskFactor{
		Name:        FactorStageDwell,
		Weight:      e.Config.StageDwellWeight,
		Description: fmt.Sprintf("Order stuck in %s for %d days (SLA %d days)", order.Status, days, sla),
	}, true
}

func (e *FactorExtractor) highValue(order models.Order) (RiskFactor, bool) {
	if e.Config.HighValueThreshold <= 0 {
		return RiskFactor{}, false
	}
	threshold := decimal.NewFromFloat(e.Config.HighValueThreshold)
	if order.TotalAmount.LessThan(threshold) {
		return RiskFactor{}, false
	}
	return RiskFactor{
		Name:        FactorHighValue,
		Weight:      e.Config.HighValueWeight,
		Description: fmt.Sprintf("High-value order worth %s", order.TotalAmount.StringFixed(0)),
	}, true
}

func (e *FactorExtractor) negativeSentiment(order models.Order) (RiskFactor, bool) {
	last := latestActivity(order.Activities)
	if last == nil || last.Sentiment == nil || *last.Sentiment != models.SentimentNegative {
		return RiskFactor{}, false
	}
	return RiskFactor{
		Name:        FactorNegativeSentiment,
		Weight:      e.Config.NegativeSentimentWeight,
		Description: fmt.Sprintf("Most recent %s activity carried negative sentiment", last.Type),
	}, true
}

func latestActivity(items []models.Activity) *models.Activity {
	if len(items) == 0 {
		return nil
	}
	latest := &items[0]
	for i := 1; i < len(items); i++ {
		if items[i].PerformedAt.After(latest.PerformedAt) {
			latest = &items[i]
		}
	}
	return latest
}
