package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"dealerops/internal/config"
	"dealerops/internal/models"
	"dealerops/internal/repository"
)

// ScoreSink receives computed scores for best-effort persistence. Satisfied
// by *Writeback.
type ScoreSink interface {
	Enqueue(orderID string, update repository.ScoreUpdate) bool
}

// Ranker generates priority snapshots: it scores every active order, sorts
// and ranks the full set, and dispatches score writebacks while the caller
// gets the assembled snapshot without waiting on persistence.
type Ranker struct {
	Repo      repository.Repository
	Config    config.EngineConfig
	Logger    *zap.Logger
	Writeback ScoreSink

	// Now is factored for deterministic tests; nil means wall clock.
	Now func() time.Time

	Extractor *FactorExtractor
	Planner   *Planner
}

type SnapshotParams struct {
	SalespersonID *string
	RiskLevel     *string
	Limit         int
}

func NewRanker(repo repository.Repository, cfg config.EngineConfig, logger *zap.Logger, sink ScoreSink) *Ranker {
	return &Ranker{
		Repo:      repo,
		Config:    cfg,
		Logger:    logger,
		Writeback: sink,
		Extractor: &FactorExtractor{Config: cfg},
		Planner:   NewPlanner(),
	}
}

// Generate builds a fresh snapshot of the active order book. A store read
// failure aborts the whole generation; a single unusable order is skipped
// with a log line instead of failing the batch.
func (r *Ranker) Generate(ctx context.Context, params SnapshotParams) (*PrioritySnapshot, error) {
	if r == nil || r.Repo == nil {
		return nil, fmt.Errorf("ranker: repository not configured")
	}
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	orders, err := r.Repo.ListActiveOrders(ctx, repository.ListActiveOrdersParams{
		SalespersonID: params.SalespersonID,
	})
	if err != nil {
		return nil, fmt.Errorf("list active orders: %w", err)
	}

	items := r.scoreAll(orders, now)

	sortItems(items, r.Config.TieBreak, r.Extractor, now)
	for i := range items {
		items[i].Rank = i + 1
	}

	summary, stats := aggregate(items)

	// Dispatch writeback for the full enriched set, never the filtered slice.
	if r.Writeback != nil {
		for _, item := range items {
			r.Writeback.Enqueue(item.OrderID, repository.ScoreUpdate{
				RiskScore:              item.RiskScore,
				RiskLevel:              item.RiskLevel,
				FulfillmentProbability: item.FulfillmentProbability,
				ScoredAt:               now.UTC(),
			})
		}
	}

	return &PrioritySnapshot{
		Date:        now.Format("2006-01-02"),
		GeneratedAt: now,
		Summary:     summary,
		Stats:       stats,
		Items:       trim(items, params.RiskLevel, params.Limit),
	}, nil
}

// scoreAll runs the per-order pipeline concurrently. Each order's computation
// reads only its own snapshot, so orders fan out across a bounded worker set.
func (r *Ranker) scoreAll(orders []models.Order, now time.Time) []PriorityItem {
	results := make([]*PriorityItem, len(orders))

	workers := r.Config.Workers
	if workers <= 0 {
		workers = 8
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range orders {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			item, err := r.scoreOne(orders[idx], now)
			if err != nil {
				if r.Logger != nil {
					r.Logger.Warn("skipping unusable order in snapshot",
						zap.String("order_id", orders[idx].ID),
						zap.Error(err),
					)
				}
				return
			}
			results[idx] = item
		}(i)
	}
	wg.Wait()

	items := make([]PriorityItem, 0, len(orders))
	for _, item := range results {
		if item != nil {
			items = append(items, *item)
		}
	}
	return items
}

func (r *Ranker) scoreOne(order models.Order, now time.Time) (item *PriorityItem, err error) {
	// The pipeline stages are total functions, but a defect in one of them
	// must cost one order, not the whole snapshot.
	defer func() {
		if rec := recover(); rec != nil {
			item = nil
			err = fmt.Errorf("scoring panicked: %v", rec)
		}
	}()

	if order.ID == "" {
		return nil, fmt.Errorf("order has no id")
	}

	factors := r.Extractor.Extract(order, now)
	assessment := Score(factors)
	probability := FulfillmentProbability(assessment.Score)
	action := r.Planner.Plan(order, assessment)

	enriched := order
	enriched.RiskScore = assessment.Score
	enriched.RiskLevel = assessment.Level
	enriched.FulfillmentProbability = probability

	return &PriorityItem{
		ID:                     "pri_" + uuid.NewString(),
		OrderID:                order.ID,
		Order:                  enriched,
		RiskScore:              assessment.Score,
		RiskLevel:              assessment.Level,
		RiskFactors:            assessment.Factors,
		FulfillmentProbability: probability,
		NextBestAction:         action,
		GeneratedAt:            now,
		ExpiresAt:              endOfDay(now),
	}, nil
}

// sortItems orders the full enriched set descending by risk score. Ties break
// by total amount descending (protect higher-value deals first) unless the
// configured tie-break is "contact_silence", which prefers the longest
// silence. Final fallback is order ID so the sort is fully deterministic.
func sortItems(items []PriorityItem, tieBreak string, ex *FactorExtractor, now time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.RiskScore != b.RiskScore {
			return a.RiskScore > b.RiskScore
		}
		if tieBreak == "contact_silence" {
			sa := ex.DaysSilent(a.Order, now)
			sb := ex.DaysSilent(b.Order, now)
			if sa != sb {
				return sa > sb
			}
		} else if cmp := a.Order.TotalAmount.Cmp(b.Order.TotalAmount); cmp != 0 {
			return cmp > 0
		}
		return a.OrderID < b.OrderID
	})
}

func aggregate(items []PriorityItem) (SnapshotSummary, SnapshotStats) {
	summary := SnapshotSummary{}
	stats := SnapshotStats{
		TotalOrderValue:  decimal.Zero,
		AtRiskOrderValue: decimal.Zero,
	}
	if len(items) == 0 {
		return summary, stats
	}

	scoreSum := 0
	probSum := 0
	for _, item := range items {
		switch item.RiskLevel {
		case RiskLevelHigh:
			summary.HighRisk++
			stats.AtRiskOrderValue = stats.AtRiskOrderValue.Add(item.Order.TotalAmount)
		case RiskLevelMedium:
			summary.MediumRisk++
		default:
			summary.LowRisk++
		}
		if item.NextBestAction.Action != "No action required" {
			summary.TotalActions++
		}
		scoreSum += item.RiskScore
		probSum += item.FulfillmentProbability
		stats.TotalOrderValue = stats.TotalOrderValue.Add(item.Order.TotalAmount)
	}
	n := float64(len(items))
	stats.AverageRiskScore = float64(scoreSum) / n
	stats.AverageFulfillmentProbability = float64(probSum) / n
	return summary, stats
}

// trim applies the risk-level filter, then the limit, to the ranked set.
// Ranks were assigned over the full book and are never renumbered here.
func trim(items []PriorityItem, riskLevel *string, limit int) []PriorityItem {
	out := items
	if riskLevel != nil && *riskLevel != "" {
		filtered := make([]PriorityItem, 0, len(out))
		for _, item := range out {
			if item.RiskLevel == *riskLevel {
				filtered = append(filtered, item)
			}
		}
		out = filtered
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// endOfDay returns 23:59:59.999 of the calendar day containing t, in t's
// location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
