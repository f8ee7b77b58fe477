package service

import (
	"context"

	"go.uber.org/zap"

	"dealerops/internal/engine"
)

// ScoreRefreshService reruns the ranker over the whole active book on a
// schedule so the persisted triage fields stay warm for dashboards even when
// nobody requests a snapshot. It reuses the same writeback path as the
// request-driven flow.
type ScoreRefreshService struct {
	Ranker *engine.Ranker
	Logger *zap.Logger
}

func (s *ScoreRefreshService) RunOnce(ctx context.Context) error {
	if s == nil || s.Ranker == nil {
		return nil
	}
	snapshot, err := s.Ranker.Generate(ctx, engine.SnapshotParams{})
	if err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("score refresh complete",
			zap.Int("orders", snapshot.Summary.HighRisk+snapshot.Summary.MediumRisk+snapshot.Summary.LowRisk),
			zap.Int("high_risk", snapshot.Summary.HighRisk),
			zap.Float64("avg_score", snapshot.Stats.AverageRiskScore),
		)
	}
	return nil
}
