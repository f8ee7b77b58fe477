package engine

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"dealerops/internal/repository"
)

// Writeback persists computed scores back into order records, best-effort.
// Updates are dispatched to a buffered queue and applied by background
// workers running on the service base context, so a caller disconnecting
// mid-request never cancels an in-flight score update. Failures are logged
// and dropped: a future generation recomputes and overwrites, and the live
// computation is always authoritative.
type Writeback struct {
	Repo   repository.Repository
	Logger *zap.Logger

	queue chan scoreTask
}

type scoreTask struct {
	OrderID string
	Update  repository.ScoreUpdate
}

func NewWriteback(repo repository.Repository, logger *zap.Logger, queueSize int) *Writeback {
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Writeback{
		Repo:   repo,
		Logger: logger,
		queue:  make(chan scoreTask, queueSize),
	}
}

// Run consumes the queue with the given number of workers until ctx is done.
func (w *Writeback) Run(ctx context.Context, workers int) error {
	if w == nil || w.Repo == nil {
		return nil
	}
	if workers <= 0 {
		workers = 4
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case task := <-w.queue:
					w.apply(ctx, task)
				}
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}

// Enqueue is non-blocking. When the queue is full the update is dropped with
// a log line; the next scoring pass will write a fresh value anyway.
func (w *Writeback) Enqueue(orderID string, update repository.ScoreUpdate) bool {
	if w == nil || w.queue == nil || orderID == "" {
		return false
	}
	select {
	case w.queue <- scoreTask{OrderID: orderID, Update: update}:
		return true
	default:
		if w.Logger != nil {
			w.Logger.Warn("score writeback queue full, dropping update",
				zap.String("order_id", orderID),
				zap.Int("risk_score", update.RiskScore),
			)
		}
		return false
	}
}

// Pending reports queued updates not yet applied. Test hook.
func (w *Writeback) Pending() int {
	if w == nil || w.queue == nil {
		return 0
	}
	return len(w.queue)
}

func (w *Writeback) apply(ctx context.Context, task scoreTask) {
	updateCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := w.Repo.UpdateOrderScores(updateCtx, task.OrderID, task.Update); err != nil {
		if w.Logger != nil {
			w.Logger.Warn("score writeback failed",
				zap.String("order_id", task.OrderID),
				zap.Error(err),
			)
		}
	}
}
