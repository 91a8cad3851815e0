package task

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/adpilot/internal/constants"
	"github.com/mrz1836/adpilot/internal/domain"
)

// RunBatch executes independent tasks with at most workers running at once.
// Each task still runs its own steps sequentially. Every task is attempted;
// the returned error joins the errors of the tasks that could not run or
// were cancelled. Task-level failures live on the tasks themselves.
func (e *Engine) RunBatch(ctx context.Context, tasks []*domain.Task, workers int, cb ProgressCallback) error {
	if workers <= 0 {
		workers = constants.DefaultBatchWorkers
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, t := range tasks {
		g.Go(func() error {
			if _, err := e.ExecuteTask(ctx, t, cb); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("task %s: %w", taskIDOf(t), err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func taskIDOf(t *domain.Task) string {
	if t == nil {
		return "<nil>"
	}
	return t.ID
}
