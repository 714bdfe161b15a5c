package docengine

import (
	"context"
	"time"

	"pdf-assistant/internal/domain/model"
	"pdf-assistant/internal/domain/ports/adapter"
	"pdf-assistant/internal/infra/metrics"
	"pdf-assistant/internal/infra/worker"
)

var _ adapter.DocumentEngine = (*Pooled)(nil)

// Pooled runs dispatches on the worker pool. The caller still blocks
// until its one dispatch finishes; the pool only bounds how many
// transformations run at once across requests.
type Pooled struct {
	inner adapter.DocumentEngine
	pool  *worker.Pool
}

func NewPooled(inner adapter.DocumentEngine, pool *worker.Pool) *Pooled {
	return &Pooled{inner: inner, pool: pool}
}

func (p *Pooled) Apply(ctx context.Context, op model.Operation, inputs []model.FileRecord, params map[string]any, sessionID string) (*model.FileRecord, error) {
	type outcome struct {
		file *model.FileRecord
		err  error
	}
	ch := make(chan outcome, 1)
	start := time.Now()

	task := func(taskCtx context.Context) error {
		file, err := p.inner.Apply(ctx, op, inputs, params, sessionID)
		ch <- outcome{file: file, err: err}
		// The error travels back on the channel; the pool should not
		// double-report it.
		return nil
	}
	if err := p.pool.Submit(task); err != nil {
		// Saturated pool: run inline rather than failing the request.
		file, applyErr := p.inner.Apply(ctx, op, inputs, params, sessionID)
		metrics.ObserveDispatch(string(op), applyErr == nil, time.Since(start))
		return file, applyErr
	}

	select {
	case out := <-ch:
		metrics.ObserveDispatch(string(op), out.err == nil, time.Since(start))
		if out.err == nil && out.file != nil {
			metrics.IncFileDerived(string(op))
		}
		return out.file, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
