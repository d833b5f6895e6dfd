package executor

import (
	"context"
	"time"

	"github.com/roach88/qcal/internal/job"
	"github.com/roach88/qcal/internal/metrics"
)

// Instrumented records dispatch count, latency and failures for inner.
type Instrumented struct {
	Name    string
	Inner   job.Executor
	Metrics *metrics.Metrics
}

// Execute implements job.Executor.
func (e *Instrumented) Execute(ctx context.Context, t *job.Table) error {
	start := time.Now()
	err := e.Inner.Execute(ctx, t)
	e.Metrics.ObserveDispatch(e.Name, t.Len(), time.Since(start), err)
	return err
}
