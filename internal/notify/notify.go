// Package notify is the asynchronous outbound-notification dispatcher that
// backs §4.4's "schedule subscriber update" / "deliver param update" /
// "asynchronously shut down" operations and §5's rule that outbound node
// calls never block the event loop that triggered them.
//
// Grounded on the teacher's pkg/utils.WorkerPool (a Task-channel worker
// pool with Prometheus gauges already wired); this package only adds the
// per-task UUIDv7 correlation id used in logs and spans, matching the
// "task id in traces/logs, not part of the wire protocol" role assigned to
// google/uuid in SPEC_FULL's domain-stack table.
package notify

import (
	"context"

	"github.com/google/uuid"
	"github.com/nmxmxh/rosmaster/pkg/utils"
	"go.uber.org/zap"
)

// Dispatcher runs fire-and-forget outbound notification tasks on a bounded
// worker pool. Failures are logged and swallowed per §7: the catalog never
// learns whether a notification succeeded.
type Dispatcher struct {
	pool *utils.WorkerPool
	log  *zap.Logger
}

// New builds a Dispatcher with workers worker goroutines.
func New(workers int, log *zap.Logger) *Dispatcher {
	return &Dispatcher{pool: utils.NewWorkerPool(workers), log: log}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() { d.pool.Start() }

// Stop cancels the pool's context and waits for every worker to exit: a
// running task sees its context cancelled, and queued tasks that no worker
// has picked up may be dropped. Corresponds to RegistrationManager.close()
// cancelling and awaiting outstanding notification tasks on master
// shutdown (§5).
func (d *Dispatcher) Stop() { d.pool.Stop() }

// task adapts a plain closure to utils.Task, tagging it with a UUIDv7 used
// only for log/span correlation.
type task struct {
	id   string
	name string
	fn   func(ctx context.Context) error
	log  *zap.Logger
}

func (t *task) Process(ctx context.Context) error {
	if err := t.fn(ctx); err != nil {
		t.log.Warn("notification task failed",
			zap.String("task_id", t.id),
			zap.String("task", t.name),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Schedule enqueues fn to run asynchronously on the worker pool. name is a
// short label (e.g. "publisherUpdate:/turtle1/cmd_vel") used in logs. The
// caller must not rely on fn's side effects being visible synchronously;
// Schedule returns as soon as the task is enqueued. If the pool refuses the
// task, the error is logged and the task is dropped; nothing is returned.
func (d *Dispatcher) Schedule(name string, fn func(ctx context.Context) error) {
	id, err := uuid.NewV7()
	idStr := ""
	if err == nil {
		idStr = id.String()
	}
	t := &task{id: idStr, name: name, fn: fn, log: d.log}
	if err := d.pool.Submit(t); err != nil {
		d.log.Warn("failed to schedule notification task",
			zap.String("task", name),
			zap.Error(err),
		)
	}
}
