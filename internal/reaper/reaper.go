// Package reaper schedules the periodic stale-node sweep: a maintenance
// feature absent from the minimal spec but a natural complement to §4.4
// retirement. Each sweep force-retires every node whose outbound client
// has its circuit breaker open at that moment, even without an explicit
// unregister, freeing catalog entries left behind by processes that
// crashed without unregistering. How long a breaker has been open is not
// tracked; there is no age threshold.
//
// Grounded on github.com/robfig/cron/v3, per SPEC_FULL's domain-stack
// table; the teacher does not schedule anything with cron itself but the
// rest of the retrieval pack (other service schedulers) establishes cron/v3
// as this corpus's scheduling library of choice.
package reaper

import (
	"github.com/nmxmxh/rosmaster/internal/catalog"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reaper periodically asks the catalog to force-retire nodes whose
// outbound client's circuit breaker is open when the sweep runs.
type Reaper struct {
	cron *cron.Cron
	cat  *catalog.Manager
	log  *zap.Logger
}

// New builds a Reaper that runs the sweep on schedule (a standard 5-field
// cron expression, e.g. "*/30 * * * *" for every 30 minutes — callers
// typically use a short interval like "@every 1m" instead; robfig/cron/v3
// accepts both forms).
func New(schedule string, cat *catalog.Manager, log *zap.Logger) (*Reaper, error) {
	c := cron.New()
	r := &Reaper{cron: c, cat: cat, log: log}
	if _, err := c.AddFunc(schedule, r.sweep); err != nil {
		return nil, err
	}
	return r, nil
}

// Start begins the cron schedule.
func (r *Reaper) Start() { r.cron.Start() }

// Stop cancels the schedule and waits for any running sweep to finish.
func (r *Reaper) Stop() { <-r.cron.Stop().Done() }

func (r *Reaper) sweep() {
	n := r.cat.ReapStaleNodes()
	if n > 0 {
		r.log.Info("reaped stale nodes", zap.Int("count", n))
	}
}
