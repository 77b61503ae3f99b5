package reaper

import (
	"testing"
	"time"

	"github.com/nmxmxh/rosmaster/internal/catalog"
	"github.com/nmxmxh/rosmaster/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewRejectsInvalidSchedule(t *testing.T) {
	log := zap.NewNop()
	d := notify.New(1, log)
	d.Start()
	defer d.Stop()
	cat := catalog.New(d, log)

	_, err := New("not a cron schedule", cat, log)
	assert.Error(t, err)
}

func TestSweepRunsOnSchedule(t *testing.T) {
	log := zap.NewNop()
	d := notify.New(1, log)
	d.Start()
	defer d.Stop()
	cat := catalog.New(d, log)

	deadAddr := "http://127.0.0.1:1"
	cat.RegisterSubscriber("S", "/t", "int32", deadAddr)
	for i := 0; i < 6; i++ {
		cat.RegisterPublisher("P", "/t", "int32", deadAddr)
		cat.UnregisterPublisher("P", "/t", deadAddr)
	}

	r, err := New("@every 1s", cat, log)
	require.NoError(t, err)
	r.Start()
	defer r.Stop()

	deadline := time.Now().Add(4 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := cat.GetCallerAPI("S"); err != nil {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("scheduled sweep did not reap the stale subscriber in time")
}
