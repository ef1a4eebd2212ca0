package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfurqan/portal/core"
	logsvc "github.com/alfurqan/portal/services/logger"
)

type sweeperFunc func(ctx context.Context) (int, error)

func (f sweeperFunc) SweepExpired(ctx context.Context) (int, error) { return f(ctx) }

func TestRunnerRunCountsErrors(t *testing.T) {
	r := New(logsvc.NewTestLogger(core.NewTestConfig()), 0)
	defer r.Stop()

	before := testutil.ToFloat64(jobErrors.WithLabelValues("failing"))
	r.run("failing", func(context.Context) error { return errors.New("boom") })
	assert.Equal(t, before+1, testutil.ToFloat64(jobErrors.WithLabelValues("failing")))

	runs := testutil.ToFloat64(jobRuns.WithLabelValues("ok"))
	r.run("ok", func(context.Context) error { return nil })
	assert.Equal(t, runs+1, testutil.ToFloat64(jobRuns.WithLabelValues("ok")))
}

func TestSchedule(t *testing.T) {
	r := New(logsvc.NewTestLogger(core.NewTestConfig()), 0)
	defer r.Stop()

	require.NoError(t, r.Schedule("@every 1m", "noop", func(context.Context) error { return nil }))
	assert.Error(t, r.Schedule("not a spec", "bad", func(context.Context) error { return nil }))
}

func TestSweepSessions(t *testing.T) {
	log := logsvc.NewTestLogger(core.NewTestConfig())

	calls := 0
	job := SweepSessions(sweeperFunc(func(context.Context) (int, error) {
		calls++
		return 3, nil
	}), log)
	require.NoError(t, job(context.Background()))
	assert.Equal(t, 1, calls)

	failing := SweepSessions(sweeperFunc(func(context.Context) (int, error) {
		return 0, errors.New("db down")
	}), log)
	assert.Error(t, failing(context.Background()))
}
