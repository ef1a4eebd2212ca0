// Package jobs runs the portal's periodic housekeeping on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/alfurqan/portal/core"
)

type Job func(ctx context.Context) error

type Runner struct {
	ctx     context.Context
	cancel  context.CancelFunc
	cron    *cron.Cron
	logger  core.Logger
	timeout time.Duration
}

// New returns a Runner whose jobs are cancelled once Stop is called.
// Each run is bounded by timeout; zero means no bound.
func New(logger core.Logger, timeout time.Duration) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	cl := cronLogger{logger}
	return &Runner{
		ctx:     ctx,
		cancel:  cancel,
		cron:    cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)), cron.WithLogger(cl)),
		logger:  logger,
		timeout: timeout,
	}
}

// Schedule registers fn under name. spec accepts the standard 5-field syntax and descriptors like "@every 15m".
func (r *Runner) Schedule(spec, name string, fn Job) error {
	_, err := r.cron.AddFunc(spec, func() { r.run(name, fn) })
	return errors.Wrapf(err, "scheduling %s", name)
}

func (r *Runner) run(name string, fn Job) {
	ctx := r.ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	jobRuns.WithLabelValues(name).Inc()
	err := fn(ctx)
	jobDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		jobErrors.WithLabelValues(name).Inc()
		r.logger.Error("job "+name+" failed", err)
	}
}

func (r *Runner) Start() { r.cron.Start() }

// Stop cancels running jobs and waits for them to return.
func (r *Runner) Stop() {
	r.cancel()
	<-r.cron.Stop().Done()
}

// cronLogger adapts core.Logger to cron.Logger.
type cronLogger struct {
	logger core.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, kvExtras(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, err, kvExtras(keysAndValues))
}

func kvExtras(kv []interface{}) map[string]interface{} {
	extras := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			extras[k] = kv[i+1]
		}
	}
	return extras
}
