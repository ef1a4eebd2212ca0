package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof on the default mux
	"time"

	echoapi "github.com/alfurqan/portal/apps/api/echo"
	"github.com/alfurqan/portal/apps/container"
	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/registration"
	emailsvc "github.com/alfurqan/portal/services/email"
	"github.com/alfurqan/portal/services/jobs"
	logsvc "github.com/alfurqan/portal/services/logger"
	"github.com/alfurqan/portal/services/metrics"
	"github.com/alfurqan/portal/services/uploads"
)

const jobTimeout = time.Minute

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	zl, err := logsvc.NewZap(conf.LogLevel, conf.Debug)
	if err != nil {
		log.Fatalf("setting up zap: %v", err)
	}
	logger := logsvc.NewRollbarLogger(zl.Named("api"), conf)
	logger.Enable(!conf.Debug)
	defer logger.Sync()

	dbLogger := logsvc.NewRollbarLogger(zl.Named("db"), conf)
	dbLogger.Enable(!conf.Debug)

	// set up DB
	st, err := container.OpenStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = st.Close(); err != nil {
			dbLogger.Error("Failed to close", err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if conf.Debug || conf.SendgridApiKey == "" {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	files, err := uploads.New(conf.Uploads.Dir, conf.Uploads.MaxBytes)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up uploads: %v", err), err)
	}
	notifier := registration.NewNotifier(mailSvc, conf.MailTimeout, logger)
	svcs := container.NewServices(conf, st, files, notifier, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate, translator := container.NewValidator()

	core.ParseEmailTemplates(conf, logger)

	if conf.Database.Engine == container.EngineMemory {
		if err = container.Seed(context.Background(), svcs); err != nil {
			logger.Fatal(fmt.Sprintf("seeding memory database: %v", err), err)
		}
	}

	// =========================================================================
	// Start Background Jobs

	runner := jobs.New(logger, jobTimeout)
	if err = runner.Schedule(conf.Session.SweepSchedule, jobs.SessionSweeperName, jobs.SweepSessions(svcs.Auth, logger)); err != nil {
		logger.Fatal(fmt.Sprintf("scheduling jobs: %v", err), err)
	}
	runner.Start()
	defer runner.Stop()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.
	// /metrics - Prometheus collectors.
	// /healthz - Storage reachability.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)

	http.Handle("/metrics", metrics.Handler())
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := st.Ping(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(echoapi.ServerDeps{
		Conf:            conf,
		Logger:          logger,
		Validate:        validate,
		Translator:      translator,
		Files:           files,
		AuthSvc:         svcs.Auth,
		UserSvc:         svcs.User,
		RegistrationSvc: svcs.Registration,
		NoticeSvc:       svcs.Notice,
		AcademicSvc:     svcs.Academic,
		PayrollSvc:      svcs.Payroll,
		FeeSvc:          svcs.Fee,
		ShowcaseSvc:     svcs.Showcase,
		SettingSvc:      svcs.Setting,
	})

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Error(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
