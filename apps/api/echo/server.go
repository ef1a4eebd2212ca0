package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/alfurqan/portal/core"
	"github.com/alfurqan/portal/core/academic"
	"github.com/alfurqan/portal/core/auth"
	"github.com/alfurqan/portal/core/fee"
	"github.com/alfurqan/portal/core/notice"
	"github.com/alfurqan/portal/core/payroll"
	"github.com/alfurqan/portal/core/registration"
	"github.com/alfurqan/portal/core/setting"
	"github.com/alfurqan/portal/core/showcase"
	"github.com/alfurqan/portal/core/user"
)

type (
	// FileServer stores uploads and resolves stored names back to disk paths.
	FileServer interface {
		core.FileStore
		Path(name string) (string, error)
	}

	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Validate   *validator.Validate
		Translator ut.Translator
		Files      FileServer

		AuthSvc         *auth.Service
		UserSvc         *user.Service
		RegistrationSvc *registration.Service
		NoticeSvc       *notice.Service
		AcademicSvc     *academic.Service
		PayrollSvc      *payroll.Service
		FeeSvc          *fee.Service
		ShowcaseSvc     *showcase.Service
		SettingSvc      *setting.Service

		DisableReqLogs bool
	}

	Server struct {
		ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		ServerDeps: deps,
		app:        echo.New(),
		errors:     make(chan error, 1),
		shutdown:   make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	debug := s.Conf.Debug

	s.app.HideBanner = true
	s.app.Server.ReadTimeout = s.Conf.Server.ReadTimeout
	s.app.Server.WriteTimeout = s.Conf.Server.WriteTimeout

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(debug || s.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(metricsMiddleware)
	s.app.Use(middleware.BodyLimit(bodyLimit(s.Conf.Uploads.MaxBytes)))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.Logger, s.Translator, s.Conf.Session.CookieName)
	s.app.Debug = debug

	s.app.GET("/", s.home)

	sessions := newSessionManager(s.Conf, s.AuthSvc)
	g := guard{jwt: sessions.jwtMiddleware(), session: sessions.sessionMiddleware}
	api := s.app.Group("/api")

	registerAuthAPI(api, g, sessions, s.AuthSvc, s.Validate, newLoginRateLimiter(s.Conf.Auth.LoginRateLimit, s.Conf.Auth.LoginRateWindow))
	registerNavigationAPI(api, g)
	registerUserAPI(api, g, s.UserSvc, s.Files, s.Validate, s.Logger)
	registerRegistrationAPI(api, g, sessions, s.RegistrationSvc, s.Validate)
	registerNoticeAPI(api, g, s.NoticeSvc, s.Validate)
	registerAcademicAPI(api, g, s.AcademicSvc, s.UserSvc, s.Validate)
	registerPayrollAPI(api, g, s.PayrollSvc, s.UserSvc, s.Validate)
	registerFeeAPI(api, g, s.FeeSvc, s.Validate)
	registerShowcaseAPI(api, g, s.ShowcaseSvc, s.Validate)
	registerSettingAPI(api, g, s.SettingSvc, s.Validate)
	registerUploadsAPI(s.app, g, s.Files)
}

// bodyLimit leaves room for the multipart envelope around the largest accepted upload.
func bodyLimit(maxUpload int64) string {
	return strconv.FormatInt((maxUpload>>20)+2, 10) + "M"
}

// Start listens on the configured address; the outcome is reported on Errors.
func (s *Server) Start() {
	if err := s.app.Start(s.Conf.Server.Address()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }

func (s *Server) Close() error { return s.app.Close() }

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the "+s.Conf.AppName+" API!")
}
