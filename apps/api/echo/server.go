package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/interview"
	"github.com/skillbridge/portal/core/lead"
	"github.com/skillbridge/portal/core/program"
	"github.com/skillbridge/portal/core/user"
	metricsvc "github.com/skillbridge/portal/services/metrics"
)

type (
	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		Metrics      *metricsvc.Collector
		PipelineSvc  lead.ServiceInterface
		TeamSvc      user.ServiceInterface
		InterviewSvc interview.ServiceInterface
		ProgramSvc   program.ServiceInterface
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server struct {
		conf     *core.Config
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		conf:     deps.Conf,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup(deps)
	return s
}

func (s *Server) setup(deps ServerDeps) {
	conf := deps.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.Logger.SetLevel(log.INFO)
	if conf.Debug {
		s.app.Logger.SetLevel(log.DEBUG)
	}

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: newRequestID}))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: conf.Server.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if deps.Metrics != nil {
		s.app.Use(deps.Metrics.Middleware())
		s.app.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, deps.Translator, deps.Metrics, s.signalShutdown)

	s.app.GET("/", home)
	s.app.GET("/healthz", healthz)

	v1 := s.app.Group("/v1")
	jwtConf := newJWTConfig(conf.SecretKey)
	jwt := middleware.JWTWithConfig(jwtConf)
	jwtOptional := middleware.JWTWithConfig(optional(jwtConf))

	registerSessionAPI(v1, jwt, jwtOptional)
	registerPipelineAPI(v1, jwt, deps.PipelineSvc, deps.Validate)
	registerTeamAPI(v1, jwt, deps.TeamSvc)
	registerInterviewAPI(v1, jwt, deps.InterviewSvc)
	registerProgramAPI(v1, jwt, deps.ProgramSvc)
}

func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors receives the error that stopped the server.
func (s *Server) Errors() <-chan error { return s.errors }

// ShutdownSignal receives OS interrupts and shutdowns requested by the error handler.
func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // a shutdown is already pending
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to SkillBridge API!")
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
