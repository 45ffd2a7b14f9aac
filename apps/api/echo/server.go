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

	"github.com/Mohan-b-dev/std-dash/apps/views"
	"github.com/Mohan-b-dev/std-dash/core"
	"github.com/Mohan-b-dev/std-dash/core/session"
	"github.com/Mohan-b-dev/std-dash/core/student"
)

// Server is the HTTP face of the views.
type Server struct {
	conf     *core.Config
	app      *echo.Echo
	logger   core.Logger
	errors   chan error
	shutdown chan os.Signal
}

// Deps are the collaborators of the HTTP adapter.
type Deps struct {
	Conf       *core.Config
	Logger     core.Logger
	Sessions   *session.Service
	Records    student.Repository
	Insights   student.InsightSource
	Validate   *validator.Validate
	Translator ut.Translator
}

func NewServer(deps Deps) *Server {
	s := &Server{
		conf:     deps.Conf,
		app:      echo.New(),
		logger:   deps.Logger,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	s.app.HideBanner = true
	s.app.Debug = deps.Conf.Debug
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !deps.Conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(deps.Conf.Debug || deps.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, deps.Translator, s.signalShutdown)

	registerViewsAPI(s.app, deps.Sessions, views.Deps{
		Conf:       deps.Conf,
		Records:    deps.Records,
		Insights:   deps.Insights,
		Logger:     deps.Logger,
		Validate:   deps.Validate,
		Translator: deps.Translator,
	})
	return s
}

// Start blocks serving requests; a failure is reported on Errors.
func (s *Server) Start() {
	s.logger.Info("API listening on " + s.conf.Server.Address)
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}
