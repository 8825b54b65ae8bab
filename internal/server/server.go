package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Aria-Ghojavand/shamsy-calendar/internal/config"
	"github.com/Aria-Ghojavand/shamsy-calendar/internal/holidays"
	"github.com/Aria-Ghojavand/shamsy-calendar/internal/logger"
	"github.com/Aria-Ghojavand/shamsy-calendar/internal/metrics"
	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
	"github.com/Aria-Ghojavand/shamsy-calendar/persian"
)

// Server represents the HTTP conversion service
type Server struct {
	echo      *echo.Echo
	config    *config.Config
	logger    *logger.Logger
	converter *persian.Converter
	holidays  holidays.Source
	metrics   *metrics.Collector
	registry  *prometheus.Registry
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Option func(*Server)

// WithHolidays enables holiday lookups backed by src.
func WithHolidays(src holidays.Source) Option {
	return func(s *Server) { s.holidays = src }
}

// New creates a new server instance
func New(cfg *config.Config, appLogger *logger.Logger, opts ...Option) (*Server, error) {
	rule, err := cfg.Calendar.Rule()
	if err != nil {
		return nil, err
	}
	ref, err := cfg.Calendar.Reference()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = customErrorHandler(appLogger)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	s := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger.WithComponent("server"),
		converter: persian.NewConverter(
			persian.WithCalendar(jalali.New(jalali.WithLeapRule(rule))),
			persian.WithReference(ref),
		),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	if cfg.Metrics.Enabled {
		s.setupMetrics()
	}
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			s.logger.LogHTTPRequest(values.Method, values.URI, values.RemoteIP, values.Status,
				float64(values.Latency.Nanoseconds())/1000000, values.Error)
			return nil
		},
	}))

	window := s.config.Security.RateLimitWindow
	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(float64(s.config.Security.RateLimitRequests) / window.Seconds()),
			Burst:     s.config.Security.RateLimitRequests,
			ExpiresIn: window,
		}),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
	}))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	v1 := s.echo.Group("/api/v1")
	v1.GET("/jalali", s.toJalali)
	v1.GET("/gregorian", s.toGregorian)
	v1.GET("/leap/:year", s.leapYear)
	if s.holidays != nil {
		v1.GET("/holidays/:year", s.listHolidays)
	}
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	s.registry = prometheus.NewRegistry()
	s.metrics = metrics.NewCollector(s.registry)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			s.metrics.RecordHTTPRequest(c.Request().Method, c.Path(), c.Response().Status, time.Since(start))
			return nil
		}
	})

	metricsHandler := promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// Handler exposes the routes, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server
func (s *Server) Start(address string) error {
	s.logger.Infow("Starting server", "address", address)
	if err := s.echo.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		var he *echo.HTTPError
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &he):
			code = he.Code
			msg = he.Message
			if _, ok := msg.(string); ok {
				msg = map[string]interface{}{"message": he.Message}
			}
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		case errors.As(err, &ve):
			code = http.StatusBadRequest
			msg = map[string]string{"error": "validation_failed", "message": ve.Error()}
		default:
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
