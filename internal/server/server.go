// Package server provides the HTTP server and Echo setup for the API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/cobranzahq/cobranza/internal/auth"
	"github.com/cobranzahq/cobranza/internal/handlers"
	"github.com/cobranzahq/cobranza/internal/httperr"
)

// Server is the HTTP server (Echo) with the session pipeline and registered
// handlers.
type Server struct {
	echo   *echo.Echo
	addr   string
	logger *slog.Logger
}

// Handler registers routes on the Echo instance.
type Handler interface {
	Register(e *echo.Echo)
}

// NewServer builds the Echo server: recovery, request ids, request logging,
// the session middleware (with the public-path skipper), and the given
// handlers. Tenant resolution is mounted per route group by the handlers
// themselves, so the session stage always runs first.
func NewServer(log *slog.Logger, addr string, verifier auth.Verifier,
	handlers ...Handler,
) *Server {
	if addr == "" {
		addr = ":8080"
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = errorHandler(log)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
				slog.String("remote_ip", c.RealIP()),
			)
			return nil
		},
	}))
	e.Use(auth.SessionMiddleware(verifier, func(c echo.Context) bool {
		path := c.Request().URL.Path
		return path == "/ping" || path == "/health"
	}))

	for _, h := range handlers {
		if h != nil {
			h.Register(e)
		}
	}

	return &Server{
		echo:   e,
		addr:   addr,
		logger: log.With(slog.String("component", "server")),
	}
}

// Echo exposes the underlying Echo instance (used by tests).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server (blocks until shutdown).
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Stop gracefully shuts down the server using the given context.
func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// errorHandler normalizes every error to the {"error":{...}} envelope.
// Internal errors are logged with the request id and surfaced as a generic
// 500 with no detail.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var apiErr *httperr.Error
		if !errors.As(err, &apiErr) {
			var httpErr *echo.HTTPError
			if errors.As(err, &httpErr) {
				apiErr = &httperr.Error{
					Status:  httpErr.Code,
					Code:    codeForStatus(httpErr.Code),
					Message: fmt.Sprint(httpErr.Message),
				}
			} else {
				apiErr = httperr.Internal()
			}
		}

		if apiErr.Status >= http.StatusInternalServerError {
			log.Error("request failed",
				slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				slog.String("uri", c.Request().RequestURI),
				slog.Any("error", err),
			)
			apiErr = httperr.Internal()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, handlers.ErrorResponse{Error: *apiErr})
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return httperr.CodeUnauthorized
	case http.StatusForbidden:
		return httperr.CodeForbidden
	case http.StatusNotFound:
		return httperr.CodeNotFound
	case http.StatusBadRequest:
		return httperr.CodeValidation
	}
	return httperr.CodeInternal
}
