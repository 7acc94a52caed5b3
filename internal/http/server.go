// Package httpapp serves the JSON API over the scan index and report archive.
package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/hipaaguard/hipaaguard/internal/http/handlers"
)

const readHeaderTimeout = 10 * time.Second

// EchoServer is the HTTP server wrapper.
type EchoServer struct {
	h   *handlers.Handlers
	e   *echo.Echo
	srv *http.Server
}

// NewEchoServer creates a new HTTP server.
func NewEchoServer(h *handlers.Handlers, logger *slog.Logger) *EchoServer {
	e := echo.New()
	if logger != nil {
		e.Logger = logger
	}

	es := &EchoServer{h: h, e: e}
	e.HTTPErrorHandler = es.httpErrorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c *echo.Context, id string) {
			c.Set(handlers.ContextKeyRequestID, id)
		},
	}))

	es.registerRoutes()
	return es
}

func (es *EchoServer) registerRoutes() {
	es.e.GET("/healthz", es.h.HandleHealthz)

	api := es.e.Group("/api")
	api.POST("/scans", es.h.HandleCreateScan)
	api.GET("/scans", es.h.HandleListScans)
	api.GET("/scans/:id", es.h.HandleGetScan)
	api.GET("/rules", es.h.HandleListRules)
}

// httpErrorHandler returns JSON errors and keeps internal detail out of
// responses. The request id gives clients a log reference.
func (es *EchoServer) httpErrorHandler(c *echo.Context, err error) {
	if resp, respErr := echo.UnwrapResponse(c.Response()); respErr == nil && resp.Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if he.Message != "" {
			message = he.Message
		} else {
			message = http.StatusText(status)
		}
	}

	if status >= http.StatusInternalServerError {
		requestID, _ := c.Get(handlers.ContextKeyRequestID).(string)
		c.Logger().Error("http error",
			"request_id", requestID,
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
		message = "internal server error"
		if requestID != "" {
			message = fmt.Sprintf("internal server error (reference %s)", requestID)
		}
	}

	_ = c.JSON(status, map[string]string{"error": message})
}

// Start serves until the listener fails or Shutdown is called.
func (es *EchoServer) Start(addr string) error {
	es.srv = &http.Server{
		Addr:              addr,
		Handler:           es.e,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return es.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (es *EchoServer) Shutdown(ctx context.Context) error {
	if es.srv == nil {
		return nil
	}
	return es.srv.Shutdown(ctx)
}
