package backend

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator"
	"github.com/jo-hoe/imagehost/internal/common"
	"github.com/jo-hoe/imagehost/internal/core"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer creates the echo instance with the shared middleware stack:
// request logging, panic recovery, trailing slash removal and the request
// body cap derived from the configured maximum upload size.
func NewServer(config *core.ServiceConfig) *echo.Echo {
	e := echo.New()

	// Configure request logger to skip "/probe" endpoint (health check)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/probe"
		},
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogURI:      true,
		LogError:    true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				slog.Error("request",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency", v.Latency,
					"remote_ip", v.RemoteIP,
					"error", v.Error,
				)
			} else {
				slog.Info("request",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency", v.Latency,
					"remote_ip", v.RemoteIP,
				)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())
	e.Pre(middleware.RemoveTrailingSlash())

	// Cap request bodies at twice the max file size, headroom for the
	// multipart framing around the file itself.
	e.Use(middleware.BodyLimit(fmt.Sprintf("%d", 2*config.Upload.MaxFileSizeBytes)))

	e.Validator = &common.GenericEchoValidator{Validator: validator.New()}

	return e
}
