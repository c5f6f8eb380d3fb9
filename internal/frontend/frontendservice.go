package frontend

import (
	"embed"
	"log/slog"
	"net/http"

	"github.com/jo-hoe/imagehost/internal/core"
	"github.com/labstack/echo/v4"
)

const MainPageName = "index.html"

//go:embed static
var staticFS embed.FS

// FrontendService serves the embedded single page UI. All state lives in
// the browser; the server only hands out static files here.
type FrontendService struct {
	config *core.ServiceConfig
}

func NewFrontendService(config *core.ServiceConfig) *FrontendService {
	return &FrontendService{
		config: config,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.GET("/", service.rootRedirectHandler) // Redirect root to index.html
	e.GET("/"+MainPageName, service.indexHandler)
	e.StaticFS("/static", echo.MustSubFS(staticFS, "static"))
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	data, err := staticFS.ReadFile("static/" + MainPageName)
	if err != nil {
		slog.Error("indexHandler: failed to read index.html",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load page")
	}
	return ctx.HTMLBlob(http.StatusOK, data)
}
