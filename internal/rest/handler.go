package rest

import (
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dfryer1193/localblog/blog/application"
	"github.com/dfryer1193/localblog/internal/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTML pages and the JSON API.
type Handler struct {
	posts  *application.PostRepository
	themes *application.ThemeService
	list   *application.ListRenderer
	store  Pinger

	redirectDelay  time.Duration
	maxUploadBytes int64
}

type HandlerConfig struct {
	Posts          *application.PostRepository
	Themes         *application.ThemeService
	List           *application.ListRenderer
	Store          Pinger
	RedirectDelay  time.Duration
	MaxUploadBytes int64
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		posts:          cfg.Posts,
		themes:         cfg.Themes,
		list:           cfg.List,
		store:          cfg.Store,
		redirectDelay:  cfg.RedirectDelay,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// NewRouter builds the gin engine with middleware, templates and all routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
	router.MaxMultipartMemory = h.maxUploadBytes

	NewApi(router, h)
	return router
}
