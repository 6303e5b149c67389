// Package web wires the portal's routes, middleware and page views.
package web

import (
	"log/slog"

	"portal/internal/auth"
	"portal/internal/database"
	"portal/internal/metrics"
	"portal/internal/session"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the router needs. DB may be nil.
type Dependencies struct {
	Auth           auth.Service
	Handler        *auth.Handler
	Sessions       session.Manager
	DB             database.Service
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
}

// SetupRouter configures and returns the portal router
func SetupRouter(deps Dependencies) (*gin.Engine, error) {
	tmpl, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(deps.Logger))
	if len(deps.AllowedOrigins) > 0 {
		r.Use(CORSMiddleware(deps.AllowedOrigins))
	}

	r.GET("/health", HealthHandler(deps.Sessions, deps.DB))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r.GET("/", Index)

	// Public pages
	pages := r.Group("/")
	pages.Use(NoStoreMiddleware())
	{
		pages.GET("/login", deps.Handler.LoginForm)
		pages.POST("/login", deps.Handler.Login)
		pages.GET("/register", deps.Handler.RegisterForm)
		pages.POST("/register", deps.Handler.Register)
		pages.POST("/logout", deps.Handler.Logout)
	}

	// Protected pages
	protected := r.Group("/")
	protected.Use(NoStoreMiddleware(), RequireSession(deps.Auth, deps.Handler, deps.Metrics))
	{
		protected.GET("/home", Home)
	}

	return r, nil
}
