package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/openmol/chemvault/internal/auth"
	"github.com/openmol/chemvault/internal/handlers"
	"github.com/openmol/chemvault/internal/middleware"
	"github.com/openmol/chemvault/internal/services"
)

// Services bundles the wired application services consumed by the router.
type Services struct {
	Users     *services.UserService
	Compounds *services.CompoundService
	Shares    *services.ShareService
	Sessions  *iauth.SessionService
	JWT       *iauth.JWTService
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, svc Services) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if svc.Users == nil || svc.Compounds == nil || svc.Shares == nil {
		return nil, fmt.Errorf("application services must be provided")
	}
	if svc.Sessions == nil || svc.JWT == nil {
		return nil, fmt.Errorf("auth services must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	authHandler := handlers.NewAuthHandler(svc.Users, svc.Sessions)

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	requireAuth := middleware.Auth(svc.JWT)

	api := r.Group("/api")
	api.Use(requireAuth)

	// Authenticated auth routes
	api.GET("/auth/me", authHandler.Me)
	api.POST("/auth/logout", authHandler.Logout)

	// Users
	userHandler := handlers.NewUserHandler(svc.Users)
	api.GET("/users/search", userHandler.Search)

	// Compounds
	compoundHandler := handlers.NewCompoundHandler(svc.Compounds)
	shareHandler := handlers.NewShareHandler(svc.Shares)

	compounds := api.Group("/compounds")
	{
		compounds.GET("", compoundHandler.List)
		compounds.GET("/search", compoundHandler.List)
		compounds.POST("", compoundHandler.Create)
		compounds.GET("/:id", compoundHandler.Get)
		compounds.PATCH("/:id", compoundHandler.Update)
		compounds.DELETE("/:id", compoundHandler.Delete)

		compounds.POST("/:id/shares", shareHandler.Grant)
		compounds.GET("/:id/shares", shareHandler.List)
	}

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
