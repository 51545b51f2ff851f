package routes

import (
	"net/http"
	"time"

	"handwerk/handlers"
	"handwerk/middleware"
	"handwerk/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Handwerk"})
	})
}

// RegisterRoutes renders the declarative route table onto gin groups
// and installs the global middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	for _, group := range BuildRouteTable(hb) {
		g := r.Group(group.Prefix)
		if group.RequiresAuth {
			g.Use(middleware.JWTAuthMiddleware(hb.UserRepo))
		}
		if group.Role != models.RoleUnknown {
			g.Use(middleware.RequireRole(hb.ProfileRepo, group.Role))
		}

		for _, route := range group.Routes {
			handler := route.Handler
			// Per-route guards inside an otherwise open group.
			if route.RequiresAuth && !group.RequiresAuth {
				g.Handle(route.Method, route.Path, middleware.JWTAuthMiddleware(hb.UserRepo), handler)
				continue
			}
			g.Handle(route.Method, route.Path, handler)
		}
	}

	RegisterHealthRoute(r)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "path": c.Request.URL.Path})
	})
}
