// Package router wires handlers onto the Echo instance.  Each surface
// (health, auth, catalog, bookings) has its own Register function so
// main can compose exactly the surfaces a deployment needs.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/chriskke/teeko-booking-service/internal/handler"
	"github.com/chriskke/teeko-booking-service/internal/middleware"
)

// RegisterRoutes registers the unauthenticated infrastructure routes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the session endpoints.  Register, login, refresh
// and logout live under /v1/auth and need no existing session; /v1/me
// sits behind the JWT and role middleware like every other protected
// route.  Logout authenticates through the refresh token (or bearer)
// it is given, so it stays outside the middleware chain.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("STAFF", "CUSTOMER"))
	auth.GET("/me", a.Me)
}
