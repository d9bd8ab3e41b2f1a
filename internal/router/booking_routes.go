package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/chriskke/teeko-booking-service/internal/config"
	"github.com/chriskke/teeko-booking-service/internal/handler"
	"github.com/chriskke/teeko-booking-service/internal/middleware"
)

// RegisterPackages exposes the read-only SIM package catalog.  The
// list endpoints are public so guests can browse before logging in;
// responses are served through the Redis cache middleware when a
// client is available.
func RegisterPackages(e *echo.Echo, p *handler.PackageHandler, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	g := e.Group("/v1/packages", middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("", p.List)
	g.GET("/:id", p.Get)
}

// RegisterBookings wires the booking lifecycle endpoints.  All of them
// require a valid access token; the staff-only surface (admin list,
// status override, redemption) additionally requires the STAFF role.
// Redemption endpoints sit behind the Redis token bucket so a
// misbehaving scanner cannot hammer the guard.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, a *handler.AdminBookingHandler, jwtSecret string, rdb *redis.Client) {
	rlCfg := config.LoadRateLimitConfig()

	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("STAFF", "CUSTOMER"))

	// Customer surface.
	g.POST("", b.Create)
	g.POST("/:id/cancel", b.Cancel)
	g.GET("/my-bookings", b.MyBookings)
	g.GET("/check-status/:packageId", b.CheckStatus)
	g.GET("/:id/qr", b.QRCode)

	// Staff surface.
	staff := e.Group("/v1/bookings")
	staff.Use(middleware.JWTAuth(jwtSecret))
	staff.Use(middleware.RequireRole("STAFF"))
	staff.GET("/admin/all", a.List)
	staff.PATCH("/:id/status", a.SetStatus)
	staff.POST("/complete-by-code", a.CompleteByCode, middleware.NewTokenBucket(rlCfg, rdb))
	staff.POST("/complete-by-scan", a.CompleteByScan, middleware.NewTokenBucket(rlCfg, rdb))
}
