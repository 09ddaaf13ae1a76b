package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/banquet-hall-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/banquet-hall-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
	"github.com/iliyamo/banquet-hall-booking/internal/model"      // import role constants for route guards
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// This endpoint can be used by load balancers or monitoring systems to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes.  Register and login
// live under /v1/auth and need no token; /v1/me requires a valid access
// token of any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated hall catalogue routes so
// guests can browse halls before registering.
func RegisterPublic(e *echo.Echo, h *handler.HallHandler) {
	e.GET("/v1/halls", h.ListHalls)
	e.GET("/v1/halls/:id", h.GetHall)
}

// RegisterBookings registers the customer booking routes.  All of them
// require a valid access token; creation and listing are customer-only
// while booking detail is shared with the admin tiers (the handler
// enforces ownership for customers).
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	customer := g.Group("")
	customer.Use(middleware.RequireRole(model.RoleCustomer))
	customer.POST("/bookings", b.CreateBooking)
	customer.GET("/my-bookings", b.ListMyBookings)
	customer.POST("/payments", p.InitiatePayment)
	customer.POST("/payments/:id/verify", p.VerifyPayment)

	shared := g.Group("")
	shared.Use(middleware.RequireRole(append([]model.Role{model.RoleCustomer}, model.AdminRoles...)...))
	shared.GET("/bookings/:id", b.GetBooking)
}

// RegisterAdmin registers the approval pipeline surface.  Every route
// requires an admin-tier token; the transition table decides which
// tier can actually move a given booking.
func RegisterAdmin(e *echo.Echo, a *handler.AdminBookingHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireAdmin())

	g.GET("/bookings", a.ListQueue)
	g.POST("/bookings/:id/decision", a.Decide)
	g.PATCH("/bookings/:id/halls/:hallId/price", a.AllocatePrice)
	g.GET("/stats", a.GetStats)
}
