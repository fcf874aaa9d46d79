package handlers

import (
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

// Routes groups the handlers and the auth middleware they are mounted behind.
type Routes struct {
	Auth        *AuthHandlers
	Bookings    *BookingHandlers
	Messages    *MessageHandlers
	Attachments *AttachmentHandlers
	Health      *HealthHandlers

	// SessionAuth guards cookie-authenticated routes.
	SessionAuth echo.MiddlewareFunc
	// SessionToken verifies a bearer or cookie JWT for the session check.
	SessionToken echo.MiddlewareFunc
}

func (r Routes) Register(e *echo.Echo) {
	// Pre runs before routing, so /api/bookings/ resolves to /api/bookings.
	e.Pre(echoMiddleware.RemoveTrailingSlash())

	if r.Health != nil {
		e.GET("/health", r.Health.HealthCheck)
		e.GET("/health/ready", r.Health.ReadinessCheck)
	}

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/signup", r.Auth.Signup)
	auth.POST("/login", r.Auth.Login)
	auth.POST("/logout", r.Auth.Logout)
	auth.GET("/session", r.Auth.Session, r.SessionToken)

	bookings := api.Group("/bookings", r.SessionAuth)
	bookings.GET("", r.Bookings.ListBookings)
	bookings.GET("/attachments/:uuid", r.Attachments.GetAttachment)
	bookings.GET("/:uuid", r.Bookings.GetBooking)

	messages := api.Group("/messages", r.SessionAuth)
	messages.GET("", r.Messages.ListBookings)
	messages.GET("/:bookingUuid", r.Messages.ListMessages)
	messages.POST("/:bookingUuid", r.Messages.SendMessage)
}
