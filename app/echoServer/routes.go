package echoServer

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	authctrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/auth"
	bookingctrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/booking"
	carctrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/car"
	driverctrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/driver"
	hirectrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/hire"
	lifecyclesvc "github.com/PragyeNawani/wheelify/service/lifecycle"
)

type C struct {
	Auth      *authctrl.Controller
	Car       *carctrl.Controller
	Driver    *driverctrl.Controller
	Booking   *bookingctrl.Controller
	Hire      *hirectrl.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)
	pub.GET("/cars", c.Car.List)
	pub.GET("/cars/:id", c.Car.Detail)
	pub.GET("/drivers", c.Driver.List)
	pub.GET("/drivers/:id", c.Driver.Detail)

	// Auth
	auth := e.Group("/v1")
	auth.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(c.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	auth.Use(ExtractIdentity())

	// Bookings and payment reconciliation
	auth.POST("/payments/order", c.Booking.CreateOrder)
	auth.POST("/payments/verify", c.Booking.Verify)
	auth.POST("/bookings/draft", c.Booking.Draft)
	auth.GET("/bookings/my", c.Booking.My)
	auth.GET("/bookings/:id", c.Booking.Detail)
	auth.POST("/bookings/:id/cancel", c.Booking.Cancel)

	// Standalone driver hire
	auth.POST("/hires/order", c.Hire.CreateOrder)
	auth.POST("/hires/verify", c.Hire.Verify)
	auth.GET("/hires/my", c.Hire.My)

	// Admin
	admin := auth.Group("/admin", RequireRole(lifecyclesvc.RoleAdmin))
	admin.POST("/cars", c.Car.Create)
	admin.PUT("/cars/:id", c.Car.Update)
	admin.DELETE("/cars/:id", c.Car.Delete)
	admin.POST("/drivers", c.Driver.Create)
	admin.PUT("/drivers/:id", c.Driver.Update)
	admin.DELETE("/drivers/:id", c.Driver.Delete)
	admin.GET("/bookings", c.Booking.ListAll)
	admin.POST("/bookings/:id/complete", c.Booking.Complete)
	admin.POST("/bookings/:id/refund-insurance", c.Booking.RefundInsurance)
}
