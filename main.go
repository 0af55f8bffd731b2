// Package main Wheelify API.
//
// @title           Wheelify API
// @version         1.0
// @description     Car and driver rental marketplace (catalogue, bookings, payments, insurance refunds).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/PragyeNawani/wheelify/app/echoServer"
	authctrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/auth"
	bookingctrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/booking"
	carctrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/car"
	driverctrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/driver"
	hirectrl "github.com/PragyeNawani/wheelify/app/echoServer/controller/hire"
	"github.com/PragyeNawani/wheelify/app/echoServer/validation"
	"github.com/PragyeNawani/wheelify/config"
	bookingrepo "github.com/PragyeNawani/wheelify/repository/booking"
	carrepo "github.com/PragyeNawani/wheelify/repository/car"
	driverrepo "github.com/PragyeNawani/wheelify/repository/driver"
	driverbookingrepo "github.com/PragyeNawani/wheelify/repository/driverbooking"
	razorpayrepo "github.com/PragyeNawani/wheelify/repository/razorpay"
	userrepo "github.com/PragyeNawani/wheelify/repository/user"
	authsvc "github.com/PragyeNawani/wheelify/service/auth"
	bookingsvc "github.com/PragyeNawani/wheelify/service/booking"
	carsvc "github.com/PragyeNawani/wheelify/service/car"
	driversvc "github.com/PragyeNawani/wheelify/service/driver"
	hiresvc "github.com/PragyeNawani/wheelify/service/hire"
	lifecyclesvc "github.com/PragyeNawani/wheelify/service/lifecycle"
	"github.com/PragyeNawani/wheelify/util/database"
)

// Pending drafts older than this are released by the background cleaner.
const draftTTL = 30 * time.Minute

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	cr := carrepo.New(db)
	dr := driverrepo.New(db)
	br := bookingrepo.New(db)
	dbr := driverbookingrepo.New(db)
	gw := razorpayrepo.NewHTTP(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	cs := carsvc.New(cr)
	ds := driversvc.New(dr)
	bs := bookingsvc.New(cr, dr, br, dbr, gw, log)
	ls := lifecyclesvc.New(br, dbr, cr, dr, gw, log)
	hs := hiresvc.New(dr, dbr, gw, log)

	// controllers
	authC := authctrl.NewController(as, log)
	carC := carctrl.NewController(cs, log)
	driverC := driverctrl.NewController(ds, log)
	bookingC := bookingctrl.NewController(bs, ls, log)
	hireC := hirectrl.NewController(hs, ls, log)

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Car:     carC,
		Driver:  driverC,
		Booking: bookingC,
		Hire:    hireC,

		JWTSecret: cfg.JWTSecret,
	})

	// release drafts whose payment never arrived
	cleaner := bookingsvc.NewCleaner(br, draftTTL)
	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for range t.C {
			n, err := cleaner.ReleaseExpired(ctx)
			if err != nil {
				log.Error("draft cleanup failed", "err", err)
				continue
			}
			if n > 0 {
				log.Info("expired pending drafts", "count", n)
			}
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
