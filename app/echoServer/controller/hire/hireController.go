package hire

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PragyeNawani/wheelify/app/echoServer/controller/respond"
	"github.com/PragyeNawani/wheelify/app/echoServer/jwtx"
	hiresvc "github.com/PragyeNawani/wheelify/service/hire"
	lifecyclesvc "github.com/PragyeNawani/wheelify/service/lifecycle"
)

type Controller struct {
	hires     hiresvc.Service
	lifecycle lifecyclesvc.Service
	log       *slog.Logger
}

func NewController(hires hiresvc.Service, lifecycle lifecyclesvc.Service, log *slog.Logger) *Controller {
	return &Controller{hires: hires, lifecycle: lifecycle, log: log}
}

const dateLayout = "2006-01-02"

type orderReq struct {
	DriverID     int64  `json:"driver_id" validate:"required,gt=0"`
	StartDate    string `json:"start_date" validate:"required"`
	Duration     int    `json:"duration" validate:"required,gt=0"`
	DurationType string `json:"duration_type" validate:"required,oneof=days weeks months"`
}

type verifyReq struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`

	DriverID     int64  `json:"driver_id" validate:"required,gt=0"`
	StartDate    string `json:"start_date" validate:"required"`
	Duration     int    `json:"duration" validate:"required,gt=0"`
	DurationType string `json:"duration_type" validate:"required,oneof=days weeks months"`
	CarID        *int64 `json:"car_id,omitempty"`

	CustomerName        string `json:"customer_name" validate:"required"`
	CustomerEmail       string `json:"customer_email" validate:"required,email"`
	CustomerPhone       string `json:"customer_phone" validate:"required"`
	SpecialRequirements string `json:"special_requirements"`
}

// CreateOrder godoc
// @Summary      Price a standalone driver hire and open a payment order
// @Tags         hires
// @Accept       json
// @Produce      json
// @Param        body body orderReq true "hire order payload"
// @Success      200 {object} hiresvc.OrderCreated
// @Failure      409 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /hires/order [post]
func (ct *Controller) CreateOrder(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req orderReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "start_date must be YYYY-MM-DD"})
	}

	order, err := ct.hires.CreateOrder(c.Request().Context(), userID, hiresvc.OrderInput{
		DriverID: req.DriverID,
		Period: hiresvc.Period{
			StartDate:    start,
			Duration:     req.Duration,
			DurationType: req.DurationType,
		},
	})
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Verify godoc
// @Summary      Verify a hire payment and confirm the driver booking
// @Tags         hires
// @Accept       json
// @Produce      json
// @Param        body body verifyReq true "verification payload"
// @Success      201 {object} model.DriverBooking
// @Failure      400 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /hires/verify [post]
func (ct *Controller) Verify(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "start_date must be YYYY-MM-DD"})
	}

	hire, err := ct.hires.VerifyAndConfirm(c.Request().Context(), userID, hiresvc.ConfirmInput{
		OrderID:   req.RazorpayOrderID,
		PaymentID: req.RazorpayPaymentID,
		Signature: req.RazorpaySignature,
		DriverID:  req.DriverID,
		Period: hiresvc.Period{
			StartDate:    start,
			Duration:     req.Duration,
			DurationType: req.DurationType,
		},
		CarID:               req.CarID,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusCreated, hire)
}

// My godoc
// @Summary      List the caller's driver bookings
// @Tags         hires
// @Produce      json
// @Success      200 {array} model.DriverBooking
// @Security     BearerAuth
// @Router       /hires/my [get]
func (ct *Controller) My(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	list, err := ct.lifecycle.MyDriverBookings(c.Request().Context(), userID)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, list)
}
