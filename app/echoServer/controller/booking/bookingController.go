package booking

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/PragyeNawani/wheelify/app/echoServer/controller/respond"
	"github.com/PragyeNawani/wheelify/app/echoServer/jwtx"
	bookingsvc "github.com/PragyeNawani/wheelify/service/booking"
	lifecyclesvc "github.com/PragyeNawani/wheelify/service/lifecycle"
)

type Controller struct {
	bookings  bookingsvc.Service
	lifecycle lifecyclesvc.Service
	log       *slog.Logger
}

func NewController(bookings bookingsvc.Service, lifecycle lifecyclesvc.Service, log *slog.Logger) *Controller {
	return &Controller{bookings: bookings, lifecycle: lifecycle, log: log}
}

const dateLayout = "2006-01-02"

type orderReq struct {
	CarID           int64  `json:"car_id" validate:"required,gt=0"`
	DriverID        *int64 `json:"driver_id,omitempty"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	PickupLocation  string `json:"pickup_location" validate:"required"`
	DropoffLocation string `json:"dropoff_location" validate:"required"`
}

type verifyReq struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`

	CarID           int64  `json:"car_id" validate:"required,gt=0"`
	DriverID        *int64 `json:"driver_id,omitempty"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`

	InsuranceAccepted bool `json:"insurance_accepted"`

	CustomerName        string `json:"customer_name"`
	CustomerEmail       string `json:"customer_email"`
	CustomerPhone       string `json:"customer_phone"`
	SpecialRequirements string `json:"special_requirements"`
}

type draftReq struct {
	CarID           int64  `json:"car_id" validate:"required,gt=0"`
	StartDate       string `json:"start_date" validate:"required"`
	EndDate         string `json:"end_date" validate:"required"`
	PickupLocation  string `json:"pickup_location"`
	DropoffLocation string `json:"dropoff_location"`
}

func parseRange(start, end string) (time.Time, time.Time, bool) {
	s, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	e, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return s, e, true
}

// CreateOrder godoc
// @Summary      Price a rental and open a payment order
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body body orderReq true "order payload"
// @Success      200 {object} bookingsvc.OrderCreated
// @Failure      409 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /payments/order [post]
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
	start, end, ok := parseRange(req.StartDate, req.EndDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "dates must be YYYY-MM-DD"})
	}

	order, err := ct.bookings.CreateOrder(c.Request().Context(), userID, bookingsvc.CreateOrderInput{
		CarID:           req.CarID,
		DriverID:        req.DriverID,
		StartDate:       start,
		EndDate:         end,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
	})
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Verify godoc
// @Summary      Verify a payment and confirm the booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body body verifyReq true "verification payload"
// @Success      200 {object} bookingsvc.Confirmed
// @Failure      400 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /payments/verify [post]
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
	start, end, ok := parseRange(req.StartDate, req.EndDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "dates must be YYYY-MM-DD"})
	}

	confirmed, err := ct.bookings.VerifyAndConfirm(c.Request().Context(), userID, bookingsvc.ConfirmInput{
		OrderID:             req.RazorpayOrderID,
		PaymentID:           req.RazorpayPaymentID,
		Signature:           req.RazorpaySignature,
		CarID:               req.CarID,
		DriverID:            req.DriverID,
		StartDate:           start,
		EndDate:             end,
		PickupLocation:      req.PickupLocation,
		DropoffLocation:     req.DropoffLocation,
		InsuranceAccepted:   req.InsuranceAccepted,
		CustomerName:        req.CustomerName,
		CustomerEmail:       req.CustomerEmail,
		CustomerPhone:       req.CustomerPhone,
		SpecialRequirements: req.SpecialRequirements,
	})
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	status := http.StatusCreated
	if confirmed.AlreadyConfirmed {
		status = http.StatusOK
	}
	return c.JSON(status, confirmed)
}

// Draft godoc
// @Summary      Save an unpaid booking draft
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        body body draftReq true "draft payload"
// @Success      201 {object} model.CarBooking
// @Security     BearerAuth
// @Router       /bookings/draft [post]
func (ct *Controller) Draft(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	var req draftReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, end, ok := parseRange(req.StartDate, req.EndDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "dates must be YYYY-MM-DD"})
	}

	b, err := ct.bookings.CreateDraft(c.Request().Context(), userID, bookingsvc.DraftInput{
		CarID:           req.CarID,
		StartDate:       start,
		EndDate:         end,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
	})
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// My godoc
// @Summary      List the caller's bookings
// @Tags         bookings
// @Produce      json
// @Success      200 {array} model.CarBooking
// @Security     BearerAuth
// @Router       /bookings/my [get]
func (ct *Controller) My(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	list, err := ct.lifecycle.MyBookings(c.Request().Context(), userID)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Detail godoc
// @Summary      Get one booking (owner or admin)
// @Tags         bookings
// @Produce      json
// @Param        id path int true "booking id"
// @Success      200 {object} model.CarBooking
// @Failure      403 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /bookings/{id} [get]
func (ct *Controller) Detail(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking id"})
	}
	b, err := ct.lifecycle.Detail(c.Request().Context(), id, userID, jwtx.Role(c))
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel godoc
// @Summary      Cancel a pending or confirmed booking
// @Tags         bookings
// @Produce      json
// @Param        id path int true "booking id"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /bookings/{id}/cancel [post]
func (ct *Controller) Cancel(c echo.Context) error {
	userID, err := jwtx.UserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking id"})
	}
	if err := ct.lifecycle.Cancel(c.Request().Context(), id, userID, jwtx.Role(c)); err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking cancelled"})
}

type refundReq struct {
	DamageReported    bool    `json:"damage_reported"`
	DamageDescription string  `json:"damage_description"`
	DamageAmount      float64 `json:"damage_amount"`
}

// ListAll godoc
// @Summary      List all bookings, optionally by status
// @Tags         admin
// @Produce      json
// @Param        status query string false "status filter"
// @Success      200 {array} model.CarBooking
// @Security     BearerAuth
// @Router       /admin/bookings [get]
func (ct *Controller) ListAll(c echo.Context) error {
	list, err := ct.lifecycle.ListAll(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Complete godoc
// @Summary      Mark a rental finished and free its inventory
// @Tags         admin
// @Produce      json
// @Param        id path int true "booking id"
// @Success      200 {object} model.CarBooking
// @Failure      409 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /admin/bookings/{id}/complete [post]
func (ct *Controller) Complete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking id"})
	}
	b, err := ct.lifecycle.Complete(c.Request().Context(), id)
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, b)
}

// RefundInsurance godoc
// @Summary      Refund the insurance deposit after inspection
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id path int true "booking id"
// @Param        body body refundReq true "damage report"
// @Success      200 {object} lifecyclesvc.RefundResult
// @Failure      409 {object} map[string]interface{}
// @Security     BearerAuth
// @Router       /admin/bookings/{id}/refund-insurance [post]
func (ct *Controller) RefundInsurance(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid booking id"})
	}
	var req refundReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request body"})
	}

	res, err := ct.lifecycle.RefundInsurance(c.Request().Context(), lifecyclesvc.RefundInput{
		BookingID:         id,
		DamageReported:    req.DamageReported,
		DamageDescription: req.DamageDescription,
		DamageAmount:      req.DamageAmount,
	})
	if err != nil {
		return respond.Error(c, ct.log, err)
	}
	return c.JSON(http.StatusOK, res)
}
