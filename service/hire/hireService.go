// Package hiresvc covers hiring a driver without a car booking. Combined
// car+driver purchases go through the booking orchestrator instead.
package hiresvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PragyeNawani/wheelify/model"
	razorpayrepo "github.com/PragyeNawani/wheelify/repository/razorpay"
	"github.com/PragyeNawani/wheelify/service/pricing"
	"github.com/PragyeNawani/wheelify/util/apperr"
)

type DriverRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Driver, error)
	AssignIfAvailable(ctx context.Context, driverID int64, carID *int64) (bool, error)
	Unassign(ctx context.Context, driverID int64) error
}

type HireRepo interface {
	Insert(ctx context.Context, b *model.DriverBooking) error
	DeleteByID(ctx context.Context, id int64) error
	FindByOrderID(ctx context.Context, orderID string) (*model.DriverBooking, error)
	HasOverlap(ctx context.Context, driverID int64, start, end time.Time) (bool, error)
}

type Period struct {
	StartDate    time.Time
	Duration     int
	DurationType string // days | weeks | months
}

// days returns the day count priced for the period. Months count as 30 days,
// matching the salary frequency approximation.
func (p Period) days() (int, error) {
	if p.Duration <= 0 {
		return 0, apperr.New(apperr.CodeValidation, "duration must be positive")
	}
	switch p.DurationType {
	case "days":
		return p.Duration, nil
	case "weeks":
		return p.Duration * 7, nil
	case "months":
		return p.Duration * 30, nil
	default:
		return 0, apperr.Newf(apperr.CodeValidation, "unknown duration type %q", p.DurationType)
	}
}

// end returns the calendar end of the period.
func (p Period) end() time.Time {
	switch p.DurationType {
	case "weeks":
		return p.StartDate.AddDate(0, 0, p.Duration*7)
	case "months":
		return p.StartDate.AddDate(0, p.Duration, 0)
	default:
		return p.StartDate.AddDate(0, 0, p.Duration)
	}
}

type OrderInput struct {
	DriverID int64
	Period   Period
}

type OrderCreated struct {
	OrderID     string  `json:"order_id"`
	AmountPaise int64   `json:"amount"`
	Currency    string  `json:"currency"`
	KeyID       string  `json:"key_id"`
	TotalDays   int     `json:"total_days"`
	Total       float64 `json:"total"`
}

type ConfirmInput struct {
	OrderID   string
	PaymentID string
	Signature string

	DriverID int64
	Period   Period
	CarID    *int64

	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	SpecialRequirements string
}

type Service interface {
	CreateOrder(ctx context.Context, userID int64, in OrderInput) (*OrderCreated, error)
	VerifyAndConfirm(ctx context.Context, userID int64, in ConfirmInput) (*model.DriverBooking, error)
}

type service struct {
	drivers DriverRepo
	hr      HireRepo
	gw      razorpayrepo.Repo
	log     *slog.Logger
}

func New(drivers DriverRepo, hr HireRepo, gw razorpayrepo.Repo, log *slog.Logger) Service {
	return &service{drivers: drivers, hr: hr, gw: gw, log: log}
}

func (s *service) CreateOrder(ctx context.Context, userID int64, in OrderInput) (*OrderCreated, error) {
	driver, totalDays, cost, err := s.price(ctx, in.DriverID, in.Period)
	if err != nil {
		return nil, err
	}
	if !driver.Available() {
		return nil, apperr.New(apperr.CodeDriverUnavailable, "driver is not available")
	}
	overlap, err := s.hr.HasOverlap(ctx, in.DriverID, in.Period.StartDate, in.Period.end())
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, apperr.New(apperr.CodeDriverUnavailable, "driver already booked for this period")
	}

	order, err := s.gw.CreateOrder(ctx, razorpayrepo.CreateOrderReq{
		AmountPaise: int64(cost),
		Currency:    "INR",
		Receipt:     fmt.Sprintf("DRV_%d_%d", in.DriverID, time.Now().Unix()),
		Notes: map[string]string{
			"driver_id": fmt.Sprintf("%d", in.DriverID),
			"user_id":   fmt.Sprintf("%d", userID),
		},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeGateway, "create order", err)
	}

	return &OrderCreated{
		OrderID:     order.OrderID,
		AmountPaise: order.AmountPaise,
		Currency:    order.Currency,
		KeyID:       s.gw.KeyID(),
		TotalDays:   totalDays,
		Total:       cost.Major(),
	}, nil
}

func (s *service) price(ctx context.Context, driverID int64, p Period) (*model.Driver, int, pricing.Paise, error) {
	driver, err := s.drivers.GetByID(ctx, driverID)
	if err != nil {
		return nil, 0, 0, err
	}
	if driver == nil {
		return nil, 0, 0, apperr.New(apperr.CodeNotFound, "driver not found")
	}
	totalDays, err := p.days()
	if err != nil {
		return nil, 0, 0, err
	}
	cost, err := pricing.DriverCost(driver.SalaryAmount, driver.PaymentFrequency, totalDays)
	if err != nil {
		return nil, 0, 0, err
	}
	return driver, totalDays, cost, nil
}

func (s *service) VerifyAndConfirm(ctx context.Context, userID int64, in ConfirmInput) (*model.DriverBooking, error) {
	if !s.gw.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		s.log.Warn("hire payment signature mismatch",
			"order_id", in.OrderID,
			"payment_id", in.PaymentID,
			"user_id", userID,
			"driver_id", in.DriverID,
		)
		return nil, apperr.New(apperr.CodeInvalidSignature, "invalid payment signature")
	}

	if existing, err := s.hr.FindByOrderID(ctx, in.OrderID); err != nil {
		return nil, err
	} else if existing != nil && existing.PaymentStatus == model.HirePaymentCompleted {
		return existing, nil
	}

	_, _, cost, err := s.price(ctx, in.DriverID, in.Period)
	if err != nil {
		return nil, err
	}

	hire := &model.DriverBooking{
		DriverID:            in.DriverID,
		UserID:              userID,
		CarID:               in.CarID,
		CustomerName:        in.CustomerName,
		CustomerEmail:       in.CustomerEmail,
		CustomerPhone:       in.CustomerPhone,
		StartDate:           in.Period.StartDate,
		EndDate:             in.Period.end(),
		Duration:            fmt.Sprintf("%d %s", in.Period.Duration, in.Period.DurationType),
		SpecialRequirements: in.SpecialRequirements,
		TotalAmount:         cost.Major(),
		RazorpayOrderID:     in.OrderID,
		RazorpayPaymentID:   in.PaymentID,
		RazorpaySignature:   in.Signature,
		PaymentStatus:       model.HirePaymentCompleted,
		BookingStatus:       model.HireConfirmed,
	}

	if err := s.hr.Insert(ctx, hire); err != nil {
		return nil, err
	}

	ok, err := s.drivers.AssignIfAvailable(ctx, in.DriverID, in.CarID)
	if err == nil && !ok {
		err = apperr.New(apperr.CodeDriverUnavailable, "driver is not available")
	}
	if err != nil {
		if delErr := s.hr.DeleteByID(context.WithoutCancel(ctx), hire.ID); delErr != nil {
			mi := &apperr.ManualInterventionError{
				DriverBookingID: hire.ID,
				DriverID:        in.DriverID,
				Cause:           err,
				CompensationErr: delErr,
			}
			s.log.Error("driver hire inconsistent", "err", mi)
			return nil, mi
		}
		return nil, err
	}

	return hire, nil
}
