package bookingsvc

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

// Repositories the orchestrator needs, narrowed to the operations it uses.

type CarRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Car, error)
	ReserveIfAvailable(ctx context.Context, id int64) (bool, error)
	Release(ctx context.Context, id int64) error
}

type DriverRepo interface {
	GetByID(ctx context.Context, id int64) (*model.Driver, error)
	AssignIfAvailable(ctx context.Context, driverID int64, carID *int64) (bool, error)
	Unassign(ctx context.Context, driverID int64) error
}

type BookingRepo interface {
	Insert(ctx context.Context, b *model.CarBooking) error
	DeleteByID(ctx context.Context, id int64) error
	FindByOrderID(ctx context.Context, orderID string) (*model.CarBooking, error)
	MarkPaymentFailedByOrderID(ctx context.Context, orderID string) error
	ExpirePending(ctx context.Context, createdBefore time.Time) (int64, error)
}

type DriverBookingRepo interface {
	Insert(ctx context.Context, b *model.DriverBooking) error
	DeleteByID(ctx context.Context, id int64) error
	FindByCarBookingID(ctx context.Context, carBookingID int64) (*model.DriverBooking, error)
	HasOverlap(ctx context.Context, driverID int64, start, end time.Time) (bool, error)
}

// dto

type CreateOrderInput struct {
	CarID           int64
	DriverID        *int64
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string
}

type OrderCreated struct {
	OrderID     string  `json:"order_id"`
	AmountPaise int64   `json:"amount"`
	Currency    string  `json:"currency"`
	KeyID       string  `json:"key_id"`
	TotalDays   int     `json:"total_days"`
	CarCost     float64 `json:"car_cost"`
	DriverCost  float64 `json:"driver_cost"`
	Insurance   float64 `json:"insurance_amount"`
	Total       float64 `json:"total"`
}

type ConfirmInput struct {
	OrderID   string
	PaymentID string
	Signature string

	CarID    int64
	DriverID *int64

	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string

	InsuranceAccepted bool

	CustomerName        string
	CustomerEmail       string
	CustomerPhone       string
	SpecialRequirements string
}

type Confirmed struct {
	Booking          *model.CarBooking    `json:"booking"`
	DriverBooking    *model.DriverBooking `json:"driver_booking,omitempty"`
	AlreadyConfirmed bool                 `json:"already_confirmed"`
}

type DraftInput struct {
	CarID           int64
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string
}

type Service interface {
	// CreateOrder prices the rental and opens a gateway order. Nothing is
	// persisted; the order id is threaded back through VerifyAndConfirm.
	CreateOrder(ctx context.Context, userID int64, in CreateOrderInput) (*OrderCreated, error)

	// VerifyAndConfirm checks the payment signature, then materializes the
	// booking, optional driver booking and inventory flips as a saga with
	// compensating rollback. Calling it twice with the same order id
	// returns the existing booking unchanged.
	VerifyAndConfirm(ctx context.Context, userID int64, in ConfirmInput) (*Confirmed, error)

	// CreateDraft records a pending, unpaid quote. Drafts never reserve
	// the car and are expired by the cleaner if payment never happens.
	CreateDraft(ctx context.Context, userID int64, in DraftInput) (*model.CarBooking, error)
}

type service struct {
	cars    CarRepo
	drivers DriverRepo
	br      BookingRepo
	dbr     DriverBookingRepo
	gw      razorpayrepo.Repo
	log     *slog.Logger
}

func New(cars CarRepo, drivers DriverRepo, br BookingRepo, dbr DriverBookingRepo, gw razorpayrepo.Repo, log *slog.Logger) Service {
	return &service{cars: cars, drivers: drivers, br: br, dbr: dbr, gw: gw, log: log}
}

func (s *service) CreateOrder(ctx context.Context, userID int64, in CreateOrderInput) (*OrderCreated, error) {
	car, driver, err := s.checkInventory(ctx, in.CarID, in.DriverID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.QuoteBooking(car, driver, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	order, err := s.gw.CreateOrder(ctx, razorpayrepo.CreateOrderReq{
		AmountPaise: int64(quote.Total),
		Currency:    "INR",
		Receipt:     fmt.Sprintf("car_%d_%d", in.CarID, time.Now().Unix()),
		Notes: map[string]string{
			"car_id":  fmt.Sprintf("%d", in.CarID),
			"user_id": fmt.Sprintf("%d", userID),
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
		TotalDays:   quote.TotalDays,
		CarCost:     quote.CarCost.Major(),
		DriverCost:  quote.DriverCost.Major(),
		Insurance:   quote.Insurance.Major(),
		Total:       quote.Total.Major(),
	}, nil
}

// checkInventory loads the car and optional driver and verifies both can be
// booked for the range. Read-only.
func (s *service) checkInventory(ctx context.Context, carID int64, driverID *int64, start, end time.Time) (*model.Car, *model.Driver, error) {
	car, err := s.cars.GetByID(ctx, carID)
	if err != nil {
		return nil, nil, err
	}
	if car == nil {
		return nil, nil, apperr.New(apperr.CodeNotFound, "car not found")
	}
	if !car.Available {
		return nil, nil, apperr.New(apperr.CodeCarUnavailable, "car is not available")
	}

	if driverID == nil {
		return car, nil, nil
	}
	driver, err := s.drivers.GetByID(ctx, *driverID)
	if err != nil {
		return nil, nil, err
	}
	if driver == nil {
		return nil, nil, apperr.New(apperr.CodeNotFound, "driver not found")
	}
	if !driver.Available() {
		return nil, nil, apperr.New(apperr.CodeDriverUnavailable, "driver is not available")
	}
	overlap, err := s.dbr.HasOverlap(ctx, *driverID, start, end)
	if err != nil {
		return nil, nil, err
	}
	if overlap {
		return nil, nil, apperr.New(apperr.CodeDriverUnavailable, "driver already booked for this period")
	}
	return car, driver, nil
}

func (s *service) VerifyAndConfirm(ctx context.Context, userID int64, in ConfirmInput) (*Confirmed, error) {
	// Step A: signature check. A mismatch never mutates booking state
	// beyond failing a provisional record carrying this order id.
	if !s.gw.VerifySignature(in.OrderID, in.PaymentID, in.Signature) {
		s.log.Warn("payment signature mismatch",
			"order_id", in.OrderID,
			"payment_id", in.PaymentID,
			"user_id", userID,
			"car_id", in.CarID,
		)
		if err := s.br.MarkPaymentFailedByOrderID(ctx, in.OrderID); err != nil {
			s.log.Error("mark payment failed", "order_id", in.OrderID, "err", err)
		}
		return nil, apperr.New(apperr.CodeInvalidSignature, "invalid payment signature")
	}

	// Replay of an already-confirmed order is a no-op success.
	if existing, err := s.br.FindByOrderID(ctx, in.OrderID); err != nil {
		return nil, err
	} else if existing != nil && existing.PaymentStatus == model.PaymentPaid {
		hire, err := s.dbr.FindByCarBookingID(ctx, existing.ID)
		if err != nil {
			return nil, err
		}
		return &Confirmed{Booking: existing, DriverBooking: hire, AlreadyConfirmed: true}, nil
	}

	if !in.InsuranceAccepted {
		return nil, apperr.New(apperr.CodeValidation, "insurance deposit must be accepted before payment")
	}

	car, err := s.cars.GetByID(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, apperr.New(apperr.CodeNotFound, "car not found")
	}

	// Driver is resolved before the first write so a missing driver never
	// needs compensation; the conditional assignment inside the saga still
	// guards against losing the driver to a concurrent hire.
	var driver *model.Driver
	if in.DriverID != nil {
		driver, err = s.drivers.GetByID(ctx, *in.DriverID)
		if err != nil {
			return nil, err
		}
		if driver == nil {
			return nil, apperr.New(apperr.CodeNotFound, "driver not found")
		}
	}

	quote, err := pricing.QuoteBooking(car, driver, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	booking := &model.CarBooking{
		UserID:            userID,
		CarID:             in.CarID,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		TotalDays:         quote.TotalDays,
		TotalPrice:        quote.CarCost.Major(),
		PickupLocation:    in.PickupLocation,
		DropoffLocation:   in.DropoffLocation,
		InsuranceAmount:   quote.Insurance.Major(),
		InsuranceAccepted: true,
		Status:            model.BookingConfirmed,
		PaymentStatus:     model.PaymentPaid,
		RazorpayOrderID:   in.OrderID,
		RazorpayPaymentID: in.PaymentID,
		RazorpaySignature: in.Signature,
	}

	var hire *model.DriverBooking

	steps := []sagaStep{
		{
			name: "create car booking",
			run: func(ctx context.Context) error {
				return s.br.Insert(ctx, booking)
			},
			compensate: func(ctx context.Context) error {
				return s.br.DeleteByID(ctx, booking.ID)
			},
		},
		{
			name: "reserve car",
			run: func(ctx context.Context) error {
				ok, err := s.cars.ReserveIfAvailable(ctx, in.CarID)
				if err != nil {
					return err
				}
				if !ok {
					return apperr.New(apperr.CodeCarUnavailable, "car is not available")
				}
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.cars.Release(ctx, in.CarID)
			},
		},
	}

	if driver != nil {
		driverID := driver.ID
		hire = &model.DriverBooking{
			DriverID:            driverID,
			UserID:              userID,
			CarID:               &in.CarID,
			CustomerName:        in.CustomerName,
			CustomerEmail:       in.CustomerEmail,
			CustomerPhone:       in.CustomerPhone,
			StartDate:           in.StartDate,
			EndDate:             in.EndDate,
			Duration:            fmt.Sprintf("%d days", quote.TotalDays),
			SpecialRequirements: in.SpecialRequirements,
			TotalAmount:         quote.DriverCost.Major(),
			RazorpayOrderID:     in.OrderID,
			RazorpayPaymentID:   in.PaymentID,
			RazorpaySignature:   in.Signature,
			PaymentStatus:       model.HirePaymentCompleted,
			BookingStatus:       model.HireConfirmed,
		}
		steps = append(steps,
			sagaStep{
				name: "create driver booking",
				run: func(ctx context.Context) error {
					hire.CarBookingID = &booking.ID
					return s.dbr.Insert(ctx, hire)
				},
				compensate: func(ctx context.Context) error {
					return s.dbr.DeleteByID(ctx, hire.ID)
				},
			},
			sagaStep{
				name: "assign driver",
				run: func(ctx context.Context) error {
					ok, err := s.drivers.AssignIfAvailable(ctx, driverID, &in.CarID)
					if err != nil {
						return err
					}
					if !ok {
						return apperr.New(apperr.CodeDriverUnavailable, "driver is not available")
					}
					return nil
				},
				compensate: func(ctx context.Context) error {
					return s.drivers.Unassign(ctx, driverID)
				},
			},
		)
	}

	cause, compErr := runSaga(ctx, s.log, steps)
	if cause != nil {
		if compErr != nil {
			mi := &apperr.ManualInterventionError{
				CarBookingID:    booking.ID,
				CarID:           in.CarID,
				Cause:           cause,
				CompensationErr: compErr,
			}
			if hire != nil {
				mi.DriverBookingID = hire.ID
				mi.DriverID = hire.DriverID
			}
			s.log.Error("booking saga inconsistent", "err", mi)
			return nil, mi
		}
		s.log.Warn("booking saga rolled back", "order_id", in.OrderID, "err", cause)
		return nil, cause
	}

	return &Confirmed{Booking: booking, DriverBooking: hire}, nil
}

func (s *service) CreateDraft(ctx context.Context, userID int64, in DraftInput) (*model.CarBooking, error) {
	car, err := s.cars.GetByID(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	if car == nil {
		return nil, apperr.New(apperr.CodeNotFound, "car not found")
	}
	if !car.Available {
		return nil, apperr.New(apperr.CodeCarUnavailable, "car is not available")
	}

	quote, err := pricing.QuoteBooking(car, nil, in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	b := &model.CarBooking{
		UserID:          userID,
		CarID:           in.CarID,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		TotalDays:       quote.TotalDays,
		TotalPrice:      quote.CarCost.Major(),
		PickupLocation:  in.PickupLocation,
		DropoffLocation: in.DropoffLocation,
		InsuranceAmount: quote.Insurance.Major(),
		Status:          model.BookingPending,
		PaymentStatus:   model.PaymentPending,
	}
	if err := s.br.Insert(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
