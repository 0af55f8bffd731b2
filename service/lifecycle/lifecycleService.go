// Package lifecyclesvc exposes read, status-transition and insurance-refund
// operations on bookings that already exist. Creation and payment
// verification live in the booking orchestrator.
package lifecyclesvc

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

const RoleAdmin = "admin"

type BookingRepo interface {
	GetByID(ctx context.Context, id int64) (*model.CarBooking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.CarBooking, error)
	ListAll(ctx context.Context, status string) ([]model.CarBooking, error)
	UpdateStatusIfIn(ctx context.Context, id int64, to model.BookingStatus, from ...model.BookingStatus) (bool, error)
	ClaimInsuranceRefund(ctx context.Context, id int64, refundAmount float64, damageReported bool, damageDescription string, damageAmount float64, at time.Time) (bool, error)
	RevertInsuranceRefund(ctx context.Context, id int64) error
}

type DriverBookingRepo interface {
	FindByCarBookingID(ctx context.Context, carBookingID int64) (*model.DriverBooking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.DriverBooking, error)
	UpdateStatus(ctx context.Context, id int64, status model.HireStatus) error
}

type CarRepo interface {
	Release(ctx context.Context, id int64) error
}

type DriverRepo interface {
	Unassign(ctx context.Context, driverID int64) error
}

type RefundInput struct {
	BookingID         int64
	DamageReported    bool
	DamageDescription string
	DamageAmount      float64
}

type RefundResult struct {
	OriginalAmount float64   `json:"original_amount"`
	DamageAmount   float64   `json:"damage_amount"`
	RefundAmount   float64   `json:"refund_amount"`
	RefundDate     time.Time `json:"refund_date"`
}

type Service interface {
	MyBookings(ctx context.Context, userID int64) ([]model.CarBooking, error)
	MyDriverBookings(ctx context.Context, userID int64) ([]model.DriverBooking, error)
	Detail(ctx context.Context, bookingID, requesterID int64, role string) (*model.CarBooking, error)
	ListAll(ctx context.Context, status string) ([]model.CarBooking, error)

	// Cancel is allowed for the owner or an admin while the booking is
	// pending or confirmed. Cancelling a confirmed booking frees the car
	// and any linked driver; the rental payment itself is not refunded.
	Cancel(ctx context.Context, bookingID, requesterID int64, role string) error

	// Complete marks a confirmed or active rental finished and frees the
	// inventory it held.
	Complete(ctx context.Context, bookingID int64) (*model.CarBooking, error)

	// RefundInsurance returns the security deposit after inspection,
	// minus any reported damage. Runs exactly once per booking.
	RefundInsurance(ctx context.Context, in RefundInput) (*RefundResult, error)
}

type service struct {
	br      BookingRepo
	dbr     DriverBookingRepo
	cars    CarRepo
	drivers DriverRepo
	gw      razorpayrepo.Repo
	log     *slog.Logger
}

func New(br BookingRepo, dbr DriverBookingRepo, cars CarRepo, drivers DriverRepo, gw razorpayrepo.Repo, log *slog.Logger) Service {
	return &service{br: br, dbr: dbr, cars: cars, drivers: drivers, gw: gw, log: log}
}

func (s *service) MyBookings(ctx context.Context, userID int64) ([]model.CarBooking, error) {
	return s.br.ListByUser(ctx, userID)
}

func (s *service) MyDriverBookings(ctx context.Context, userID int64) ([]model.DriverBooking, error) {
	return s.dbr.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context, status string) ([]model.CarBooking, error) {
	return s.br.ListAll(ctx, status)
}

func (s *service) Detail(ctx context.Context, bookingID, requesterID int64, role string) (*model.CarBooking, error) {
	b, err := s.br.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.New(apperr.CodeNotFound, "booking not found")
	}
	if b.UserID != requesterID && role != RoleAdmin {
		return nil, apperr.New(apperr.CodeForbidden, "not your booking")
	}
	return b, nil
}

func (s *service) Cancel(ctx context.Context, bookingID, requesterID int64, role string) error {
	b, err := s.br.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b == nil {
		return apperr.New(apperr.CodeNotFound, "booking not found")
	}
	if b.UserID != requesterID && role != RoleAdmin {
		return apperr.New(apperr.CodeForbidden, "not your booking")
	}

	ok, err := s.br.UpdateStatusIfIn(ctx, bookingID, model.BookingCancelled,
		model.BookingPending, model.BookingConfirmed)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Newf(apperr.CodeInvalidState, "booking cannot be cancelled while %s", b.Status)
	}

	if b.Status == model.BookingConfirmed {
		return s.releaseInventory(ctx, b, model.HireCancelled)
	}
	return nil
}

func (s *service) Complete(ctx context.Context, bookingID int64) (*model.CarBooking, error) {
	b, err := s.br.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.New(apperr.CodeNotFound, "booking not found")
	}

	ok, err := s.br.UpdateStatusIfIn(ctx, bookingID, model.BookingCompleted,
		model.BookingConfirmed, model.BookingActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Newf(apperr.CodeInvalidState, "booking cannot be completed while %s", b.Status)
	}

	if err := s.releaseInventory(ctx, b, model.HireCompleted); err != nil {
		return nil, err
	}
	b.Status = model.BookingCompleted
	return b, nil
}

// releaseInventory frees the car held by a booking and closes out the
// linked driver booking, if any.
func (s *service) releaseInventory(ctx context.Context, b *model.CarBooking, hireStatus model.HireStatus) error {
	if err := s.cars.Release(ctx, b.CarID); err != nil {
		return err
	}
	hire, err := s.dbr.FindByCarBookingID(ctx, b.ID)
	if err != nil {
		return err
	}
	if hire == nil {
		return nil
	}
	if err := s.dbr.UpdateStatus(ctx, hire.ID, hireStatus); err != nil {
		return err
	}
	return s.drivers.Unassign(ctx, hire.DriverID)
}

func (s *service) RefundInsurance(ctx context.Context, in RefundInput) (*RefundResult, error) {
	if in.DamageAmount < 0 {
		return nil, apperr.New(apperr.CodeValidation, "damage amount cannot be negative")
	}

	b, err := s.br.GetByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperr.New(apperr.CodeNotFound, "booking not found")
	}
	if b.Status != model.BookingCompleted {
		return nil, apperr.New(apperr.CodeInvalidState, "booking must be completed before insurance refund")
	}
	if b.InsuranceRefunded {
		return nil, apperr.New(apperr.CodeInvalidState, "insurance already refunded")
	}

	insurance := pricing.FromMajor(b.InsuranceAmount)
	refund := insurance
	if in.DamageReported && in.DamageAmount > 0 {
		refund = insurance - pricing.FromMajor(in.DamageAmount)
		if refund < 0 {
			refund = 0
		}
	}

	now := time.Now().UTC()
	ok, err := s.br.ClaimInsuranceRefund(ctx, in.BookingID, refund.Major(),
		in.DamageReported, in.DamageDescription, in.DamageAmount, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the claim to a concurrent refund.
		return nil, apperr.New(apperr.CodeInvalidState, "insurance already refunded")
	}

	if refund > 0 {
		_, err := s.gw.RefundPayment(ctx, b.RazorpayPaymentID, int64(refund), map[string]string{
			"reason":     "Insurance deposit refund",
			"booking_id": fmt.Sprintf("%d", b.ID),
		})
		if err != nil {
			if revertErr := s.br.RevertInsuranceRefund(context.WithoutCancel(ctx), in.BookingID); revertErr != nil {
				mi := &apperr.ManualInterventionError{
					CarBookingID:    b.ID,
					CarID:           b.CarID,
					Cause:           err,
					CompensationErr: revertErr,
				}
				s.log.Error("insurance refund inconsistent", "err", mi)
				return nil, mi
			}
			return nil, apperr.Wrap(apperr.CodeGateway, "gateway refund", err)
		}
	}

	s.log.Info("insurance refund processed",
		"booking_id", b.ID,
		"original", b.InsuranceAmount,
		"damage", in.DamageAmount,
		"refund", refund.Major(),
	)

	return &RefundResult{
		OriginalAmount: b.InsuranceAmount,
		DamageAmount:   in.DamageAmount,
		RefundAmount:   refund.Major(),
		RefundDate:     now,
	}, nil
}
