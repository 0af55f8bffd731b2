package lifecyclesvc_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/PragyeNawani/wheelify/model"
	razorpayrepo "github.com/PragyeNawani/wheelify/repository/razorpay"
	lifecyclesvc "github.com/PragyeNawani/wheelify/service/lifecycle"
	"github.com/PragyeNawani/wheelify/util/apperr"
)

type bookingRepoMock struct {
	getFn    func(ctx context.Context, id int64) (*model.CarBooking, error)
	updateFn func(ctx context.Context, id int64, to model.BookingStatus, from ...model.BookingStatus) (bool, error)
	claimFn  func(ctx context.Context, id int64, refundAmount float64, damageReported bool, damageDescription string, damageAmount float64, at time.Time) (bool, error)
	revertFn func(ctx context.Context, id int64) error

	claimed  int
	reverted int
}

func (m *bookingRepoMock) GetByID(ctx context.Context, id int64) (*model.CarBooking, error) {
	return m.getFn(ctx, id)
}
func (m *bookingRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.CarBooking, error) {
	return nil, nil
}
func (m *bookingRepoMock) ListAll(ctx context.Context, status string) ([]model.CarBooking, error) {
	return nil, nil
}
func (m *bookingRepoMock) UpdateStatusIfIn(ctx context.Context, id int64, to model.BookingStatus, from ...model.BookingStatus) (bool, error) {
	if m.updateFn == nil {
		return true, nil
	}
	return m.updateFn(ctx, id, to, from...)
}
func (m *bookingRepoMock) ClaimInsuranceRefund(ctx context.Context, id int64, refundAmount float64, damageReported bool, damageDescription string, damageAmount float64, at time.Time) (bool, error) {
	m.claimed++
	if m.claimFn == nil {
		return true, nil
	}
	return m.claimFn(ctx, id, refundAmount, damageReported, damageDescription, damageAmount, at)
}
func (m *bookingRepoMock) RevertInsuranceRefund(ctx context.Context, id int64) error {
	m.reverted++
	if m.revertFn == nil {
		return nil
	}
	return m.revertFn(ctx, id)
}

type driverBookingRepoMock struct {
	findFn   func(ctx context.Context, carBookingID int64) (*model.DriverBooking, error)
	statuses []model.HireStatus
}

func (m *driverBookingRepoMock) FindByCarBookingID(ctx context.Context, carBookingID int64) (*model.DriverBooking, error) {
	if m.findFn == nil {
		return nil, nil
	}
	return m.findFn(ctx, carBookingID)
}
func (m *driverBookingRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.DriverBooking, error) {
	return nil, nil
}
func (m *driverBookingRepoMock) UpdateStatus(ctx context.Context, id int64, status model.HireStatus) error {
	m.statuses = append(m.statuses, status)
	return nil
}

type carRepoMock struct{ released int }

func (m *carRepoMock) Release(ctx context.Context, id int64) error {
	m.released++
	return nil
}

type driverRepoMock struct{ unassigned int }

func (m *driverRepoMock) Unassign(ctx context.Context, driverID int64) error {
	m.unassigned++
	return nil
}

type gatewayMock struct {
	refundFn func(ctx context.Context, paymentID string, amountPaise int64, notes map[string]string) (*razorpayrepo.Refund, error)
	refunds  int
}

var _ razorpayrepo.Repo = (*gatewayMock)(nil)

func (m *gatewayMock) CreateOrder(ctx context.Context, req razorpayrepo.CreateOrderReq) (*razorpayrepo.Order, error) {
	return nil, errors.New("not used")
}
func (m *gatewayMock) VerifySignature(orderID, paymentID, signature string) bool { return true }
func (m *gatewayMock) RefundPayment(ctx context.Context, paymentID string, amountPaise int64, notes map[string]string) (*razorpayrepo.Refund, error) {
	m.refunds++
	if m.refundFn == nil {
		return &razorpayrepo.Refund{RefundID: "rfnd_1", AmountPaise: amountPaise}, nil
	}
	return m.refundFn(ctx, paymentID, amountPaise, notes)
}
func (m *gatewayMock) KeyID() string { return "rzp_test_key" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(br *bookingRepoMock, dbr *driverBookingRepoMock, cars *carRepoMock, drivers *driverRepoMock, gw *gatewayMock) lifecyclesvc.Service {
	return lifecyclesvc.New(br, dbr, cars, drivers, gw, testLogger())
}

func confirmedBooking() *model.CarBooking {
	return &model.CarBooking{
		ID:                100,
		UserID:            7,
		CarID:             1,
		Status:            model.BookingConfirmed,
		PaymentStatus:     model.PaymentPaid,
		InsuranceAmount:   450,
		RazorpayPaymentID: "pay_1",
	}
}

// --- Detail / Cancel ---

func TestDetail_OwnerOnly(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return confirmedBooking(), nil
	}}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, &gatewayMock{})

	_, err := svc.Detail(context.Background(), 100, 7, "user")
	require.NoError(t, err)

	_, err = svc.Detail(context.Background(), 100, 8, "user")
	require.Equal(t, apperr.CodeForbidden, apperr.GetCode(err))

	_, err = svc.Detail(context.Background(), 100, 8, "admin")
	require.NoError(t, err)
}

func TestCancel_ConfirmedReleasesInventory(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return confirmedBooking(), nil
	}}
	dbr := &driverBookingRepoMock{findFn: func(ctx context.Context, carBookingID int64) (*model.DriverBooking, error) {
		return &model.DriverBooking{ID: 200, DriverID: 5}, nil
	}}
	cars := &carRepoMock{}
	drivers := &driverRepoMock{}
	svc := newService(br, dbr, cars, drivers, &gatewayMock{})

	require.NoError(t, svc.Cancel(context.Background(), 100, 7, "user"))
	require.Equal(t, 1, cars.released)
	require.Equal(t, 1, drivers.unassigned)
	require.Equal(t, []model.HireStatus{model.HireCancelled}, dbr.statuses)
}

func TestCancel_NotOwner(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return confirmedBooking(), nil
	}}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, &gatewayMock{})

	err := svc.Cancel(context.Background(), 100, 99, "user")
	require.Equal(t, apperr.CodeForbidden, apperr.GetCode(err))
}

func TestCancel_Completed(t *testing.T) {
	b := confirmedBooking()
	b.Status = model.BookingCompleted
	br := &bookingRepoMock{
		getFn:    func(ctx context.Context, id int64) (*model.CarBooking, error) { return b, nil },
		updateFn: func(ctx context.Context, id int64, to model.BookingStatus, from ...model.BookingStatus) (bool, error) { return false, nil },
	}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, &gatewayMock{})

	err := svc.Cancel(context.Background(), 100, 7, "user")
	require.Equal(t, apperr.CodeInvalidState, apperr.GetCode(err))
}

func TestComplete(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return confirmedBooking(), nil
	}}
	cars := &carRepoMock{}
	svc := newService(br, &driverBookingRepoMock{}, cars, &driverRepoMock{}, &gatewayMock{})

	b, err := svc.Complete(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, model.BookingCompleted, b.Status)
	require.Equal(t, 1, cars.released)
}

// --- RefundInsurance ---

func completedBooking() *model.CarBooking {
	b := confirmedBooking()
	b.Status = model.BookingCompleted
	return b
}

func TestRefundInsurance_NoDamage(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return completedBooking(), nil
	}}
	gw := &gatewayMock{refundFn: func(ctx context.Context, paymentID string, amountPaise int64, notes map[string]string) (*razorpayrepo.Refund, error) {
		require.Equal(t, "pay_1", paymentID)
		require.Equal(t, int64(45000), amountPaise)
		return &razorpayrepo.Refund{RefundID: "rfnd_1", AmountPaise: amountPaise}, nil
	}}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, gw)

	res, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{BookingID: 100})
	require.NoError(t, err)
	require.Equal(t, 450.0, res.RefundAmount)
	require.Equal(t, 1, gw.refunds)
}

func TestRefundInsurance_PartialDamage(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return completedBooking(), nil
	}}
	gw := &gatewayMock{}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, gw)

	res, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{
		BookingID: 100, DamageReported: true, DamageDescription: "scratched bumper", DamageAmount: 200,
	})
	require.NoError(t, err)
	require.Equal(t, 250.0, res.RefundAmount)
}

func TestRefundInsurance_DamageExceedsDeposit(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return completedBooking(), nil
	}}
	gw := &gatewayMock{}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, gw)

	res, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{
		BookingID: 100, DamageReported: true, DamageAmount: 1000,
	})
	require.NoError(t, err)
	require.Equal(t, 0.0, res.RefundAmount)
	// Nothing owed, so no gateway call.
	require.Zero(t, gw.refunds)
}

func TestRefundInsurance_NotCompleted(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return confirmedBooking(), nil
	}}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, &gatewayMock{})

	_, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{BookingID: 100})
	require.Equal(t, apperr.CodeInvalidState, apperr.GetCode(err))
}

func TestRefundInsurance_Twice(t *testing.T) {
	b := completedBooking()
	b.InsuranceRefunded = true
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) { return b, nil }}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, &gatewayMock{})

	_, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{BookingID: 100})
	require.Equal(t, apperr.CodeInvalidState, apperr.GetCode(err))
}

func TestRefundInsurance_LostClaimRace(t *testing.T) {
	br := &bookingRepoMock{
		getFn:   func(ctx context.Context, id int64) (*model.CarBooking, error) { return completedBooking(), nil },
		claimFn: func(ctx context.Context, id int64, refundAmount float64, damageReported bool, damageDescription string, damageAmount float64, at time.Time) (bool, error) { return false, nil },
	}
	gw := &gatewayMock{}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, gw)

	_, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{BookingID: 100})
	require.Equal(t, apperr.CodeInvalidState, apperr.GetCode(err))
	require.Zero(t, gw.refunds)
}

func TestRefundInsurance_GatewayFailureReverts(t *testing.T) {
	br := &bookingRepoMock{getFn: func(ctx context.Context, id int64) (*model.CarBooking, error) {
		return completedBooking(), nil
	}}
	gw := &gatewayMock{refundFn: func(ctx context.Context, paymentID string, amountPaise int64, notes map[string]string) (*razorpayrepo.Refund, error) {
		return nil, errors.New("refund rejected")
	}}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, gw)

	_, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{BookingID: 100})
	require.Equal(t, apperr.CodeGateway, apperr.GetCode(err))
	require.Equal(t, 1, br.reverted)
}

func TestRefundInsurance_RevertFailure(t *testing.T) {
	br := &bookingRepoMock{
		getFn:    func(ctx context.Context, id int64) (*model.CarBooking, error) { return completedBooking(), nil },
		revertFn: func(ctx context.Context, id int64) error { return errors.New("db down") },
	}
	gw := &gatewayMock{refundFn: func(ctx context.Context, paymentID string, amountPaise int64, notes map[string]string) (*razorpayrepo.Refund, error) {
		return nil, errors.New("refund rejected")
	}}
	svc := newService(br, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, gw)

	_, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{BookingID: 100})
	require.Equal(t, apperr.CodeManualIntervention, apperr.GetCode(err))
}

func TestRefundInsurance_NegativeDamage(t *testing.T) {
	svc := newService(&bookingRepoMock{}, &driverBookingRepoMock{}, &carRepoMock{}, &driverRepoMock{}, &gatewayMock{})
	_, err := svc.RefundInsurance(context.Background(), lifecyclesvc.RefundInput{BookingID: 100, DamageAmount: -1})
	require.Equal(t, apperr.CodeValidation, apperr.GetCode(err))
}
