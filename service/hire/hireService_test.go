package hiresvc_test

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
	hiresvc "github.com/PragyeNawani/wheelify/service/hire"
	"github.com/PragyeNawani/wheelify/util/apperr"
)

type driverRepoMock struct {
	getFn      func(ctx context.Context, id int64) (*model.Driver, error)
	assignFn   func(ctx context.Context, driverID int64, carID *int64) (bool, error)
	unassignFn func(ctx context.Context, driverID int64) error

	assigned int
}

func (m *driverRepoMock) GetByID(ctx context.Context, id int64) (*model.Driver, error) {
	return m.getFn(ctx, id)
}
func (m *driverRepoMock) AssignIfAvailable(ctx context.Context, driverID int64, carID *int64) (bool, error) {
	m.assigned++
	if m.assignFn == nil {
		return true, nil
	}
	return m.assignFn(ctx, driverID, carID)
}
func (m *driverRepoMock) Unassign(ctx context.Context, driverID int64) error {
	if m.unassignFn == nil {
		return nil
	}
	return m.unassignFn(ctx, driverID)
}

type hireRepoMock struct {
	insertFn  func(ctx context.Context, b *model.DriverBooking) error
	deleteFn  func(ctx context.Context, id int64) error
	findFn    func(ctx context.Context, orderID string) (*model.DriverBooking, error)
	overlapFn func(ctx context.Context, driverID int64, start, end time.Time) (bool, error)

	inserted int
	deleted  int
}

func (m *hireRepoMock) Insert(ctx context.Context, b *model.DriverBooking) error {
	m.inserted++
	if m.insertFn == nil {
		b.ID = 200
		return nil
	}
	return m.insertFn(ctx, b)
}
func (m *hireRepoMock) DeleteByID(ctx context.Context, id int64) error {
	m.deleted++
	if m.deleteFn == nil {
		return nil
	}
	return m.deleteFn(ctx, id)
}
func (m *hireRepoMock) FindByOrderID(ctx context.Context, orderID string) (*model.DriverBooking, error) {
	if m.findFn == nil {
		return nil, nil
	}
	return m.findFn(ctx, orderID)
}
func (m *hireRepoMock) HasOverlap(ctx context.Context, driverID int64, start, end time.Time) (bool, error) {
	if m.overlapFn == nil {
		return false, nil
	}
	return m.overlapFn(ctx, driverID, start, end)
}

type gatewayMock struct {
	verifyFn func(orderID, paymentID, signature string) bool
}

var _ razorpayrepo.Repo = (*gatewayMock)(nil)

func (m *gatewayMock) CreateOrder(ctx context.Context, req razorpayrepo.CreateOrderReq) (*razorpayrepo.Order, error) {
	return &razorpayrepo.Order{OrderID: "order_1", AmountPaise: req.AmountPaise, Currency: req.Currency}, nil
}
func (m *gatewayMock) VerifySignature(orderID, paymentID, signature string) bool {
	if m.verifyFn == nil {
		return true
	}
	return m.verifyFn(orderID, paymentID, signature)
}
func (m *gatewayMock) RefundPayment(ctx context.Context, paymentID string, amountPaise int64, notes map[string]string) (*razorpayrepo.Refund, error) {
	return nil, errors.New("not used")
}
func (m *gatewayMock) KeyID() string { return "rzp_test_key" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func monthlyDriver() *model.Driver {
	return &model.Driver{ID: 5, Name: "Ravi", SalaryAmount: 3000, PaymentFrequency: model.FrequencyMonthly, Status: model.DriverActive}
}

func weekPeriod() hiresvc.Period {
	return hiresvc.Period{
		StartDate:    time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Duration:     2,
		DurationType: "weeks",
	}
}

func TestCreateOrder_WeeklyPricing(t *testing.T) {
	drivers := &driverRepoMock{getFn: func(ctx context.Context, id int64) (*model.Driver, error) { return monthlyDriver(), nil }}
	svc := hiresvc.New(drivers, &hireRepoMock{}, &gatewayMock{}, testLogger())

	order, err := svc.CreateOrder(context.Background(), 7, hiresvc.OrderInput{DriverID: 5, Period: weekPeriod()})
	require.NoError(t, err)
	// 3000/month -> 100/day -> 14 days = 1400.
	require.Equal(t, 14, order.TotalDays)
	require.Equal(t, 1400.0, order.Total)
	require.Equal(t, int64(140000), order.AmountPaise)
}

func TestCreateOrder_BadDurationType(t *testing.T) {
	drivers := &driverRepoMock{getFn: func(ctx context.Context, id int64) (*model.Driver, error) { return monthlyDriver(), nil }}
	svc := hiresvc.New(drivers, &hireRepoMock{}, &gatewayMock{}, testLogger())

	p := weekPeriod()
	p.DurationType = "fortnights"
	_, err := svc.CreateOrder(context.Background(), 7, hiresvc.OrderInput{DriverID: 5, Period: p})
	require.Equal(t, apperr.CodeValidation, apperr.GetCode(err))
}

func TestCreateOrder_DriverBusy(t *testing.T) {
	busy := monthlyDriver()
	carID := int64(3)
	busy.AssignedCarID = &carID
	drivers := &driverRepoMock{getFn: func(ctx context.Context, id int64) (*model.Driver, error) { return busy, nil }}
	svc := hiresvc.New(drivers, &hireRepoMock{}, &gatewayMock{}, testLogger())

	_, err := svc.CreateOrder(context.Background(), 7, hiresvc.OrderInput{DriverID: 5, Period: weekPeriod()})
	require.Equal(t, apperr.CodeDriverUnavailable, apperr.GetCode(err))
}

func confirmInput() hiresvc.ConfirmInput {
	return hiresvc.ConfirmInput{
		OrderID:       "order_1",
		PaymentID:     "pay_1",
		Signature:     "sig",
		DriverID:      5,
		Period:        weekPeriod(),
		CustomerName:  "Asha",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9999999999",
	}
}

func TestVerifyAndConfirm_Success(t *testing.T) {
	drivers := &driverRepoMock{getFn: func(ctx context.Context, id int64) (*model.Driver, error) { return monthlyDriver(), nil }}
	hr := &hireRepoMock{}
	svc := hiresvc.New(drivers, hr, &gatewayMock{}, testLogger())

	hire, err := svc.VerifyAndConfirm(context.Background(), 7, confirmInput())
	require.NoError(t, err)
	require.Equal(t, model.HireConfirmed, hire.BookingStatus)
	require.Equal(t, model.HirePaymentCompleted, hire.PaymentStatus)
	require.Equal(t, "2 weeks", hire.Duration)
	require.Equal(t, 1400.0, hire.TotalAmount)
	require.Nil(t, hire.CarBookingID)
	require.Equal(t, 1, drivers.assigned)
}

func TestVerifyAndConfirm_TamperedSignature(t *testing.T) {
	hr := &hireRepoMock{}
	gw := &gatewayMock{verifyFn: func(orderID, paymentID, signature string) bool { return false }}
	svc := hiresvc.New(&driverRepoMock{}, hr, gw, testLogger())

	_, err := svc.VerifyAndConfirm(context.Background(), 7, confirmInput())
	require.Equal(t, apperr.CodeInvalidSignature, apperr.GetCode(err))
	require.Zero(t, hr.inserted)
}

func TestVerifyAndConfirm_Idempotent(t *testing.T) {
	existing := &model.DriverBooking{ID: 200, DriverID: 5, PaymentStatus: model.HirePaymentCompleted}
	hr := &hireRepoMock{findFn: func(ctx context.Context, orderID string) (*model.DriverBooking, error) { return existing, nil }}
	drivers := &driverRepoMock{}
	svc := hiresvc.New(drivers, hr, &gatewayMock{}, testLogger())

	hire, err := svc.VerifyAndConfirm(context.Background(), 7, confirmInput())
	require.NoError(t, err)
	require.Same(t, existing, hire)
	require.Zero(t, hr.inserted)
	require.Zero(t, drivers.assigned)
}

func TestVerifyAndConfirm_AssignLostRace(t *testing.T) {
	drivers := &driverRepoMock{
		getFn:    func(ctx context.Context, id int64) (*model.Driver, error) { return monthlyDriver(), nil },
		assignFn: func(ctx context.Context, driverID int64, carID *int64) (bool, error) { return false, nil },
	}
	hr := &hireRepoMock{}
	svc := hiresvc.New(drivers, hr, &gatewayMock{}, testLogger())

	_, err := svc.VerifyAndConfirm(context.Background(), 7, confirmInput())
	require.Equal(t, apperr.CodeDriverUnavailable, apperr.GetCode(err))
	// The hire row written before the assignment is rolled back.
	require.Equal(t, 1, hr.deleted)
}

func TestVerifyAndConfirm_RollbackFailure(t *testing.T) {
	drivers := &driverRepoMock{
		getFn:    func(ctx context.Context, id int64) (*model.Driver, error) { return monthlyDriver(), nil },
		assignFn: func(ctx context.Context, driverID int64, carID *int64) (bool, error) { return false, nil },
	}
	hr := &hireRepoMock{deleteFn: func(ctx context.Context, id int64) error { return errors.New("db down") }}
	svc := hiresvc.New(drivers, hr, &gatewayMock{}, testLogger())

	_, err := svc.VerifyAndConfirm(context.Background(), 7, confirmInput())
	require.Equal(t, apperr.CodeManualIntervention, apperr.GetCode(err))
}
