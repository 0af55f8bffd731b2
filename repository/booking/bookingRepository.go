package bookingrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/PragyeNawani/wheelify/model"
)

type Repo interface {
	// Insert persists a booking in whatever status/payment state the
	// caller set, filling ID and timestamps.
	Insert(ctx context.Context, b *model.CarBooking) error
	DeleteByID(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (*model.CarBooking, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.CarBooking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.CarBooking, error)
	ListAll(ctx context.Context, status string) ([]model.CarBooking, error)

	// UpdateStatusIfIn transitions Status only from one of the given
	// states; the bool reports whether the row changed.
	UpdateStatusIfIn(ctx context.Context, id int64, to model.BookingStatus, from ...model.BookingStatus) (bool, error)
	MarkPaymentFailedByOrderID(ctx context.Context, orderID string) error

	// ClaimInsuranceRefund flips insurance_refunded exactly once for a
	// completed booking, recording the refund breakdown.
	ClaimInsuranceRefund(ctx context.Context, id int64, refundAmount float64, damageReported bool, damageDescription string, damageAmount float64, at time.Time) (bool, error)
	RevertInsuranceRefund(ctx context.Context, id int64) error

	// ExpirePending cancels pending drafts created before the cutoff,
	// returning how many were released.
	ExpirePending(ctx context.Context, createdBefore time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const bookingCols = `id, user_id, car_id, start_date, end_date, total_days, total_price,
	pickup_location, dropoff_location, insurance_amount, insurance_accepted,
	insurance_refunded, insurance_refund_date, insurance_refund_amount,
	damage_reported, damage_description, damage_amount, status, payment_status,
	razorpay_order_id, razorpay_payment_id, razorpay_signature, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*model.CarBooking, error) {
	var (
		b                   model.CarBooking
		orderID, payID, sig sql.NullString
	)
	err := row.Scan(
		&b.ID, &b.UserID, &b.CarID, &b.StartDate, &b.EndDate, &b.TotalDays, &b.TotalPrice,
		&b.PickupLocation, &b.DropoffLocation, &b.InsuranceAmount, &b.InsuranceAccepted,
		&b.InsuranceRefunded, &b.InsuranceRefundDate, &b.InsuranceRefundAmount,
		&b.DamageReported, &b.DamageDescription, &b.DamageAmount, &b.Status, &b.PaymentStatus,
		&orderID, &payID, &sig, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.RazorpayOrderID = orderID.String
	b.RazorpayPaymentID = payID.String
	b.RazorpaySignature = sig.String
	return &b, nil
}

func (r *repo) Insert(ctx context.Context, b *model.CarBooking) error {
	const q = `
		INSERT INTO car_bookings (user_id, car_id, start_date, end_date, total_days,
			total_price, pickup_location, dropoff_location, insurance_amount,
			insurance_accepted, status, payment_status,
			razorpay_order_id, razorpay_payment_id, razorpay_signature)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,
			NULLIF($13,''), NULLIF($14,''), NULLIF($15,''))
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		b.UserID, b.CarID, b.StartDate, b.EndDate, b.TotalDays,
		b.TotalPrice, b.PickupLocation, b.DropoffLocation, b.InsuranceAmount,
		b.InsuranceAccepted, b.Status, b.PaymentStatus,
		b.RazorpayOrderID, b.RazorpayPaymentID, b.RazorpaySignature,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM car_bookings WHERE id = $1`, id)
	return err
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.CarBooking, error) {
	const q = `
		SELECT ` + bookingCols + `
		FROM car_bookings
		WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *repo) FindByOrderID(ctx context.Context, orderID string) (*model.CarBooking, error) {
	const q = `
		SELECT ` + bookingCols + `
		FROM car_bookings
		WHERE razorpay_order_id = $1
		ORDER BY id
		LIMIT 1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.CarBooking, error) {
	const q = `
		SELECT ` + bookingCols + `
		FROM car_bookings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, userID)
}

func (r *repo) ListAll(ctx context.Context, status string) ([]model.CarBooking, error) {
	const q = `
		SELECT ` + bookingCols + `
		FROM car_bookings
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC, id DESC`
	return r.list(ctx, q, status)
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.CarBooking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CarBooking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repo) UpdateStatusIfIn(ctx context.Context, id int64, to model.BookingStatus, from ...model.BookingStatus) (bool, error) {
	const q = `
		UPDATE car_bookings
		SET status = $2,
			updated_at = NOW()
		WHERE id = $1
		  AND status = ANY($3)`
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	res, err := r.db.ExecContext(ctx, q, id, to, states)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (r *repo) MarkPaymentFailedByOrderID(ctx context.Context, orderID string) error {
	const q = `
		UPDATE car_bookings
		SET payment_status = 'failed',
			updated_at = NOW()
		WHERE razorpay_order_id = $1
		  AND payment_status = 'pending'`
	_, err := r.db.ExecContext(ctx, q, orderID)
	return err
}

func (r *repo) ClaimInsuranceRefund(ctx context.Context, id int64, refundAmount float64, damageReported bool, damageDescription string, damageAmount float64, at time.Time) (bool, error) {
	const q = `
		UPDATE car_bookings
		SET insurance_refunded = true,
			insurance_refund_date = $2,
			insurance_refund_amount = $3,
			damage_reported = $4,
			damage_description = $5,
			damage_amount = $6,
			updated_at = NOW()
		WHERE id = $1
		  AND status = 'completed'
		  AND insurance_refunded = false`
	res, err := r.db.ExecContext(ctx, q, id, at, refundAmount, damageReported, damageDescription, damageAmount)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (r *repo) RevertInsuranceRefund(ctx context.Context, id int64) error {
	const q = `
		UPDATE car_bookings
		SET insurance_refunded = false,
			insurance_refund_date = NULL,
			insurance_refund_amount = 0,
			updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

func (r *repo) ExpirePending(ctx context.Context, createdBefore time.Time) (int64, error) {
	const q = `
		UPDATE car_bookings
		SET status = 'cancelled',
			updated_at = NOW()
		WHERE status = 'pending'
		  AND payment_status = 'pending'
		  AND created_at < $1`
	res, err := r.db.ExecContext(ctx, q, createdBefore)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
