package driverbookingrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/PragyeNawani/wheelify/model"
)

type Repo interface {
	Insert(ctx context.Context, b *model.DriverBooking) error
	DeleteByID(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (*model.DriverBooking, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.DriverBooking, error)
	FindByCarBookingID(ctx context.Context, carBookingID int64) (*model.DriverBooking, error)
	ListByUser(ctx context.Context, userID int64) ([]model.DriverBooking, error)

	UpdateStatus(ctx context.Context, id int64, status model.HireStatus) error

	// HasOverlap reports whether the driver already holds a confirmed or
	// active booking intersecting [start, end).
	HasOverlap(ctx context.Context, driverID int64, start, end time.Time) (bool, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

const hireCols = `id, driver_id, user_id, car_booking_id, car_id, customer_name,
	customer_email, customer_phone, start_date, end_date, duration,
	special_requirements, total_amount, razorpay_order_id, razorpay_payment_id,
	razorpay_signature, payment_status, booking_status, created_at, updated_at`

func scanHire(row interface{ Scan(...any) error }) (*model.DriverBooking, error) {
	var (
		b                   model.DriverBooking
		orderID, payID, sig sql.NullString
	)
	err := row.Scan(
		&b.ID, &b.DriverID, &b.UserID, &b.CarBookingID, &b.CarID, &b.CustomerName,
		&b.CustomerEmail, &b.CustomerPhone, &b.StartDate, &b.EndDate, &b.Duration,
		&b.SpecialRequirements, &b.TotalAmount, &orderID, &payID,
		&sig, &b.PaymentStatus, &b.BookingStatus, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.RazorpayOrderID = orderID.String
	b.RazorpayPaymentID = payID.String
	b.RazorpaySignature = sig.String
	return &b, nil
}

func (r *repo) Insert(ctx context.Context, b *model.DriverBooking) error {
	const q = `
		INSERT INTO driver_bookings (driver_id, user_id, car_booking_id, car_id,
			customer_name, customer_email, customer_phone, start_date, end_date,
			duration, special_requirements, total_amount,
			razorpay_order_id, razorpay_payment_id, razorpay_signature,
			payment_status, booking_status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,
			NULLIF($13,''), NULLIF($14,''), NULLIF($15,''), $16, $17)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		b.DriverID, b.UserID, b.CarBookingID, b.CarID,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.StartDate, b.EndDate,
		b.Duration, b.SpecialRequirements, b.TotalAmount,
		b.RazorpayOrderID, b.RazorpayPaymentID, b.RazorpaySignature,
		b.PaymentStatus, b.BookingStatus,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM driver_bookings WHERE id = $1`, id)
	return err
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.DriverBooking, error) {
	const q = `
		SELECT ` + hireCols + `
		FROM driver_bookings
		WHERE id = $1`
	b, err := scanHire(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *repo) FindByOrderID(ctx context.Context, orderID string) (*model.DriverBooking, error) {
	const q = `
		SELECT ` + hireCols + `
		FROM driver_bookings
		WHERE razorpay_order_id = $1
		ORDER BY id
		LIMIT 1`
	b, err := scanHire(r.db.QueryRowContext(ctx, q, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *repo) FindByCarBookingID(ctx context.Context, carBookingID int64) (*model.DriverBooking, error) {
	const q = `
		SELECT ` + hireCols + `
		FROM driver_bookings
		WHERE car_booking_id = $1
		ORDER BY id
		LIMIT 1`
	b, err := scanHire(r.db.QueryRowContext(ctx, q, carBookingID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return b, err
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]model.DriverBooking, error) {
	const q = `
		SELECT ` + hireCols + `
		FROM driver_bookings
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DriverBooking
	for rows.Next() {
		b, err := scanHire(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *repo) UpdateStatus(ctx context.Context, id int64, status model.HireStatus) error {
	const q = `
		UPDATE driver_bookings
		SET booking_status = $2,
			updated_at = NOW()
		WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id, status)
	return err
}

func (r *repo) HasOverlap(ctx context.Context, driverID int64, start, end time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1
			FROM driver_bookings
			WHERE driver_id = $1
			  AND booking_status IN ('confirmed', 'active')
			  AND start_date < $3
			  AND end_date > $2
		)`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, driverID, start, end).Scan(&exists)
	return exists, err
}
