package model

import "time"

type HireStatus string

const (
	HireConfirmed HireStatus = "confirmed"
	HireActive    HireStatus = "active"
	HireCompleted HireStatus = "completed"
	HireCancelled HireStatus = "cancelled"
)

type HirePaymentStatus string

const (
	HirePaymentPending   HirePaymentStatus = "pending"
	HirePaymentCompleted HirePaymentStatus = "completed"
	HirePaymentFailed    HirePaymentStatus = "failed"
	HirePaymentRefunded  HirePaymentStatus = "refunded"
)

// DriverBooking is a reservation of one driver's time. CarBookingID links it
// to the car booking that caused the hire; it stays nil for standalone hires.
// Customer contact fields are captured at hire time and may differ from the
// account holder.
type DriverBooking struct {
	ID           int64  `json:"id"`
	DriverID     int64  `json:"driver_id"`
	UserID       int64  `json:"user_id"`
	CarBookingID *int64 `json:"car_booking_id,omitempty"`
	CarID        *int64 `json:"car_id,omitempty"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Duration  string    `json:"duration"` // human readable, e.g. "3 days"

	SpecialRequirements string  `json:"special_requirements,omitempty"`
	TotalAmount         float64 `json:"total_amount"`

	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `json:"-"`

	PaymentStatus HirePaymentStatus `json:"payment_status"`
	BookingStatus HireStatus        `json:"booking_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
