package model

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingActive    BookingStatus = "active"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// CarBooking is a reservation of one car for a date range by one user.
// Status tracks the rental lifecycle; PaymentStatus tracks money movement
// independently.
type CarBooking struct {
	ID     int64 `json:"id"`
	UserID int64 `json:"user_id"`
	CarID  int64 `json:"car_id"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	TotalDays int       `json:"total_days"`

	TotalPrice      float64 `json:"total_price"`
	PickupLocation  string  `json:"pickup_location"`
	DropoffLocation string  `json:"dropoff_location"`

	InsuranceAmount       float64    `json:"insurance_amount"`
	InsuranceAccepted     bool       `json:"insurance_accepted"`
	InsuranceRefunded     bool       `json:"insurance_refunded"`
	InsuranceRefundDate   *time.Time `json:"insurance_refund_date,omitempty"`
	InsuranceRefundAmount float64    `json:"insurance_refund_amount"`
	DamageReported        bool       `json:"damage_reported"`
	DamageDescription     string     `json:"damage_description,omitempty"`
	DamageAmount          float64    `json:"damage_amount"`

	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`

	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
