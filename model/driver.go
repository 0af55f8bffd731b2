package model

import "time"

type DriverStatus string

const (
	DriverActive   DriverStatus = "active"
	DriverInactive DriverStatus = "inactive"
	DriverOnLeave  DriverStatus = "on-leave"
)

type PaymentFrequency string

const (
	FrequencyDaily   PaymentFrequency = "daily"
	FrequencyWeekly  PaymentFrequency = "weekly"
	FrequencyMonthly PaymentFrequency = "monthly"
)

type Driver struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Email         string       `json:"email"`
	ContactNumber string       `json:"contact_number"`

	LicenceNumber string     `json:"licence_number"`
	LicenceType   string     `json:"licence_type"`
	LicenceIssue  time.Time  `json:"licence_issue_date"`
	LicenceExpiry time.Time  `json:"licence_expiry_date"`

	SalaryAmount     float64          `json:"salary_amount"`
	SalaryCurrency   string           `json:"salary_currency"`
	PaymentFrequency PaymentFrequency `json:"payment_frequency"`

	AssignedCarID *int64       `json:"assigned_car_id,omitempty"`
	Status        DriverStatus `json:"status"`
	Experience    int          `json:"experience"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Available reports whether the driver can take a new assignment right now.
// Date-range overlap against existing driver bookings is checked separately.
func (d *Driver) Available() bool {
	return d.Status == DriverActive && d.AssignedCarID == nil
}

func (d *Driver) LicenceValid(at time.Time) bool {
	return d.LicenceExpiry.After(at)
}
