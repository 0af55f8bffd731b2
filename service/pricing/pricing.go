// Package pricing computes rental costs. All arithmetic runs on integer
// paise to keep money fields drift-free; conversions round half-up.
package pricing

import (
	"time"

	"github.com/PragyeNawani/wheelify/model"
	"github.com/PragyeNawani/wheelify/util/apperr"
)

// Paise is a money amount in minor currency units (INR × 100).
type Paise int64

// InsuranceRatePercent is the refundable security-deposit rate applied to
// the booking subtotal.
const InsuranceRatePercent = 10

// FromMajor converts a major-unit amount (rupees) to paise, rounding
// half-up.
func FromMajor(v float64) Paise {
	if v < 0 {
		return -FromMajor(-v)
	}
	return Paise(v*100 + 0.5)
}

// Major converts paise back to a major-unit amount with exactly two
// decimals of precision.
func (p Paise) Major() float64 { return float64(p) / 100 }

// divRoundHalfUp divides n by d rounding half away from zero. d > 0.
func divRoundHalfUp(n Paise, d int64) Paise {
	if n < 0 {
		return -divRoundHalfUp(-n, d)
	}
	return Paise((int64(n)*2 + d) / (2 * d))
}

// TotalDays returns ceil((end - start) / 1 day).
func TotalDays(start, end time.Time) int {
	d := end.Sub(start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// CarCost computes the day count and car rental cost for a date range.
// A non-positive day count is a validation failure.
func CarCost(pricePerDay float64, start, end time.Time) (int, Paise, error) {
	days := TotalDays(start, end)
	if days <= 0 {
		return 0, 0, apperr.New(apperr.CodeValidation, "end date must be after start date")
	}
	return days, Paise(int64(days)) * FromMajor(pricePerDay), nil
}

// DriverCost computes the driver hire cost for totalDays at the driver's
// salary and payment frequency. Weekly rates divide by 7, monthly by 30
// (the 30-day month is a documented approximation, not calendar-accurate).
func DriverCost(salaryAmount float64, freq model.PaymentFrequency, totalDays int) (Paise, error) {
	if totalDays <= 0 {
		return 0, apperr.New(apperr.CodeValidation, "total days must be positive")
	}
	base := FromMajor(salaryAmount) * Paise(int64(totalDays))
	switch freq {
	case model.FrequencyDaily:
		return base, nil
	case model.FrequencyWeekly:
		return divRoundHalfUp(base, 7), nil
	case model.FrequencyMonthly:
		return divRoundHalfUp(base, 30), nil
	default:
		return 0, apperr.Newf(apperr.CodeValidation, "unknown payment frequency %q", freq)
	}
}

// Insurance computes the deposit on a subtotal (car cost + driver cost).
func Insurance(subtotal Paise) Paise {
	return divRoundHalfUp(subtotal*InsuranceRatePercent, 100)
}

// Total sums the booking legs.
func Total(carCost, driverCost, insurance Paise) Paise {
	return carCost + driverCost + insurance
}

// Quote is a fully derived price breakdown for a booking.
type Quote struct {
	TotalDays  int
	CarCost    Paise
	DriverCost Paise
	Insurance  Paise
	Total      Paise
}

// QuoteBooking prices a car rental over [start, end) with an optional
// driver.
func QuoteBooking(car *model.Car, driver *model.Driver, start, end time.Time) (*Quote, error) {
	days, carCost, err := CarCost(car.PricePerDay, start, end)
	if err != nil {
		return nil, err
	}
	var driverCost Paise
	if driver != nil {
		driverCost, err = DriverCost(driver.SalaryAmount, driver.PaymentFrequency, days)
		if err != nil {
			return nil, err
		}
	}
	ins := Insurance(carCost + driverCost)
	return &Quote{
		TotalDays:  days,
		CarCost:    carCost,
		DriverCost: driverCost,
		Insurance:  ins,
		Total:      Total(carCost, driverCost, ins),
	}, nil
}
