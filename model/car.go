package model

import "time"

type CarCategory string

const (
	CategorySedan     CarCategory = "sedan"
	CategorySUV       CarCategory = "suv"
	CategoryHatchback CarCategory = "hatchback"
	CategoryLuxury    CarCategory = "luxury"
	CategorySports    CarCategory = "sports"
)

type Car struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Brand        string      `json:"brand"`
	Model        string      `json:"model"`
	Year         int         `json:"year"`
	PricePerDay  float64     `json:"price_per_day"`
	Category     CarCategory `json:"category"`
	Transmission string      `json:"transmission"` // manual | automatic
	FuelType     string      `json:"fuel_type"`    // petrol | diesel | electric | hybrid
	Seats        int         `json:"seats"`
	Images       []string    `json:"images"`
	Features     []string    `json:"features"`
	Location     string      `json:"location"`
	Description  string      `json:"description,omitempty"`
	Available    bool        `json:"available"`
	CreatedAt    time.Time   `json:"created_at"`
}
