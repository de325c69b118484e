package models

import "time"

// PropertyType classifies a listing. The multiplier tables in config are
// keyed on these values.
type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "apartment"
	PropertyTypeHouse      PropertyType = "house"
	PropertyTypeCommercial PropertyType = "commercial"
	PropertyTypeWarehouse  PropertyType = "warehouse"
	PropertyTypeLand       PropertyType = "land"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeApartment, PropertyTypeHouse, PropertyTypeCommercial,
		PropertyTypeWarehouse, PropertyTypeLand:
		return true
	}
	return false
}

// EnergyRating is the EU energy performance label, A (best) through G.
type EnergyRating string

const (
	EnergyRatingA EnergyRating = "A"
	EnergyRatingB EnergyRating = "B"
	EnergyRatingC EnergyRating = "C"
	EnergyRatingD EnergyRating = "D"
	EnergyRatingE EnergyRating = "E"
	EnergyRatingF EnergyRating = "F"
	EnergyRatingG EnergyRating = "G"
)

type Property struct {
	ID           int64         `json:"id"`
	Address      string        `json:"address"`
	City         string        `json:"city"`
	PropertyType PropertyType  `json:"property_type"`
	TotalArea    float64       `json:"total_area"`
	Bedrooms     *int          `json:"bedrooms"`
	Bathrooms    *int          `json:"bathrooms"`
	YearBuilt    *int          `json:"year_built"`
	Condition    *string       `json:"condition"`
	Features     []string      `json:"features"`
	ListingPrice *float64      `json:"listing_price"`
	RentPrice    *float64      `json:"rent_price"`
	EnergyRating *EnergyRating `json:"energy_rating"`
	Latitude     *float64      `json:"latitude"`
	Longitude    *float64      `json:"longitude"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Age returns the building age in whole years, or false when the
// construction year is unknown.
func (p Property) Age(now time.Time) (int, bool) {
	if p.YearBuilt == nil {
		return 0, false
	}
	age := now.Year() - *p.YearBuilt
	if age < 0 {
		age = 0
	}
	return age, true
}
