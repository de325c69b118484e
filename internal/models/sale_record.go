package models

import "time"

// SaleRecord is a raw observed transaction as stored in the comparable_sales
// table and as ingested from market-data feeds. Providers turn records into
// ComparableSale evidence by computing distance and adjustments against a
// subject property.
type SaleRecord struct {
	ID           int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Address      string       `json:"address" gorm:"uniqueIndex:idx_sale_identity"`
	City         string       `json:"city" gorm:"index"`
	PropertyType PropertyType `json:"property_type"`
	SoldPrice    float64      `json:"sold_price"`
	SoldDate     time.Time    `json:"sold_date" gorm:"uniqueIndex:idx_sale_identity"`
	ListingDate  *time.Time   `json:"listing_date"`
	Area         float64      `json:"area"`
	Bedrooms     *int         `json:"bedrooms"`
	Bathrooms    *int         `json:"bathrooms"`
	YearBuilt    *int         `json:"year_built"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (SaleRecord) TableName() string {
	return "comparable_sales"
}
