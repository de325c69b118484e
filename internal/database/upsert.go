package database

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"brixel/server/internal/models"
)

// UpsertSales writes a batch of sale records inside the caller's transaction.
// Records are identified by (address, sold_date); re-ingesting a feed updates
// the existing rows instead of duplicating them.
func UpsertSales(tx *gorm.DB, batch []*models.SaleRecord) error {
	if len(batch) == 0 {
		return nil
	}

	for _, s := range batch {
		// Dates are stored at UTC midnight so sqlite's date functions and
		// lexical comparisons behave the same for both write paths.
		s.SoldDate = truncateToDay(s.SoldDate)
		if s.ListingDate != nil {
			d := truncateToDay(*s.ListingDate)
			s.ListingDate = &d
		}
		if s.CreatedAt.IsZero() {
			s.CreatedAt = time.Now().UTC()
		}
	}

	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "address"}, {Name: "sold_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"sold_price", "listing_date", "area", "bedrooms", "bathrooms",
			"year_built", "latitude", "longitude",
		}),
	}).Create(batch).Error
	if err != nil {
		return fmt.Errorf("failed to upsert %d sale records: %w", len(batch), err)
	}
	return nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// InsertProperty stores a marketplace listing and returns its id. Used by the
// seeder and by tests; listing CRUD proper lives elsewhere in the platform.
func (d *Database) InsertProperty(p *models.Property) error {
	query := `
        INSERT INTO properties (
            address, city, property_type, total_area, bedrooms, bathrooms,
            year_built, condition, features, listing_price, rent_price,
            energy_rating, latitude, longitude
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `

	var features interface{}
	if len(p.Features) > 0 {
		features = strings.Join(p.Features, ",")
	}

	var energyRating interface{}
	if p.EnergyRating != nil {
		energyRating = string(*p.EnergyRating)
	}

	res, err := d.db.Exec(query,
		p.Address, p.City, string(p.PropertyType), p.TotalArea,
		p.Bedrooms, p.Bathrooms, p.YearBuilt, p.Condition, features,
		p.ListingPrice, p.RentPrice, energyRating, p.Latitude, p.Longitude,
	)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}
