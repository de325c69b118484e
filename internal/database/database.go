package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"brixel/server/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) GetProperty(id int64) (*models.Property, error) {
	query := `
        SELECT id, address, city, property_type, total_area,
               bedrooms, bathrooms, year_built, condition, features,
               listing_price, rent_price, energy_rating,
               latitude, longitude,
               COALESCE(created_at, CURRENT_TIMESTAMP) as created_at
        FROM properties
        WHERE id = ?
    `

	var p models.Property
	var propertyType string
	var bedrooms, bathrooms, yearBuilt sql.NullInt64
	var condition, features, energyRating sql.NullString
	var listingPrice, rentPrice, latitude, longitude sql.NullFloat64
	var createdAt sql.NullTime

	err := d.db.QueryRow(query, id).Scan(
		&p.ID,
		&p.Address,
		&p.City,
		&propertyType,
		&p.TotalArea,
		&bedrooms,
		&bathrooms,
		&yearBuilt,
		&condition,
		&features,
		&listingPrice,
		&rentPrice,
		&energyRating,
		&latitude,
		&longitude,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.PropertyType = models.PropertyType(propertyType)

	if bedrooms.Valid {
		v := int(bedrooms.Int64)
		p.Bedrooms = &v
	}
	if bathrooms.Valid {
		v := int(bathrooms.Int64)
		p.Bathrooms = &v
	}
	if yearBuilt.Valid {
		v := int(yearBuilt.Int64)
		p.YearBuilt = &v
	}
	if condition.Valid && condition.String != "" {
		p.Condition = &condition.String
	}
	if features.Valid && features.String != "" {
		p.Features = strings.Split(features.String, ",")
	}
	if listingPrice.Valid {
		p.ListingPrice = &listingPrice.Float64
	}
	if rentPrice.Valid {
		p.RentPrice = &rentPrice.Float64
	}
	if energyRating.Valid && energyRating.String != "" {
		r := models.EnergyRating(energyRating.String)
		p.EnergyRating = &r
	}
	if latitude.Valid {
		p.Latitude = &latitude.Float64
	}
	if longitude.Valid {
		p.Longitude = &longitude.Float64
	}
	if createdAt.Valid {
		p.CreatedAt = createdAt.Time
	}

	return &p, nil
}

// GetComparableSales returns sold transactions in a city for one property
// type, newest first. Sales older than the cutoff are excluded.
func (d *Database) GetComparableSales(city string, propertyType models.PropertyType, since time.Time) ([]models.SaleRecord, error) {
	query := `
        SELECT id, address, city, property_type, sold_price, sold_date,
               listing_date, area, bedrooms, bathrooms, year_built,
               latitude, longitude
        FROM comparable_sales
        WHERE LOWER(city) = LOWER(?)
        AND property_type = ?
        AND sold_date >= ?
        ORDER BY sold_date DESC
    `

	rows, err := d.db.Query(query, city, string(propertyType), since.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []models.SaleRecord
	for rows.Next() {
		var s models.SaleRecord
		var propertyType string
		var listingDate sql.NullTime
		var bedrooms, bathrooms, yearBuilt sql.NullInt64
		var latitude, longitude sql.NullFloat64

		err := rows.Scan(
			&s.ID,
			&s.Address,
			&s.City,
			&propertyType,
			&s.SoldPrice,
			&s.SoldDate,
			&listingDate,
			&s.Area,
			&bedrooms,
			&bathrooms,
			&yearBuilt,
			&latitude,
			&longitude,
		)
		if err != nil {
			return nil, err
		}

		s.PropertyType = models.PropertyType(propertyType)

		if listingDate.Valid {
			t := listingDate.Time
			s.ListingDate = &t
		}
		if bedrooms.Valid {
			v := int(bedrooms.Int64)
			s.Bedrooms = &v
		}
		if bathrooms.Valid {
			v := int(bathrooms.Int64)
			s.Bathrooms = &v
		}
		if yearBuilt.Valid {
			v := int(yearBuilt.Int64)
			s.YearBuilt = &v
		}
		if latitude.Valid {
			s.Latitude = &latitude.Float64
		}
		if longitude.Valid {
			s.Longitude = &longitude.Float64
		}

		sales = append(sales, s)
	}
	return sales, rows.Err()
}

// SalesAggregates summarizes a city's transaction history for the trend
// provider. Rates are average sold price per square meter over rolling
// windows counted back from today.
type SalesAggregates struct {
	AvgRate12M      float64
	AvgRatePrior12M float64
	AvgRate3YBack   float64
	AvgDaysOnMarket float64
	SoldCount12M    int
	ActiveListings  int
}

func (d *Database) GetSalesAggregates(city string) (SalesAggregates, error) {
	query := `
        WITH sold AS (
            SELECT
                sold_price / NULLIF(area, 0) AS rate,
                sold_date,
                CASE
                    WHEN listing_date IS NOT NULL
                    THEN julianday(sold_date) - julianday(listing_date)
                END AS days_on_market
            FROM comparable_sales
            WHERE LOWER(city) = LOWER(?)
            AND area > 0
        ),
        active AS (
            SELECT COUNT(*) AS active_count
            FROM properties
            WHERE LOWER(city) = LOWER(?)
            AND listing_price IS NOT NULL
        )
        SELECT
            COALESCE(AVG(CASE WHEN sold_date >= date('now', '-12 months') THEN rate END), 0) AS rate_12m,
            COALESCE(AVG(CASE WHEN sold_date < date('now', '-12 months')
                              AND sold_date >= date('now', '-24 months') THEN rate END), 0) AS rate_prior_12m,
            COALESCE(AVG(CASE WHEN sold_date < date('now', '-36 months')
                              AND sold_date >= date('now', '-48 months') THEN rate END), 0) AS rate_3y_back,
            COALESCE(AVG(CASE WHEN sold_date >= date('now', '-12 months') THEN days_on_market END), 0) AS avg_days,
            COALESCE(SUM(CASE WHEN sold_date >= date('now', '-12 months') THEN 1 ELSE 0 END), 0) AS sold_count,
            (SELECT active_count FROM active) AS active_count
        FROM sold
    `

	var agg SalesAggregates
	err := d.db.QueryRow(query, city, city).Scan(
		&agg.AvgRate12M,
		&agg.AvgRatePrior12M,
		&agg.AvgRate3YBack,
		&agg.AvgDaysOnMarket,
		&agg.SoldCount12M,
		&agg.ActiveListings,
	)
	return agg, err
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	return d.db.Close()
}
