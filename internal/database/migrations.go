package database

import "fmt"

func (d *Database) RunMigrations() error {
	// Create properties table
	_, err := d.db.Exec(`
		CREATE TABLE IF NOT EXISTS properties (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			property_type TEXT NOT NULL,
			total_area REAL NOT NULL,
			bedrooms INTEGER,
			bathrooms INTEGER,
			year_built INTEGER,
			condition TEXT,
			features TEXT,
			listing_price REAL,
			rent_price REAL,
			energy_rating TEXT,
			latitude REAL,
			longitude REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create properties table: %v", err)
	}

	// Create comparable sales table
	_, err = d.db.Exec(`
		CREATE TABLE IF NOT EXISTS comparable_sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			address TEXT NOT NULL,
			city TEXT NOT NULL,
			property_type TEXT NOT NULL,
			sold_price REAL NOT NULL,
			sold_date DATE NOT NULL,
			listing_date DATE,
			area REAL NOT NULL,
			bedrooms INTEGER,
			bathrooms INTEGER,
			year_built INTEGER,
			latitude REAL,
			longitude REAL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (address, sold_date)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create comparable_sales table: %v", err)
	}

	// Create lookup index for comparable retrieval
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sales_city_type_date
		ON comparable_sales(city, property_type, sold_date);
	`)
	if err != nil {
		return err
	}

	// Create spatial index on coordinates
	_, err = d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_sales_coordinates
		ON comparable_sales(latitude, longitude);
	`)
	if err != nil {
		return err
	}

	return nil
}
