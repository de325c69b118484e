package database

import (
	"time"

	"gorm.io/gorm"

	"brixel/server/internal/models"
)

// SeedDemoData loads a small Madrid data set so a fresh checkout answers
// valuation requests without an ingest run. It is a no-op when the sales
// table already has rows.
func (d *Database) SeedDemoData(gdb *gorm.DB) error {
	var count int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM comparable_sales").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	sales := make([]*models.SaleRecord, 0, len(demoSales))
	for i := range demoSales {
		rec := demoSales[i].record
		rec.SoldDate = now.AddDate(0, -demoSales[i].monthsAgo, 0)
		listed := rec.SoldDate.AddDate(0, 0, -demoSales[i].daysListed)
		rec.ListingDate = &listed
		sales = append(sales, &rec)
	}

	if err := gdb.Transaction(func(tx *gorm.DB) error {
		return UpsertSales(tx, sales)
	}); err != nil {
		return err
	}

	for i := range demoProperties {
		p := demoProperties[i]
		if err := d.InsertProperty(&p); err != nil {
			return err
		}
	}
	return nil
}

type demoSale struct {
	record     models.SaleRecord
	monthsAgo  int
	daysListed int
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func ratingPtr(r models.EnergyRating) *models.EnergyRating { return &r }

var demoSales = []demoSale{
	{record: models.SaleRecord{Address: "Calle de Alcalá 210", City: "Madrid", PropertyType: models.PropertyTypeApartment,
		SoldPrice: 342000, Area: 82, Bedrooms: intPtr(2), Bathrooms: intPtr(1), YearBuilt: intPtr(2012),
		Latitude: floatPtr(40.4262), Longitude: floatPtr(-3.6636)}, monthsAgo: 2, daysListed: 34},
	{record: models.SaleRecord{Address: "Calle de Goya 45", City: "Madrid", PropertyType: models.PropertyTypeApartment,
		SoldPrice: 355000, Area: 85, Bedrooms: intPtr(2), Bathrooms: intPtr(2), YearBuilt: intPtr(2016),
		Latitude: floatPtr(40.4254), Longitude: floatPtr(-3.6794)}, monthsAgo: 3, daysListed: 28},
	{record: models.SaleRecord{Address: "Calle de Serrano 118", City: "Madrid", PropertyType: models.PropertyTypeApartment,
		SoldPrice: 331500, Area: 78, Bedrooms: intPtr(2), Bathrooms: intPtr(1), YearBuilt: intPtr(2010),
		Latitude: floatPtr(40.4355), Longitude: floatPtr(-3.6872)}, monthsAgo: 4, daysListed: 41},
	{record: models.SaleRecord{Address: "Paseo de la Castellana 89", City: "Madrid", PropertyType: models.PropertyTypeApartment,
		SoldPrice: 349000, Area: 84, Bedrooms: intPtr(3), Bathrooms: intPtr(2), YearBuilt: intPtr(2014),
		Latitude: floatPtr(40.4459), Longitude: floatPtr(-3.6918)}, monthsAgo: 5, daysListed: 30},
	{record: models.SaleRecord{Address: "Calle de Atocha 77", City: "Madrid", PropertyType: models.PropertyTypeApartment,
		SoldPrice: 298000, Area: 71, Bedrooms: intPtr(2), Bathrooms: intPtr(1), YearBuilt: intPtr(1995),
		Latitude: floatPtr(40.4110), Longitude: floatPtr(-3.6980)}, monthsAgo: 7, daysListed: 52},
	{record: models.SaleRecord{Address: "Carrer de Mallorca 310", City: "Barcelona", PropertyType: models.PropertyTypeApartment,
		SoldPrice: 388000, Area: 80, Bedrooms: intPtr(3), Bathrooms: intPtr(2), YearBuilt: intPtr(2008),
		Latitude: floatPtr(41.3998), Longitude: floatPtr(2.1634)}, monthsAgo: 3, daysListed: 25},
}

var demoProperties = []models.Property{
	{Address: "Calle de Velázquez 32", City: "Madrid", PropertyType: models.PropertyTypeApartment,
		TotalArea: 80, Bedrooms: intPtr(2), Bathrooms: intPtr(2), YearBuilt: intPtr(2015),
		ListingPrice: floatPtr(345000), RentPrice: floatPtr(1500), EnergyRating: ratingPtr(models.EnergyRatingC),
		Latitude: floatPtr(40.4289), Longitude: floatPtr(-3.6830)},
	{Address: "Calle de Toledo 140", City: "Madrid", PropertyType: models.PropertyTypeApartment,
		TotalArea: 25, EnergyRating: ratingPtr(models.EnergyRatingF),
		Latitude: floatPtr(40.4055), Longitude: floatPtr(-3.7110)},
}
