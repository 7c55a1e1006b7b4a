// internal/database/seed.go
package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/rentalworks/catalog-backend/internal/models"
)

// Seed loads the reference catalog data. It is idempotent: rows are matched
// by their natural keys and updated in place, so repeated startups do not
// duplicate data.
func Seed(db *gorm.DB) error {
	logrus.Info("Seeding catalog data")

	if err := seedRegions(db); err != nil {
		return err
	}
	if err := seedRentalPeriods(db); err != nil {
		return err
	}
	if err := seedAttributes(db); err != nil {
		return err
	}
	if err := seedProducts(db); err != nil {
		return err
	}

	logrus.Info("Catalog data seeding completed")
	return nil
}

func seedRegions(db *gorm.DB) error {
	regions := []models.Region{
		{Name: "Singapore", Code: "SG", Currency: "SGD", IsActive: true},
		{Name: "Malaysia", Code: "MY", Currency: "MYR", IsActive: true},
		{Name: "Thailand", Code: "TH", Currency: "THB", IsActive: true},
		{Name: "Indonesia", Code: "ID", Currency: "IDR", IsActive: true},
	}

	for _, region := range regions {
		err := db.Where(models.Region{Code: region.Code}).
			Assign(models.Region{Name: region.Name, Currency: region.Currency, IsActive: region.IsActive}).
			FirstOrCreate(&models.Region{}).Error
		if err != nil {
			return fmt.Errorf("failed to seed region %s: %w", region.Code, err)
		}
	}
	return nil
}

func seedRentalPeriods(db *gorm.DB) error {
	periods := []models.RentalPeriod{
		{Months: 3, DisplayName: "3 Months", IsActive: true},
		{Months: 6, DisplayName: "6 Months", IsActive: true},
		{Months: 12, DisplayName: "12 Months", IsActive: true},
	}

	for _, period := range periods {
		err := db.Where(models.RentalPeriod{Months: period.Months}).
			Assign(models.RentalPeriod{DisplayName: period.DisplayName, IsActive: period.IsActive}).
			FirstOrCreate(&models.RentalPeriod{}).Error
		if err != nil {
			return fmt.Errorf("failed to seed rental period %d: %w", period.Months, err)
		}
	}
	return nil
}

type seedAttribute struct {
	name        string
	displayName string
	values      [][2]string
}

// Seed definitions are slices, not maps, so insertion order — and with it the
// id-ordered attribute lists rendered in product details — is the same on
// every fresh database.
func seedAttributes(db *gorm.DB) error {
	attributes := []seedAttribute{
		{"color", "Color", [][2]string{{"red", "Red"}, {"blue", "Blue"}, {"green", "Green"}, {"black", "Black"}, {"white", "White"}}},
		{"size", "Size", [][2]string{{"small", "Small"}, {"medium", "Medium"}, {"large", "Large"}, {"xl", "Extra Large"}}},
		{"brand", "Brand", [][2]string{{"apple", "Apple"}, {"samsung", "Samsung"}, {"sony", "Sony"}, {"lg", "LG"}}},
	}

	for _, data := range attributes {
		var attribute models.Attribute
		err := db.Where(models.Attribute{Name: data.name}).
			Assign(models.Attribute{DisplayName: data.displayName, IsActive: true}).
			FirstOrCreate(&attribute).Error
		if err != nil {
			return fmt.Errorf("failed to seed attribute %s: %w", data.name, err)
		}

		for _, pair := range data.values {
			err := db.Where(models.AttributeValue{AttributeID: attribute.ID, Value: pair[0]}).
				Assign(models.AttributeValue{DisplayValue: pair[1], IsActive: true}).
				FirstOrCreate(&models.AttributeValue{}).Error
			if err != nil {
				return fmt.Errorf("failed to seed attribute value %s.%s: %w", data.name, pair[0], err)
			}
		}
	}
	return nil
}

type seedProduct struct {
	name        string
	description string
	sku         string
	imageURL    string
	basePrice   float64
	attributes  [][2]string
}

func seedProducts(db *gorm.DB) error {
	products := []seedProduct{
		{
			name:        `MacBook Pro 16" M3`,
			description: "Apple MacBook Pro 16-inch with M3 chip, perfect for professional work and creative tasks.",
			sku:         "MBP-16-M3-001",
			imageURL:    "https://cdn.rentalworks.example/products/mbp-16-m3.png",
			basePrice:   300,
			attributes:  [][2]string{{"color", "black"}, {"brand", "apple"}, {"size", "large"}},
		},
		{
			name:        "Samsung Galaxy S24 Ultra",
			description: "Samsung Galaxy S24 Ultra smartphone with advanced camera system and S Pen.",
			sku:         "SGS-S24U-001",
			imageURL:    "https://cdn.rentalworks.example/products/galaxy-s24-ultra.png",
			basePrice:   150,
			attributes:  [][2]string{{"color", "blue"}, {"brand", "samsung"}, {"size", "large"}},
		},
		{
			name:        "Sony WH-1000XM5 Headphones",
			description: "Sony WH-1000XM5 wireless noise-canceling headphones with premium sound quality.",
			sku:         "SONY-WH1000XM5-001",
			imageURL:    "https://cdn.rentalworks.example/products/wh-1000xm5.png",
			basePrice:   50,
			attributes:  [][2]string{{"color", "black"}, {"brand", "sony"}, {"size", "medium"}},
		},
	}

	for _, data := range products {
		var product models.Product
		err := db.Where(models.Product{SKU: data.sku}).
			Assign(models.Product{
				Name:        data.name,
				Description: data.description,
				ImageURL:    data.imageURL,
				IsActive:    true,
			}).
			FirstOrCreate(&product).Error
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", data.sku, err)
		}

		if err := seedProductAttributes(db, product, data.attributes); err != nil {
			return err
		}
		if err := seedProductPricing(db, product, data.basePrice); err != nil {
			return err
		}
	}
	return nil
}

func seedProductAttributes(db *gorm.DB, product models.Product, assignments [][2]string) error {
	for _, assignment := range assignments {
		attributeName, value := assignment[0], assignment[1]

		var attribute models.Attribute
		if err := db.Where("name = ?", attributeName).First(&attribute).Error; err != nil {
			continue
		}
		var attributeValue models.AttributeValue
		if err := db.Where("attribute_id = ? AND value = ?", attribute.ID, value).First(&attributeValue).Error; err != nil {
			continue
		}

		err := db.Where(models.ProductAttribute{ProductID: product.ID, AttributeID: attribute.ID}).
			Assign(models.ProductAttribute{AttributeValueID: attributeValue.ID}).
			FirstOrCreate(&models.ProductAttribute{}).Error
		if err != nil {
			return fmt.Errorf("failed to seed attribute %s for %s: %w", attributeName, product.SKU, err)
		}
	}
	return nil
}

func seedProductPricing(db *gorm.DB, product models.Product, basePrice float64) error {
	var regions []models.Region
	if err := db.Find(&regions).Error; err != nil {
		return fmt.Errorf("failed to load regions: %w", err)
	}
	var periods []models.RentalPeriod
	if err := db.Find(&periods).Error; err != nil {
		return fmt.Errorf("failed to load rental periods: %w", err)
	}

	for _, region := range regions {
		regionMultiplier := 0.85
		if region.Code == "SG" {
			regionMultiplier = 1.0
		}

		for _, period := range periods {
			periodMultiplier := 1.0
			switch period.Months {
			case 6:
				periodMultiplier = 0.9
			case 12:
				periodMultiplier = 0.8
			}

			price := basePrice * regionMultiplier * periodMultiplier

			err := db.Where(models.ProductPricing{
				ProductID:      product.ID,
				RegionID:       region.ID,
				RentalPeriodID: period.ID,
			}).
				Assign(models.ProductPricing{
					Price:    price,
					Currency: region.Currency,
					IsActive: true,
				}).
				FirstOrCreate(&models.ProductPricing{}).Error
			if err != nil {
				return fmt.Errorf("failed to seed pricing for %s: %w", product.SKU, err)
			}
		}
	}
	return nil
}
