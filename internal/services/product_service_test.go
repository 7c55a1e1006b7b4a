// internal/services/product_service_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rentalworks/catalog-backend/internal/cache"
	"github.com/rentalworks/catalog-backend/internal/database"
	"github.com/rentalworks/catalog-backend/internal/models"
	"github.com/rentalworks/catalog-backend/internal/services"
)

type ProductServiceSuite struct {
	suite.Suite
	db      *gorm.DB
	store   *cache.MemoryStore
	service *services.ProductService
	queries int

	galaxy   models.Product
	macbook  models.Product
	thinkpad models.Product
	zebra    models.Product
	oldPhone models.Product
	hidden   models.Product
}

func (s *ProductServiceSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)

	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	s.Require().NoError(database.RunMigrations(db))

	s.db = db
	s.store = cache.NewMemoryStore()
	s.service = services.NewProductService(db, s.store, time.Minute)

	s.queries = 0
	s.Require().NoError(db.Callback().Query().After("gorm:query").Register("test:count_queries", func(*gorm.DB) {
		s.queries++
	}))

	s.seedFixture()
}

func (s *ProductServiceSuite) seedFixture() {
	sg := models.Region{Name: "Singapore", Code: "SG", Currency: "SGD", IsActive: true}
	my := models.Region{Name: "Malaysia", Code: "MY", Currency: "MYR", IsActive: true}
	xx := models.Region{Name: "Narnia", Code: "XX", Currency: "XXD", IsActive: false}
	s.Require().NoError(s.db.Create(&sg).Error)
	s.Require().NoError(s.db.Create(&my).Error)
	s.Require().NoError(s.db.Create(&xx).Error)

	months3 := models.RentalPeriod{Months: 3, DisplayName: "3 Months", IsActive: true}
	months6 := models.RentalPeriod{Months: 6, DisplayName: "6 Months", IsActive: true}
	months12 := models.RentalPeriod{Months: 12, DisplayName: "12 Months", IsActive: true}
	months24 := models.RentalPeriod{Months: 24, DisplayName: "24 Months", IsActive: false}
	s.Require().NoError(s.db.Create(&months3).Error)
	s.Require().NoError(s.db.Create(&months6).Error)
	s.Require().NoError(s.db.Create(&months12).Error)
	s.Require().NoError(s.db.Create(&months24).Error)

	color := models.Attribute{Name: "color", DisplayName: "Color", IsActive: true}
	material := models.Attribute{Name: "material", DisplayName: "Material", IsActive: false}
	s.Require().NoError(s.db.Create(&color).Error)
	s.Require().NoError(s.db.Create(&material).Error)

	black := models.AttributeValue{AttributeID: color.ID, Value: "black", DisplayValue: "Black", IsActive: true}
	white := models.AttributeValue{AttributeID: color.ID, Value: "white", DisplayValue: "White", IsActive: false}
	wood := models.AttributeValue{AttributeID: material.ID, Value: "wood", DisplayValue: "Wood", IsActive: true}
	s.Require().NoError(s.db.Create(&black).Error)
	s.Require().NoError(s.db.Create(&white).Error)
	s.Require().NoError(s.db.Create(&wood).Error)

	s.galaxy = s.createProduct("Galaxy Tab S9", "TAB-001", true)
	s.hidden = s.createProduct("Hidden Price", "HID-001", true)
	s.macbook = s.createProduct("MacBook Air", "MBA-001", true)
	s.thinkpad = s.createProduct("ThinkPad X1", "TPX-001", true)
	s.zebra = s.createProduct("Zebra Stand", "ZS-001", true)
	s.oldPhone = s.createProduct("Old Phone", "OLD-001", false)

	// Galaxy: visible assignment plus one dead on each dimension.
	s.createAssignment(s.galaxy, color, black)
	s.createAssignment(s.galaxy, color, white)
	s.createAssignment(s.galaxy, material, wood)

	// Galaxy pricing in insertion order: SG/3, SG/6, MY/3 visible; the rest
	// are dead via inactive region, inactive period and inactive fact.
	s.createPricing(s.galaxy, sg, months3, 300, true)
	s.createPricing(s.galaxy, sg, months6, 270, true)
	s.createPricing(s.galaxy, my, months3, 255, true)
	s.createPricing(s.galaxy, xx, months3, 50, true)
	s.createPricing(s.galaxy, sg, months24, 10, true)
	s.createPricing(s.galaxy, my, months6, 150, false)

	s.createPricing(s.macbook, sg, months3, 450, true)

	s.createPricing(s.thinkpad, sg, months6, 200, true)
	s.createPricing(s.thinkpad, my, months3, 100, true)

	// Same price as the MacBook for the tie-break check.
	s.createPricing(s.zebra, sg, months3, 450, true)

	s.createPricing(s.oldPhone, sg, months3, 10, true)

	// Active product whose only pricing fact is disabled.
	s.createPricing(s.hidden, sg, months3, 60, false)
}

func (s *ProductServiceSuite) createProduct(name, sku string, active bool) models.Product {
	product := models.Product{Name: name, SKU: sku, Description: name + " description", IsActive: active}
	s.Require().NoError(s.db.Create(&product).Error)
	return product
}

func (s *ProductServiceSuite) createAssignment(product models.Product, attribute models.Attribute, value models.AttributeValue) {
	assignment := models.ProductAttribute{ProductID: product.ID, AttributeID: attribute.ID, AttributeValueID: value.ID}
	s.Require().NoError(s.db.Create(&assignment).Error)
}

func (s *ProductServiceSuite) createPricing(product models.Product, region models.Region, period models.RentalPeriod, price float64, active bool) {
	pricing := models.ProductPricing{
		ProductID:      product.ID,
		RegionID:       region.ID,
		RentalPeriodID: period.ID,
		Price:          price,
		Currency:       region.Currency,
		IsActive:       active,
	}
	s.Require().NoError(s.db.Create(&pricing).Error)
}

func (s *ProductServiceSuite) listNames(result *services.ProductListResult) []string {
	names := make([]string, 0, len(result.Data))
	for _, item := range result.Data {
		names = append(names, item.Name)
	}
	return names
}

func (s *ProductServiceSuite) TestListProductsReturnsActiveOrderedByName() {
	result, err := s.service.ListProducts(context.Background(), services.ListProductsParams{})
	s.Require().NoError(err)

	s.Equal([]string{"Galaxy Tab S9", "Hidden Price", "MacBook Air", "ThinkPad X1", "Zebra Stand"}, s.listNames(result))
	s.Equal(int64(5), result.Meta.Total)
	s.Equal(1, result.Meta.CurrentPage)
	s.Equal(services.DefaultPerPage, result.Meta.PerPage)
}

func (s *ProductServiceSuite) TestListProductsRegionFilter() {
	result, err := s.service.ListProducts(context.Background(), services.ListProductsParams{RegionCode: "SG"})
	s.Require().NoError(err)

	// Hidden Price is excluded: its only SG fact is disabled.
	s.Equal([]string{"Galaxy Tab S9", "MacBook Air", "ThinkPad X1", "Zebra Stand"}, s.listNames(result))
}

func (s *ProductServiceSuite) TestListProductsRentalPeriodFilter() {
	result, err := s.service.ListProducts(context.Background(), services.ListProductsParams{RentalPeriodMonths: 6})
	s.Require().NoError(err)

	s.Equal([]string{"Galaxy Tab S9", "ThinkPad X1"}, s.listNames(result))
}

func (s *ProductServiceSuite) TestListProductsJointFilterRequiresSingleMatchingFact() {
	result, err := s.service.ListProducts(context.Background(), services.ListProductsParams{
		RegionCode:         "SG",
		RentalPeriodMonths: 3,
	})
	s.Require().NoError(err)

	// ThinkPad has SG/6 and MY/3 but no single SG/3 fact, so it is excluded.
	s.Equal([]string{"Galaxy Tab S9", "MacBook Air", "Zebra Stand"}, s.listNames(result))
}

func (s *ProductServiceSuite) TestListProductsInactiveRegionMatchesNothing() {
	result, err := s.service.ListProducts(context.Background(), services.ListProductsParams{RegionCode: "XX"})
	s.Require().NoError(err)

	s.Empty(result.Data)
	s.Equal(int64(0), result.Meta.Total)
}

func (s *ProductServiceSuite) TestListProductsPagination() {
	page1, err := s.service.ListProducts(context.Background(), services.ListProductsParams{Page: 1, PerPage: 2})
	s.Require().NoError(err)
	s.Equal([]string{"Galaxy Tab S9", "Hidden Price"}, s.listNames(page1))
	s.Equal(3, page1.Meta.LastPage)
	s.Equal(int64(5), page1.Meta.Total)
	s.Require().NotNil(page1.Links.Next)
	s.Nil(page1.Links.Prev)

	page3, err := s.service.ListProducts(context.Background(), services.ListProductsParams{Page: 3, PerPage: 2})
	s.Require().NoError(err)
	s.Equal([]string{"Zebra Stand"}, s.listNames(page3))
	s.Nil(page3.Links.Next)
}

func (s *ProductServiceSuite) TestListProductsOutOfRangePageIsEmptyNotError() {
	result, err := s.service.ListProducts(context.Background(), services.ListProductsParams{Page: 99, PerPage: 2})
	s.Require().NoError(err)

	s.Empty(result.Data)
	s.Equal(99, result.Meta.CurrentPage)
	s.Nil(result.Meta.From)
	s.Nil(result.Meta.To)
}

func (s *ProductServiceSuite) TestGetProductDetailGroupsPricingByRegion() {
	detail, err := s.service.GetProductByID(context.Background(), s.galaxy.ID)
	s.Require().NoError(err)

	s.Equal(s.galaxy.ID, detail.ID)
	s.Equal("TAB-001", detail.SKU)

	// Only the fully active assignment survives.
	s.Require().Len(detail.Attributes, 1)
	s.Equal("color", detail.Attributes[0].Name)
	s.Equal("Black", detail.Attributes[0].DisplayValue)

	// SG first by fact insertion order, then MY. Inactive region, inactive
	// period and inactive fact rows are all absent.
	s.Require().Len(detail.Pricing, 2)

	sg := detail.Pricing[0]
	s.Equal("SG", sg.Region.Code)
	s.Equal("SGD", sg.Region.Currency)
	s.Require().Len(sg.RentalPeriods, 2)
	s.Equal(3, sg.RentalPeriods[0].Months)
	s.Equal("300.00", sg.RentalPeriods[0].Price)
	s.Equal(6, sg.RentalPeriods[1].Months)
	s.Equal("270.00", sg.RentalPeriods[1].Price)

	my := detail.Pricing[1]
	s.Equal("MY", my.Region.Code)
	s.Require().Len(my.RentalPeriods, 1)
	s.Equal(3, my.RentalPeriods[0].Months)
	s.Equal("255.00", my.RentalPeriods[0].Price)
	s.Equal("MYR", my.RentalPeriods[0].Currency)
}

func (s *ProductServiceSuite) TestGetProductDetailNotFound() {
	_, err := s.service.GetProductByID(context.Background(), 999999)
	s.ErrorIs(err, services.ErrProductNotFound)

	// Inactive products are indistinguishable from missing ones.
	_, err = s.service.GetProductByID(context.Background(), s.oldPhone.ID)
	s.ErrorIs(err, services.ErrProductNotFound)
}

func (s *ProductServiceSuite) TestGetProductsWithPricingForRegion() {
	products, err := s.service.GetProductsWithPricingForRegion(context.Background(), "SG")
	s.Require().NoError(err)

	s.Require().Len(products, 4)
	s.Equal("Galaxy Tab S9", products[0].Name)

	// Only SG pricing is attached, MY stays behind.
	s.Require().Len(products[0].Pricing, 1)
	s.Equal("SG", products[0].Pricing[0].Region.Code)
	s.Len(products[0].Pricing[0].RentalPeriods, 2)
}

func (s *ProductServiceSuite) TestGetCheapestProductsOrdersByPrice() {
	products, err := s.service.GetCheapestProducts(context.Background(), "SG", 3, 10)
	s.Require().NoError(err)

	s.Require().Len(products, 3)
	s.Equal("Galaxy Tab S9", products[0].Name)
	// Equal prices fall back to product id order: MacBook was created first.
	s.Equal("MacBook Air", products[1].Name)
	s.Equal("Zebra Stand", products[2].Name)

	s.Equal("300.00", products[0].Pricing[0].RentalPeriods[0].Price)
	s.Equal("450.00", products[1].Pricing[0].RentalPeriods[0].Price)
	s.Equal("450.00", products[2].Pricing[0].RentalPeriods[0].Price)
}

func (s *ProductServiceSuite) TestGetCheapestProductsRespectsLimit() {
	products, err := s.service.GetCheapestProducts(context.Background(), "SG", 3, 1)
	s.Require().NoError(err)

	s.Require().Len(products, 1)
	s.Equal("Galaxy Tab S9", products[0].Name)
}

func (s *ProductServiceSuite) TestGetCheapestProductsForOtherRegion() {
	products, err := s.service.GetCheapestProducts(context.Background(), "MY", 3, 10)
	s.Require().NoError(err)

	s.Require().Len(products, 2)
	s.Equal("ThinkPad X1", products[0].Name)
	s.Equal("Galaxy Tab S9", products[1].Name)
	s.Equal("100.00", products[0].Pricing[0].RentalPeriods[0].Price)
}

func (s *ProductServiceSuite) TestDetailIsServedFromCacheWithinTTL() {
	first, err := s.service.GetProductByID(context.Background(), s.galaxy.ID)
	s.Require().NoError(err)
	s.Greater(s.queries, 0)

	queriesAfterFirst := s.queries
	second, err := s.service.GetProductByID(context.Background(), s.galaxy.ID)
	s.Require().NoError(err)

	s.Equal(queriesAfterFirst, s.queries, "cache hit must not touch the store")
	s.Equal(first, second)
}

func (s *ProductServiceSuite) TestClearProductCacheForcesFreshRead() {
	_, err := s.service.GetProductByID(context.Background(), s.galaxy.ID)
	s.Require().NoError(err)

	s.Require().NoError(s.service.ClearProductCache(context.Background(), s.galaxy.ID))

	queriesBefore := s.queries
	_, err = s.service.GetProductByID(context.Background(), s.galaxy.ID)
	s.Require().NoError(err)
	s.Greater(s.queries, queriesBefore)
}

func (s *ProductServiceSuite) TestListingsAreCachedAndBulkInvalidated() {
	params := services.ListProductsParams{RegionCode: "SG"}

	_, err := s.service.ListProducts(context.Background(), params)
	s.Require().NoError(err)

	queriesAfterFirst := s.queries
	_, err = s.service.ListProducts(context.Background(), params)
	s.Require().NoError(err)
	s.Equal(queriesAfterFirst, s.queries)

	s.Require().NoError(s.service.ClearListingCache(context.Background()))

	_, err = s.service.ListProducts(context.Background(), params)
	s.Require().NoError(err)
	s.Greater(s.queries, queriesAfterFirst)
}

func (s *ProductServiceSuite) TestListingCacheKeyIncludesParameters() {
	_, err := s.service.ListProducts(context.Background(), services.ListProductsParams{Page: 1, PerPage: 2})
	s.Require().NoError(err)

	queriesAfterFirst := s.queries
	page2, err := s.service.ListProducts(context.Background(), services.ListProductsParams{Page: 2, PerPage: 2})
	s.Require().NoError(err)

	s.Greater(s.queries, queriesAfterFirst, "different page must miss the cache")
	s.Equal([]string{"MacBook Air", "ThinkPad X1"}, s.listNames(page2))
}

func (s *ProductServiceSuite) TestNotFoundIsNeverCached() {
	_, err := s.service.GetProductByID(context.Background(), 999999)
	s.ErrorIs(err, services.ErrProductNotFound)

	queriesAfterFirst := s.queries
	_, err = s.service.GetProductByID(context.Background(), 999999)
	s.ErrorIs(err, services.ErrProductNotFound)
	s.Greater(s.queries, queriesAfterFirst)
}

func TestProductServiceSuite(t *testing.T) {
	suite.Run(t, new(ProductServiceSuite))
}
