// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/rentalworks/catalog-backend/internal/cache"
	"github.com/rentalworks/catalog-backend/internal/models"
	"github.com/rentalworks/catalog-backend/internal/utils"
)

const (
	DefaultPerPage       = 20
	MaxPerPage           = 100
	DefaultCheapestLimit = 10
	MaxCheapestLimit     = 50

	defaultListPath = "/api/v1/products"
)

var ErrProductNotFound = errors.New("product not found")

// ProductService resolves catalog pricing read models and memoizes them in
// the cache store. All reads are idempotent; concurrent misses on the same
// key may both compute, last write wins.
type ProductService struct {
	db    *gorm.DB
	cache cache.Store
	ttl   time.Duration
}

func NewProductService(db *gorm.DB, store cache.Store, ttl time.Duration) *ProductService {
	return &ProductService{
		db:    db,
		cache: store,
		ttl:   ttl,
	}
}

type ListProductsParams struct {
	RegionCode         string
	RentalPeriodMonths int
	Page               int
	PerPage            int
	// Path feeds the pagination envelope only and is not part of the cache key.
	Path string
}

type ProductSummary struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	SKU         string    `json:"sku"`
	ImageURL    string    `json:"image_url"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProductListResult struct {
	Data  []ProductSummary `json:"data"`
	Links utils.PageLinks  `json:"links"`
	Meta  utils.PageMeta   `json:"meta"`
}

type AttributeView struct {
	Name         string `json:"name"`
	DisplayName  string `json:"display_name"`
	Value        string `json:"value"`
	DisplayValue string `json:"display_value"`
}

type RegionView struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	Currency string `json:"currency"`
}

type RentalPeriodPrice struct {
	Months      int    `json:"months"`
	DisplayName string `json:"display_name"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
}

type PricingGroup struct {
	Region        RegionView          `json:"region"`
	RentalPeriods []RentalPeriodPrice `json:"rental_periods"`
}

type ProductDetail struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	ImageURL    string          `json:"image_url"`
	Attributes  []AttributeView `json:"attributes"`
	Pricing     []PricingGroup  `json:"pricing"`
}

type ProductWithPricing struct {
	ProductSummary
	Pricing []PricingGroup `json:"pricing"`
}

// ListProducts returns active products ordered by name, optionally restricted
// to products with at least one visible pricing row matching the region code
// and/or rental period. When both filters are present a single pricing row
// must satisfy both; two rows matching one filter each do not qualify.
func (s *ProductService) ListProducts(ctx context.Context, params ListProductsParams) (*ProductListResult, error) {
	params = normalizeListParams(params)

	key := cache.Key(cache.PrefixProductsIndex, map[string]any{
		"region":        params.RegionCode,
		"rental_period": params.RentalPeriodMonths,
		"page":          params.Page,
		"per_page":      params.PerPage,
	})

	return cache.Remember(ctx, s.cache, key, s.ttl, func() (*ProductListResult, error) {
		query := s.db.WithContext(ctx).Model(&models.Product{}).Scopes(models.Active)
		query = applyPricingExistence(query, params.RegionCode, params.RentalPeriodMonths)

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}

		var products []models.Product
		err := query.Order("name ASC").
			Offset((params.Page - 1) * params.PerPage).
			Limit(params.PerPage).
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}

		summaries := make([]ProductSummary, 0, len(products))
		for _, product := range products {
			summaries = append(summaries, newProductSummary(product))
		}

		links, meta := utils.BuildPagination(params.Path, params.Page, params.PerPage, len(summaries), total)
		return &ProductListResult{Data: summaries, Links: links, Meta: meta}, nil
	})
}

// GetProductByID loads one active product with its visible attribute
// assignments and pricing, the latter grouped by region in fact order.
// Loading is an explicit existence-filter-then-batch-load sequence rather
// than nested relation closures.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*ProductDetail, error) {
	key := cache.ProductDetailKey(id)

	return cache.Remember(ctx, s.cache, key, s.ttl, func() (*ProductDetail, error) {
		var product models.Product
		err := s.db.WithContext(ctx).Scopes(models.Active).First(&product, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProductNotFound
			}
			return nil, fmt.Errorf("failed to fetch product: %w", err)
		}

		attributes, err := s.loadAttributes(ctx, product.ID)
		if err != nil {
			return nil, err
		}

		pricings, err := s.loadPricings(ctx, []uint{product.ID}, "", 0)
		if err != nil {
			return nil, err
		}

		return &ProductDetail{
			ID:          product.ID,
			Name:        product.Name,
			Description: product.Description,
			SKU:         product.SKU,
			ImageURL:    product.ImageURL,
			Attributes:  attributes,
			Pricing:     groupPricing(pricings),
		}, nil
	})
}

// GetProductsWithPricingForRegion returns active products that have at least
// one visible pricing row for the given active region, each carrying only the
// rows matching that region.
func (s *ProductService) GetProductsWithPricingForRegion(ctx context.Context, regionCode string) ([]ProductWithPricing, error) {
	key := cache.Key(cache.PrefixProductsRegion, map[string]any{
		"region": regionCode,
	})

	return cache.Remember(ctx, s.cache, key, s.ttl, func() ([]ProductWithPricing, error) {
		query := s.db.WithContext(ctx).Model(&models.Product{}).Scopes(models.Active)
		query = applyPricingExistence(query, regionCode, 0)

		var products []models.Product
		if err := query.Order("name ASC").Find(&products).Error; err != nil {
			return nil, fmt.Errorf("failed to fetch products: %w", err)
		}

		return s.attachPricing(ctx, products, regionCode, 0)
	})
}

// GetCheapestProducts returns active products with a visible pricing row for
// the (region, rental period) pair, cheapest first. Ties order by product id
// ascending. The unique pricing triple guarantees one row per product here,
// so the join cannot duplicate products and every product has a price.
func (s *ProductService) GetCheapestProducts(ctx context.Context, regionCode string, rentalPeriodMonths, limit int) ([]ProductWithPricing, error) {
	if limit < 1 {
		limit = DefaultCheapestLimit
	}
	if limit > MaxCheapestLimit {
		limit = MaxCheapestLimit
	}

	key := cache.Key(cache.PrefixProductsCheapest, map[string]any{
		"region":        regionCode,
		"rental_period": rentalPeriodMonths,
		"limit":         limit,
	})

	return cache.Remember(ctx, s.cache, key, s.ttl, func() ([]ProductWithPricing, error) {
		var products []models.Product
		// The joined tables all carry is_active, so the product filter must be
		// table-qualified here instead of going through the Active scope.
		err := s.db.WithContext(ctx).Model(&models.Product{}).
			Where("products.is_active = ?", true).
			Select("products.*").
			Joins("JOIN product_pricings pp ON pp.product_id = products.id AND pp.is_active = ?", true).
			Joins("JOIN regions r ON r.id = pp.region_id AND r.is_active = ? AND r.code = ?", true, regionCode).
			Joins("JOIN rental_periods rp ON rp.id = pp.rental_period_id AND rp.is_active = ? AND rp.months = ?", true, rentalPeriodMonths).
			Order("pp.price ASC, products.id ASC").
			Limit(limit).
			Find(&products).Error
		if err != nil {
			return nil, fmt.Errorf("failed to fetch cheapest products: %w", err)
		}

		return s.attachPricing(ctx, products, regionCode, rentalPeriodMonths)
	})
}

// ClearProductCache evicts the cached detail for one product.
func (s *ProductService) ClearProductCache(ctx context.Context, id uint) error {
	return s.cache.Forget(ctx, cache.ProductDetailKey(id))
}

// ClearListingCache evicts every cached listing result across all listing
// operations and parameter combinations.
func (s *ProductService) ClearListingCache(ctx context.Context) error {
	for _, prefix := range cache.ListingPrefixes() {
		if err := s.cache.ForgetPrefix(ctx, prefix); err != nil {
			return err
		}
	}
	return nil
}

func normalizeListParams(params ListProductsParams) ListProductsParams {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = DefaultPerPage
	}
	if params.PerPage > MaxPerPage {
		params.PerPage = MaxPerPage
	}
	if params.RentalPeriodMonths < 0 {
		params.RentalPeriodMonths = 0
	}
	if params.Path == "" {
		params.Path = defaultListPath
	}
	return params
}

// applyPricingExistence adds a semi-join constraining products to those with
// at least one visible pricing row matching the given filters. A single
// EXISTS keeps the product row unduplicated however many rows match.
func applyPricingExistence(query *gorm.DB, regionCode string, rentalPeriodMonths int) *gorm.DB {
	if regionCode == "" && rentalPeriodMonths <= 0 {
		return query
	}

	sub := `EXISTS (
		SELECT 1 FROM product_pricings pp
		JOIN regions r ON r.id = pp.region_id
		JOIN rental_periods rp ON rp.id = pp.rental_period_id
		WHERE pp.product_id = products.id
		AND pp.is_active = ? AND r.is_active = ? AND rp.is_active = ?`
	args := []any{true, true, true}

	if regionCode != "" {
		sub += " AND r.code = ?"
		args = append(args, regionCode)
	}
	if rentalPeriodMonths > 0 {
		sub += " AND rp.months = ?"
		args = append(args, rentalPeriodMonths)
	}
	sub += ")"

	return query.Where(sub, args...)
}

func (s *ProductService) loadAttributes(ctx context.Context, productID uint) ([]AttributeView, error) {
	var assignments []models.ProductAttribute
	err := s.db.WithContext(ctx).
		Joins("JOIN attributes ON attributes.id = product_attributes.attribute_id AND attributes.is_active = ?", true).
		Joins("JOIN attribute_values ON attribute_values.id = product_attributes.attribute_value_id AND attribute_values.is_active = ?", true).
		Where("product_attributes.product_id = ?", productID).
		Preload("Attribute").
		Preload("AttributeValue").
		Order("product_attributes.id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product attributes: %w", err)
	}

	views := make([]AttributeView, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.Attribute == nil || assignment.AttributeValue == nil {
			continue
		}
		views = append(views, AttributeView{
			Name:         assignment.Attribute.Name,
			DisplayName:  assignment.Attribute.DisplayName,
			Value:        assignment.AttributeValue.Value,
			DisplayValue: assignment.AttributeValue.DisplayValue,
		})
	}
	return views, nil
}

// loadPricings batch-fetches the visible pricing rows for the given products,
// optionally restricted by region code and rental period months. Rows come
// back in insertion order, which drives the region grouping order.
func (s *ProductService) loadPricings(ctx context.Context, productIDs []uint, regionCode string, rentalPeriodMonths int) ([]models.ProductPricing, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	query := s.db.WithContext(ctx).
		Joins("JOIN regions ON regions.id = product_pricings.region_id AND regions.is_active = ?", true).
		Joins("JOIN rental_periods ON rental_periods.id = product_pricings.rental_period_id AND rental_periods.is_active = ?", true).
		Where("product_pricings.product_id IN ?", productIDs).
		Where("product_pricings.is_active = ?", true)

	if regionCode != "" {
		query = query.Where("regions.code = ?", regionCode)
	}
	if rentalPeriodMonths > 0 {
		query = query.Where("rental_periods.months = ?", rentalPeriodMonths)
	}

	var pricings []models.ProductPricing
	err := query.
		Preload("Region").
		Preload("RentalPeriod").
		Order("product_pricings.id ASC").
		Find(&pricings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product pricing: %w", err)
	}
	return pricings, nil
}

func (s *ProductService) attachPricing(ctx context.Context, products []models.Product, regionCode string, rentalPeriodMonths int) ([]ProductWithPricing, error) {
	result := make([]ProductWithPricing, 0, len(products))
	if len(products) == 0 {
		return result, nil
	}

	ids := make([]uint, 0, len(products))
	for _, product := range products {
		ids = append(ids, product.ID)
	}

	pricings, err := s.loadPricings(ctx, ids, regionCode, rentalPeriodMonths)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uint][]models.ProductPricing, len(products))
	for _, pricing := range pricings {
		byProduct[pricing.ProductID] = append(byProduct[pricing.ProductID], pricing)
	}

	for _, product := range products {
		result = append(result, ProductWithPricing{
			ProductSummary: newProductSummary(product),
			Pricing:        groupPricing(byProduct[product.ID]),
		})
	}
	return result, nil
}

func newProductSummary(product models.Product) ProductSummary {
	return ProductSummary{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		SKU:         product.SKU,
		ImageURL:    product.ImageURL,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

// groupPricing folds pricing rows into one group per region, regions ordered
// by first encounter and periods in row order within each group.
func groupPricing(pricings []models.ProductPricing) []PricingGroup {
	groups := make([]PricingGroup, 0)
	index := make(map[uint]int)

	for _, pricing := range pricings {
		if pricing.Region == nil || pricing.RentalPeriod == nil {
			continue
		}

		i, ok := index[pricing.RegionID]
		if !ok {
			i = len(groups)
			index[pricing.RegionID] = i
			groups = append(groups, PricingGroup{
				Region: RegionView{
					ID:       pricing.Region.ID,
					Name:     pricing.Region.Name,
					Code:     pricing.Region.Code,
					Currency: pricing.Region.Currency,
				},
			})
		}

		groups[i].RentalPeriods = append(groups[i].RentalPeriods, RentalPeriodPrice{
			Months:      pricing.RentalPeriod.Months,
			DisplayName: pricing.RentalPeriod.DisplayName,
			Price:       formatPrice(pricing.Price),
			Currency:    pricing.Currency,
		})
	}
	return groups
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}
