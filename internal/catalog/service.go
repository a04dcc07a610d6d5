package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/internal/availability"
	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

// Service exposes storefront menu reads and owner catalog management.
type Service interface {
	Menu(ctx context.Context, slug string, now time.Time) (*MenuDTO, error)
	ListProducts(ctx context.Context, storeID uuid.UUID) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error
	UpsertDiscount(ctx context.Context, storeID, productID uuid.UUID, input DiscountInput) (*DiscountDTO, error)
	DeleteDiscount(ctx context.Context, storeID, productID, discountID uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Price       decimal.Decimal
	CategoryID  *string
	ImageURL    *string
	IsAvailable bool
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *string
	ImageURL    *string
	IsAvailable *bool
}

// DiscountInput upserts the discount row for one weekday.
type DiscountInput struct {
	DayOfWeek int
	Percent   decimal.Decimal
	IsActive  bool
}

type storeFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

// service implements the catalog service.
type service struct {
	repo      *Repository
	storeRepo storeFinder
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, storeRepo storeFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo, storeRepo: storeRepo}, nil
}

// Menu assembles the public storefront payload: store header, open state,
// and every product with today's discount applied.
func (s *service) Menu(ctx context.Context, slug string, now time.Time) (*MenuDTO, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store slug is required")
	}

	store, err := s.storeRepo.FindBySlug(ctx, trimmed)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	products, err := s.repo.ListProductsByStore(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	menu := &MenuDTO{
		Store:    NewStoreSummaryDTO(store),
		IsOpen:   availability.IsOpen(store.Schedule, now),
		Products: make([]MenuProductDTO, 0, len(products)),
	}
	for i := range products {
		product := &products[i]
		resolved := ResolvePrice(product.Price, product.Discounts, now.Weekday())
		menu.Products = append(menu.Products, NewMenuProductDTO(product, resolved))
	}

	return menu, nil
}

// ListProducts returns the owner's full catalog with discount rows.
func (s *service) ListProducts(ctx context.Context, storeID uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListProductsByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}

	result := make([]ProductDTO, 0, len(products))
	for i := range products {
		result = append(result, *NewProductDTO(&products[i]))
	}
	return result, nil
}

// CreateProduct creates a product in the owner's catalog.
func (s *service) CreateProduct(ctx context.Context, storeID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product := &models.Product{
		StoreID:     storeID,
		Name:        name,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
		ImageURL:    input.ImageURL,
		IsAvailable: input.IsAvailable,
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct mutates an existing product owned by the store.
func (s *service) UpdateProduct(ctx context.Context, storeID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	product, err := s.loadOwnedProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	applyProductUpdate(product, input)

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product and its discounts.
func (s *service) DeleteProduct(ctx context.Context, storeID, productID uuid.UUID) error {
	if _, err := s.loadOwnedProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// UpsertDiscount creates or replaces the discount for one weekday of a
// product.
func (s *service) UpsertDiscount(ctx context.Context, storeID, productID uuid.UUID, input DiscountInput) (*DiscountDTO, error) {
	if input.DayOfWeek < 0 || input.DayOfWeek > 6 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "day_of_week must be between 0 and 6")
	}
	if !input.Percent.IsPositive() || input.Percent.GreaterThan(oneHundred) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent must be between 0 and 100")
	}

	if _, err := s.loadOwnedProduct(ctx, storeID, productID); err != nil {
		return nil, err
	}

	discount := &models.Discount{
		ProductID: productID,
		DayOfWeek: input.DayOfWeek,
		Percent:   input.Percent,
		IsActive:  input.IsActive,
	}

	saved, err := s.repo.UpsertDiscount(ctx, discount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: upsert discount")
	}

	dto := NewDiscountDTO(saved)
	return &dto, nil
}

// DeleteDiscount removes one discount row from a product the store owns.
func (s *service) DeleteDiscount(ctx context.Context, storeID, productID, discountID uuid.UUID) error {
	if _, err := s.loadOwnedProduct(ctx, storeID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteDiscount(ctx, productID, discountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete discount")
	}
	return nil
}

// loadOwnedProduct fetches the product and hides it behind not-found when it
// belongs to another store.
func (s *service) loadOwnedProduct(ctx context.Context, storeID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}
}
