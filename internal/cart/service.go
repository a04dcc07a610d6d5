package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/internal/catalog"
	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

// Service exposes session cart operations for the storefront.
type Service interface {
	Get(ctx context.Context, sessionID string) (*CartDTO, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, now time.Time) (*CartDTO, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, delta int) (*CartDTO, error)
	Clear(ctx context.Context, sessionID string) error
}

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	store    *Store
	products productLoader
}

// NewService builds a cart service backed by the in-memory session store.
func NewService(store *Store, products productLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{store: store, products: products}, nil
}

// Get returns the session's cart with derived totals.
func (s *service) Get(ctx context.Context, sessionID string) (*CartDTO, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	return NewCartDTO(s.store.Lines(sessionID)), nil
}

// AddItem snapshots the product's name and today's effective price into the
// cart and bumps the quantity. Unavailable products cannot be added.
func (s *service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, now time.Time) (*CartDTO, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	product, err := s.products.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "product is not available")
	}
	if existing := s.store.Lines(sessionID); len(existing) > 0 && existing[0].StoreID != product.StoreID {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart already holds items from another store")
	}

	resolved := catalog.ResolvePrice(product.Price, product.Discounts, now.Weekday())
	lines := s.store.Add(sessionID, Line{
		ProductID:   product.ID,
		StoreID:     product.StoreID,
		ProductName: product.Name,
		UnitPrice:   resolved.EffectivePrice,
	})
	return NewCartDTO(lines), nil
}

// UpdateQuantity applies a signed delta to one line.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, delta int) (*CartDTO, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if delta == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delta cannot be zero")
	}
	return NewCartDTO(s.store.UpdateQuantity(sessionID, productID, delta)), nil
}

// Clear empties the session's cart.
func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	s.store.Clear(sessionID)
	return nil
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session ID is required")
	}
	return nil
}
