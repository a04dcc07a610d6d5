package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
)

// ProductRepository defines CRUD operations for catalog products.
type ProductRepository interface {
	CreateProduct(context.Context, *models.Product) (*models.Product, error)
	UpdateProduct(context.Context, *models.Product) (*models.Product, error)
	DeleteProduct(context.Context, uuid.UUID) error
	FindProductByID(context.Context, uuid.UUID) (*models.Product, error)
	ListProductsByStore(context.Context, uuid.UUID) ([]models.Product, error)
}

// DiscountRepository exposes per-weekday discount persistence.
type DiscountRepository interface {
	UpsertDiscount(context.Context, *models.Discount) (*models.Discount, error)
	ListDiscountsByProduct(context.Context, uuid.UUID) ([]models.Discount, error)
	DeleteDiscount(ctx context.Context, productID, discountID uuid.UUID) error
}

// Repository wires together all catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves all product columns.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the product; its discounts cascade at the DB level.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindProductByID loads the product with its discounts.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Discounts").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProductsByStore loads all products for a store with their discounts,
// newest first.
func (r *Repository) ListProductsByStore(ctx context.Context, storeID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Preload("Discounts").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// UpsertDiscount inserts or replaces the discount row for the product's
// weekday. The (product_id, day_of_week) pair is unique, so an upsert keeps
// at most one row per product per day.
func (r *Repository) UpsertDiscount(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "product_id"}, {Name: "day_of_week"}},
			DoUpdates: clause.AssignmentColumns([]string{"percent", "is_active", "updated_at"}),
		}).
		Create(discount).Error
	if err != nil {
		return nil, err
	}
	return discount, nil
}

// ListDiscountsByProduct loads all discount rows for one product.
func (r *Repository) ListDiscountsByProduct(ctx context.Context, productID uuid.UUID) ([]models.Discount, error) {
	var discounts []models.Discount
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("day_of_week ASC").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	return discounts, nil
}

// DeleteDiscount removes one discount row. The product ID scopes the delete,
// so a discount belonging to another product is reported as not found.
func (r *Repository) DeleteDiscount(ctx context.Context, productID, discountID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", discountID, productID).
		Delete(&models.Discount{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
