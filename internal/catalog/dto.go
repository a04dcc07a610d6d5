package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
)

// MenuDTO is the public storefront payload for one store.
type MenuDTO struct {
	Store    StoreSummaryDTO  `json:"store"`
	IsOpen   bool             `json:"is_open"`
	Products []MenuProductDTO `json:"products"`
}

// StoreSummaryDTO surfaces the store data a storefront needs to render.
type StoreSummaryDTO struct {
	ID            uuid.UUID `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Address       *string   `json:"address,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	LogoURL       *string   `json:"logo_url,omitempty"`
	PrimaryColor  *string   `json:"primary_color,omitempty"`
	Categories    []string  `json:"categories"`
	WhatsAppPhone *string   `json:"whatsapp_phone,omitempty"`
}

// MenuProductDTO is one storefront catalog entry with today's price applied.
type MenuProductDTO struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Description     *string          `json:"description,omitempty"`
	Price           decimal.Decimal  `json:"price"`
	OriginalPrice   decimal.Decimal  `json:"original_price"`
	ImageURL        *string          `json:"image_url,omitempty"`
	CategoryID      *string          `json:"category_id,omitempty"`
	IsAvailable     bool             `json:"available"`
	DiscountActive  bool             `json:"discount_active"`
	DiscountPercent *decimal.Decimal `json:"discount_percent,omitempty"`
}

// ProductDTO is the admin-facing product payload including all discount rows.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	StoreID     uuid.UUID       `json:"store_id"`
	Name        string          `json:"name"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  *string         `json:"category_id,omitempty"`
	ImageURL    *string         `json:"image_url,omitempty"`
	IsAvailable bool            `json:"is_available"`
	Discounts   []DiscountDTO   `json:"discounts"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DiscountDTO is one per-weekday discount row.
type DiscountDTO struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	DayOfWeek int             `json:"day_of_week"`
	Percent   decimal.Decimal `json:"percent"`
	IsActive  bool            `json:"is_active"`
}

// NewProductDTO builds the admin payload from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:          product.ID,
		StoreID:     product.StoreID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		ImageURL:    product.ImageURL,
		IsAvailable: product.IsAvailable,
		Discounts:   make([]DiscountDTO, len(product.Discounts)),
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	for i, d := range product.Discounts {
		dto.Discounts[i] = NewDiscountDTO(&d)
	}
	return dto
}

// NewDiscountDTO builds the discount payload from the persisted model.
func NewDiscountDTO(discount *models.Discount) DiscountDTO {
	return DiscountDTO{
		ID:        discount.ID,
		ProductID: discount.ProductID,
		DayOfWeek: discount.DayOfWeek,
		Percent:   discount.Percent,
		IsActive:  discount.IsActive,
	}
}

// NewMenuProductDTO builds a storefront entry from the model and its
// resolved price.
func NewMenuProductDTO(product *models.Product, resolved ResolvedPrice) MenuProductDTO {
	dto := MenuProductDTO{
		ID:             product.ID,
		Name:           product.Name,
		Description:    product.Description,
		Price:          resolved.EffectivePrice,
		OriginalPrice:  resolved.OriginalPrice,
		ImageURL:       product.ImageURL,
		CategoryID:     product.CategoryID,
		IsAvailable:    product.IsAvailable,
		DiscountActive: resolved.DiscountActive,
	}
	if resolved.DiscountActive {
		percent := resolved.DiscountPercent
		dto.DiscountPercent = &percent
	}
	return dto
}

// NewStoreSummaryDTO builds the storefront store header from the model.
func NewStoreSummaryDTO(store *models.Store) StoreSummaryDTO {
	return StoreSummaryDTO{
		ID:            store.ID,
		Slug:          store.Slug,
		Name:          store.Name,
		Address:       store.Address,
		Phone:         store.Phone,
		LogoURL:       store.LogoURL,
		PrimaryColor:  store.PrimaryColor,
		Categories:    append([]string{}, store.Categories...),
		WhatsAppPhone: store.WhatsAppPhone,
	}
}
