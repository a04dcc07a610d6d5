package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

type stubStoreFinder struct{}

func (stubStoreFinder) FindBySlug(ctx context.Context, slug string) (*models.Store, error) {
	return &models.Store{Slug: slug}, nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(nil), stubStoreFinder{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateProductValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, uuid.New(), CreateProductInput{Name: "   "})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}

	_, err = svc.CreateProduct(ctx, uuid.New(), CreateProductInput{Name: "Pizza", Price: dec("-1")})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for negative price, got %v", err)
	}
}

func TestUpsertDiscountValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input DiscountInput
	}{
		{"dayTooLarge", DiscountInput{DayOfWeek: 7, Percent: dec("10")}},
		{"dayNegative", DiscountInput{DayOfWeek: -1, Percent: dec("10")}},
		{"percentZero", DiscountInput{DayOfWeek: 1, Percent: dec("0")}},
		{"percentOverHundred", DiscountInput{DayOfWeek: 1, Percent: dec("101")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpsertDiscount(ctx, uuid.New(), uuid.New(), tc.input)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApplyProductUpdateMutatesOnlyProvidedFields(t *testing.T) {
	desc := "old description"
	product := &models.Product{
		Name:        "Old Name",
		Description: &desc,
		Price:       dec("1000"),
		IsAvailable: true,
	}

	newName := "  New Name  "
	newPrice := dec("1500")
	unavailable := false
	applyProductUpdate(product, UpdateProductInput{
		Name:        &newName,
		Price:       &newPrice,
		IsAvailable: &unavailable,
	})

	if product.Name != "New Name" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if !product.Price.Equal(dec("1500")) {
		t.Fatalf("expected updated price, got %s", product.Price)
	}
	if product.IsAvailable {
		t.Fatal("expected product marked unavailable")
	}
	if product.Description == nil || *product.Description != "old description" {
		t.Fatal("description must stay untouched when not provided")
	}
}
