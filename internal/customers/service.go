package customers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

// Service exposes the admin customer list.
type Service interface {
	ListCustomers(ctx context.Context, storeID uuid.UUID) ([]CustomerDTO, error)
}

// CustomerDTO is the admin-facing customer payload.
type CustomerDTO struct {
	ID          uuid.UUID  `json:"id"`
	Phone       string     `json:"phone"`
	Name        string     `json:"name"`
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

type service struct {
	repo CustomerRepository
}

// NewService constructs a customer service instance.
func NewService(repo CustomerRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	return &service{repo: repo}, nil
}

// ListCustomers returns the store's buyers ordered by recency.
func (s *service) ListCustomers(ctx context.Context, storeID uuid.UUID) ([]CustomerDTO, error) {
	customers, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customers")
	}

	result := make([]CustomerDTO, 0, len(customers))
	for _, c := range customers {
		result = append(result, NewCustomerDTO(&c))
	}
	return result, nil
}

// NewCustomerDTO builds the payload from the persisted model.
func NewCustomerDTO(customer *models.Customer) CustomerDTO {
	return CustomerDTO{
		ID:          customer.ID,
		Phone:       customer.Phone,
		Name:        customer.Name,
		LastOrderAt: customer.LastOrderAt,
		CreatedAt:   customer.CreatedAt,
	}
}
