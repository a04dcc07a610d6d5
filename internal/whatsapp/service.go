package whatsapp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/emilianovazquez/pedilo-backend/internal/stores"
	"github.com/emilianovazquez/pedilo-backend/pkg/db/models"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/wabridge"
)

// Service proxies the hosted WhatsApp bridge for one store. The bridge owns
// the session lifecycle; this layer keeps the store row in sync with it.
type Service interface {
	Connect(ctx context.Context, storeID uuid.UUID) (*InstanceDTO, error)
	Disconnect(ctx context.Context, storeID uuid.UUID) error
	Status(ctx context.Context, storeID uuid.UUID) (*InstanceDTO, error)
}

// InstanceDTO surfaces the bridge session state to the owner dashboard.
type InstanceDTO struct {
	InstanceID string  `json:"instance_id"`
	State      string  `json:"state"`
	Connected  bool    `json:"connected"`
	Phone      *string `json:"phone,omitempty"`
	QRCode     *string `json:"qr_code,omitempty"`
}

type bridgeClient interface {
	CreateInstance(ctx context.Context, storeID string) (*wabridge.Instance, error)
	GetInstance(ctx context.Context, instanceID string) (*wabridge.Instance, error)
	DeleteInstance(ctx context.Context, instanceID string) error
}

// service implements the bridge proxy.
type service struct {
	bridge bridgeClient
	stores stores.StoreRepository
}

// NewService constructs the WhatsApp bridge proxy.
func NewService(bridge bridgeClient, storeRepo stores.StoreRepository) (Service, error) {
	if bridge == nil {
		return nil, fmt.Errorf("bridge client required")
	}
	if storeRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{bridge: bridge, stores: storeRepo}, nil
}

// Connect creates a bridge instance for the store and records its ID. If an
// instance already exists the bridge returns it with its current state, so
// reconnecting after a dropped QR scan is just calling Connect again.
func (s *service) Connect(ctx context.Context, storeID uuid.UUID) (*InstanceDTO, error) {
	store, err := s.loadStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	instance, err := s.bridge.CreateInstance(ctx, store.ID.String())
	if err != nil {
		return nil, err
	}

	store.WhatsAppInstanceID = &instance.ID
	if instance.Phone != nil {
		store.WhatsAppPhone = instance.Phone
	}
	if _, err := s.stores.UpdateStore(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save instance id")
	}

	return newInstanceDTO(instance), nil
}

// Disconnect tears the bridge session down and clears the stored instance.
func (s *service) Disconnect(ctx context.Context, storeID uuid.UUID) error {
	store, err := s.loadStore(ctx, storeID)
	if err != nil {
		return err
	}
	if store.WhatsAppInstanceID == nil {
		return nil
	}

	if err := s.bridge.DeleteInstance(ctx, *store.WhatsAppInstanceID); err != nil {
		return err
	}

	store.WhatsAppInstanceID = nil
	if _, err := s.stores.UpdateStore(ctx, store); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: clear instance id")
	}
	return nil
}

// Status fetches the live session state from the bridge. A store with no
// instance reports disconnected without a bridge round trip.
func (s *service) Status(ctx context.Context, storeID uuid.UUID) (*InstanceDTO, error) {
	store, err := s.loadStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store.WhatsAppInstanceID == nil {
		return &InstanceDTO{State: wabridge.InstanceStateDisconnected}, nil
	}

	instance, err := s.bridge.GetInstance(ctx, *store.WhatsAppInstanceID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			// The bridge dropped the instance behind our back; reflect that
			// instead of erroring.
			return &InstanceDTO{State: wabridge.InstanceStateDisconnected}, nil
		}
		return nil, err
	}
	return newInstanceDTO(instance), nil
}

func (s *service) loadStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.stores.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func newInstanceDTO(instance *wabridge.Instance) *InstanceDTO {
	return &InstanceDTO{
		InstanceID: instance.ID,
		State:      instance.State,
		Connected:  instance.Connected(),
		Phone:      instance.Phone,
		QRCode:     instance.QRCode,
	}
}
