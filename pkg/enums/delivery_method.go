package enums

import "fmt"

// DeliveryMethod describes how a customer receives their order.
type DeliveryMethod string

const (
	DeliveryMethodPickup   DeliveryMethod = "pickup"
	DeliveryMethodDelivery DeliveryMethod = "delivery"
)

var deliveryMethods = map[DeliveryMethod]struct{}{
	DeliveryMethodPickup:   {},
	DeliveryMethodDelivery: {},
}

func (d DeliveryMethod) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryMethod.
func (d DeliveryMethod) IsValid() bool {
	_, ok := deliveryMethods[d]
	return ok
}

// ParseDeliveryMethod converts raw input into a DeliveryMethod.
func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	method := DeliveryMethod(value)
	if !method.IsValid() {
		return "", fmt.Errorf("invalid delivery method %q", value)
	}
	return method, nil
}
