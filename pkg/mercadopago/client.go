package mercadopago

import (
	"context"
	"errors"
	"strconv"
	"strings"

	sdkconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

const (
	// PaymentStatusApproved is the only payment status that grants a
	// subscription extension.
	PaymentStatusApproved = "approved"
)

var (
	errAccessTokenRequired = errors.New("mercadopago access token is required")
)

// preferenceAPI is the slice of the SDK preference client we call.
type preferenceAPI interface {
	Create(ctx context.Context, request preference.Request) (*preference.Response, error)
}

// paymentAPI is the slice of the SDK payment client we call.
type paymentAPI interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

// Client wraps the official MercadoPago SDK behind the domain types used for
// subscription payments.
type Client struct {
	preferences preferenceAPI
	payments    paymentAPI
}

// NewClient builds the MercadoPago client given an access token.
func NewClient(accessToken string) (*Client, error) {
	trimmedToken := strings.TrimSpace(accessToken)
	if trimmedToken == "" {
		return nil, errAccessTokenRequired
	}

	cfg, err := sdkconfig.New(trimmedToken)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "configure mercadopago sdk")
	}

	return &Client{
		preferences: preference.NewClient(cfg),
		payments:    payment.NewClient(cfg),
	}, nil
}

// PreferenceItem is one line of a checkout preference.
type PreferenceItem struct {
	Title      string
	Quantity   int
	UnitPrice  decimal.Decimal
	CurrencyID string
}

// PreferenceRequest describes a hosted checkout preference.
type PreferenceRequest struct {
	Items             []PreferenceItem
	ExternalReference string
	NotificationURL   string
	BackURLs          *BackURLs
	AutoReturn        string
}

// BackURLs holds the redirect targets after a hosted checkout.
type BackURLs struct {
	Success string
	Pending string
	Failure string
}

// Preference is the created checkout preference.
type Preference struct {
	ID               string
	InitPoint        string
	SandboxInitPoint string
}

// Payment is the normalized payment data returned by the payments API.
type Payment struct {
	ID                int64
	Status            string
	StatusDetail      string
	ExternalReference string
	TransactionAmount decimal.Decimal
}

// Approved reports whether the payment completed successfully.
func (p *Payment) Approved() bool {
	return p != nil && p.Status == PaymentStatusApproved
}

// CreatePreference creates a hosted checkout preference and returns its
// redirect URL.
func (c *Client) CreatePreference(ctx context.Context, req PreferenceRequest) (*Preference, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mercadopago client not configured")
	}
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "preference items are required")
	}

	resp, err := c.preferences.Create(ctx, req.toSDKRequest())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create mercadopago preference")
	}
	if resp == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mercadopago returned an empty preference")
	}

	return &Preference{
		ID:               resp.ID,
		InitPoint:        resp.InitPoint,
		SandboxInitPoint: resp.SandboxInitPoint,
	}, nil
}

// GetPayment fetches the canonical payment data for a payment ID received via
// webhook. Notifications only carry the ID; the status is never trusted from
// the notification body itself.
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mercadopago client not configured")
	}
	trimmed := strings.TrimSpace(paymentID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment ID is required")
	}
	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment ID must be numeric")
	}

	resp, err := c.payments.Get(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch mercadopago payment")
	}
	if resp == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
	}

	return &Payment{
		ID:                int64(resp.ID),
		Status:            resp.Status,
		StatusDetail:      resp.StatusDetail,
		ExternalReference: resp.ExternalReference,
		TransactionAmount: decimal.NewFromFloat(resp.TransactionAmount),
	}, nil
}

func (r PreferenceRequest) toSDKRequest() preference.Request {
	items := make([]preference.ItemRequest, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, preference.ItemRequest{
			Title:      item.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.InexactFloat64(),
			CurrencyID: item.CurrencyID,
		})
	}

	req := preference.Request{
		Items:             items,
		ExternalReference: r.ExternalReference,
		NotificationURL:   r.NotificationURL,
		AutoReturn:        r.AutoReturn,
	}
	if r.BackURLs != nil {
		req.BackURLs = &preference.BackURLsRequest{
			Success: r.BackURLs.Success,
			Pending: r.BackURLs.Pending,
			Failure: r.BackURLs.Failure,
		}
	}
	return req
}
