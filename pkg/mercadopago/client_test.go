package mercadopago

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

type fakePreferenceAPI struct {
	lastRequest preference.Request
	response    *preference.Response
	err         error
}

func (f *fakePreferenceAPI) Create(_ context.Context, request preference.Request) (*preference.Response, error) {
	f.lastRequest = request
	return f.response, f.err
}

type fakePaymentAPI struct {
	lastID   int
	response *payment.Response
	err      error
}

func (f *fakePaymentAPI) Get(_ context.Context, id int) (*payment.Response, error) {
	f.lastID = id
	return f.response, f.err
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for blank access token")
	}
}

func TestClientCreatePreference(t *testing.T) {
	api := &fakePreferenceAPI{
		response: &preference.Response{
			ID:        "pref_123",
			InitPoint: "https://mp.example/init/pref_123",
		},
	}
	client := &Client{preferences: api}

	pref, err := client.CreatePreference(context.Background(), PreferenceRequest{
		Items: []PreferenceItem{
			{Title: "Pedilo monthly plan", Quantity: 1, UnitPrice: decimal.NewFromFloat(4999.50), CurrencyID: "ARS"},
		},
		ExternalReference: "store_abc",
		NotificationURL:   "https://pedilo.test/webhooks/mercadopago",
		BackURLs:          &BackURLs{Success: "https://pedilo.test/done"},
		AutoReturn:        "approved",
	})
	if err != nil {
		t.Fatalf("CreatePreference returned error: %v", err)
	}
	if pref.ID != "pref_123" || pref.InitPoint != "https://mp.example/init/pref_123" {
		t.Fatalf("unexpected preference %+v", pref)
	}

	sent := api.lastRequest
	if sent.ExternalReference != "store_abc" || sent.AutoReturn != "approved" {
		t.Fatalf("request not mapped: %+v", sent)
	}
	if len(sent.Items) != 1 || sent.Items[0].Title != "Pedilo monthly plan" || sent.Items[0].UnitPrice != 4999.50 {
		t.Fatalf("items not mapped: %+v", sent.Items)
	}
	if sent.BackURLs == nil || sent.BackURLs.Success != "https://pedilo.test/done" {
		t.Fatalf("back URLs not mapped: %+v", sent.BackURLs)
	}
}

func TestClientCreatePreferenceRequiresItems(t *testing.T) {
	client := &Client{preferences: &fakePreferenceAPI{}}

	_, err := client.CreatePreference(context.Background(), PreferenceRequest{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientCreatePreferenceDependencyFailure(t *testing.T) {
	client := &Client{preferences: &fakePreferenceAPI{err: errors.New("upstream unavailable")}}

	_, err := client.CreatePreference(context.Background(), PreferenceRequest{
		Items: []PreferenceItem{{Title: "Plan", Quantity: 1, UnitPrice: decimal.NewFromInt(100)}},
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestClientGetPayment(t *testing.T) {
	api := &fakePaymentAPI{
		response: &payment.Response{
			ID:                987654,
			Status:            PaymentStatusApproved,
			StatusDetail:      "accredited",
			ExternalReference: "store_abc",
			TransactionAmount: 4999.50,
		},
	}
	client := &Client{payments: api}

	pay, err := client.GetPayment(context.Background(), "987654")
	if err != nil {
		t.Fatalf("GetPayment returned error: %v", err)
	}
	if api.lastID != 987654 {
		t.Fatalf("expected numeric ID forwarded, got %d", api.lastID)
	}
	if pay.ID != 987654 || pay.ExternalReference != "store_abc" {
		t.Fatalf("unexpected payment %+v", pay)
	}
	if !pay.TransactionAmount.Equal(decimal.NewFromFloat(4999.50)) {
		t.Fatalf("unexpected amount %s", pay.TransactionAmount)
	}
	if !pay.Approved() {
		t.Fatal("expected payment to be approved")
	}
}

func TestClientGetPaymentRejectsNonNumericID(t *testing.T) {
	client := &Client{payments: &fakePaymentAPI{}}

	_, err := client.GetPayment(context.Background(), "not-a-number")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClientGetPaymentNotApproved(t *testing.T) {
	api := &fakePaymentAPI{
		response: &payment.Response{ID: 11, Status: "rejected", StatusDetail: "cc_rejected_other_reason"},
	}
	client := &Client{payments: api}

	pay, err := client.GetPayment(context.Background(), "11")
	if err != nil {
		t.Fatalf("GetPayment returned error: %v", err)
	}
	if pay.Approved() {
		t.Fatal("rejected payment must not report approved")
	}
}
