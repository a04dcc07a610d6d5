package webhooks

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mpwebhook "github.com/emilianovazquez/pedilo-backend/internal/webhooks/mercadopago"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

type recordingWebhookService struct {
	got []mpwebhook.Notification
}

func (s *recordingWebhookService) Handle(ctx context.Context, notification mpwebhook.Notification) error {
	s.got = append(s.got, notification)
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestWebhookParsesQueryParams(t *testing.T) {
	svc := &recordingWebhookService{}
	handler := MercadoPagoWebhook(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago?type=payment&data.id=987", nil)
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.got) != 1 {
		t.Fatalf("expected one notification, got %d", len(svc.got))
	}
	if svc.got[0].Type != "payment" || svc.got[0].PaymentID != "987" {
		t.Fatalf("bad notification: %+v", svc.got[0])
	}
}

func TestWebhookParsesJSONBody(t *testing.T) {
	svc := &recordingWebhookService{}
	handler := MercadoPagoWebhook(svc, testLogger())

	body := `{"type":"payment","data":{"id":"12345"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.got) != 1 || svc.got[0].PaymentID != "12345" {
		t.Fatalf("bad notification: %+v", svc.got)
	}
}

func TestWebhookParsesLegacyResource(t *testing.T) {
	svc := &recordingWebhookService{}
	handler := MercadoPagoWebhook(svc, testLogger())

	body := `{"topic":"payment","resource":"https://api.mercadopago.com/v1/payments/555"}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if len(svc.got) != 1 || svc.got[0].PaymentID != "555" {
		t.Fatalf("bad notification: %+v", svc.got)
	}
}

func TestWebhookIgnoresUnknownTopics(t *testing.T) {
	svc := &recordingWebhookService{}
	handler := MercadoPagoWebhook(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/mercadopago", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	handler(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unknown topics must still be acknowledged, got %d", resp.Code)
	}
	if len(svc.got) != 0 {
		t.Fatalf("service must not be called for empty notifications")
	}
}
