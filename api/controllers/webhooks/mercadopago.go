package webhooks

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/emilianovazquez/pedilo-backend/api/responses"
	mpwebhook "github.com/emilianovazquez/pedilo-backend/internal/webhooks/mercadopago"
	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
	"github.com/emilianovazquez/pedilo-backend/pkg/logger"
)

const maxWebhookBody = 1 << 20

// mercadoPagoBody covers both notification shapes MercadoPago sends: the
// newer {"type","data":{"id"}} payload and the legacy topic/resource one.
type mercadoPagoBody struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
	Topic    string `json:"topic"`
	Resource string `json:"resource"`
}

// MercadoPagoWebhook receives payment notifications. Query parameters take
// precedence; the JSON body is the fallback. A non-2xx response makes
// MercadoPago retry the delivery.
func MercadoPagoWebhook(svc mpwebhook.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		notification := notificationFromQuery(r)

		if notification.Type == "" || notification.PaymentID == "" {
			body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unreadable webhook body"))
				return
			}
			if len(body) > 0 {
				fromBody, err := notificationFromBody(body)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, err)
					return
				}
				notification = merge(notification, fromBody)
			}
		}

		if notification.Type == "" {
			// Deliveries for topics we do not track are acknowledged so
			// MercadoPago stops resending them.
			responses.WriteSuccess(w, map[string]string{"status": "ignored"})
			return
		}

		if err := svc.Handle(r.Context(), notification); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "processed"})
	}
}

func notificationFromQuery(r *http.Request) mpwebhook.Notification {
	query := r.URL.Query()

	kind := strings.TrimSpace(query.Get("type"))
	if kind == "" {
		kind = strings.TrimSpace(query.Get("topic"))
	}

	id := strings.TrimSpace(query.Get("data.id"))
	if id == "" {
		id = strings.TrimSpace(query.Get("id"))
	}

	return mpwebhook.Notification{Type: kind, PaymentID: id}
}

func notificationFromBody(body []byte) (mpwebhook.Notification, error) {
	var payload mercadoPagoBody
	if err := json.Unmarshal(body, &payload); err != nil {
		return mpwebhook.Notification{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "malformed webhook body")
	}

	kind := strings.TrimSpace(payload.Type)
	if kind == "" {
		kind = strings.TrimSpace(payload.Topic)
	}

	id := strings.TrimSpace(payload.Data.ID)
	if id == "" && payload.Resource != "" {
		// Legacy notifications carry a resource URL; its last segment is
		// the payment ID.
		parts := strings.Split(strings.TrimRight(payload.Resource, "/"), "/")
		id = parts[len(parts)-1]
	}

	return mpwebhook.Notification{Type: kind, PaymentID: id}, nil
}

func merge(primary, fallback mpwebhook.Notification) mpwebhook.Notification {
	if primary.Type == "" {
		primary.Type = fallback.Type
	}
	if primary.PaymentID == "" {
		primary.PaymentID = fallback.PaymentID
	}
	return primary
}
