// Package wabridge talks to the self-hosted WhatsApp bridge that keeps one
// WhatsApp Web session per store. The bridge exposes a small REST surface for
// creating instances, polling their QR/connection state, and disconnecting.
package wabridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/emilianovazquez/pedilo-backend/pkg/errors"
)

const (
	responseBodyReadLimit int64 = 1024

	// InstanceStateConnected means the store's WhatsApp Web session is paired
	// and able to receive handoff messages.
	InstanceStateConnected = "connected"
	// InstanceStateAwaitingQR means the bridge is waiting for the operator to
	// scan the pairing QR code.
	InstanceStateAwaitingQR = "awaiting_qr"
	// InstanceStateDisconnected means no active session exists.
	InstanceStateDisconnected = "disconnected"
)

var (
	errBaseURLRequired = errors.New("whatsapp bridge base URL is required")
)

// Client wraps the WhatsApp bridge REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the bridge client. The API key may be empty when the
// bridge runs without auth on a private network.
func NewClient(baseURL string, apiKey string, opts ...Option) (*Client, error) {
	trimmedURL := strings.TrimSpace(baseURL)
	if trimmedURL == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmedURL,
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return client, nil
}

// Instance is the bridge's view of one store session.
type Instance struct {
	ID     string `json:"id"`
	State  string `json:"state"`
	Phone  *string `json:"phone,omitempty"`
	QRCode *string `json:"qr_code,omitempty"`
}

// Connected reports whether the session can deliver messages.
func (i *Instance) Connected() bool {
	return i != nil && i.State == InstanceStateConnected
}

// CreateInstance provisions a session for the given store and returns the
// pairing QR payload.
func (c *Client) CreateInstance(ctx context.Context, storeID string) (*Instance, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "whatsapp bridge client not configured")
	}
	trimmed := strings.TrimSpace(storeID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store ID is required")
	}

	payload, err := json.Marshal(map[string]string{"store_id": trimmed})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal instance request")
	}

	var instance Instance
	if err := c.do(ctx, http.MethodPost, "instances", bytes.NewReader(payload), &instance); err != nil {
		return nil, err
	}
	return &instance, nil
}

// GetInstance fetches the current state of a session.
func (c *Client) GetInstance(ctx context.Context, instanceID string) (*Instance, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "whatsapp bridge client not configured")
	}
	trimmed := strings.TrimSpace(instanceID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "instance ID is required")
	}

	var instance Instance
	if err := c.do(ctx, http.MethodGet, "instances/"+url.PathEscape(trimmed), nil, &instance); err != nil {
		return nil, err
	}
	return &instance, nil
}

// DeleteInstance tears the session down. A missing instance is not an error;
// the goal state is already reached.
func (c *Client) DeleteInstance(ctx context.Context, instanceID string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "whatsapp bridge client not configured")
	}
	trimmed := strings.TrimSpace(instanceID)
	if trimmed == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "instance ID is required")
	}

	err := c.do(ctx, http.MethodDelete, "instances/"+url.PathEscape(trimmed), nil, nil)
	if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
		return nil
	}
	return err
}

func (c *Client) do(ctx context.Context, method string, path string, body io.Reader, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build bridge request")
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		httpReq.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute bridge request")
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "bridge instance not found")
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "bridge request failed")
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode bridge response")
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}
