package wabridge

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestClientCreateInstanceRequest(t *testing.T) {
	const expectedURL = "http://bridge.test/instances"
	respBody := `{"id":"inst_7","state":"awaiting_qr","qr_code":"data:image/png;base64,QQ=="}`

	var capturedURL, capturedMethod string
	var capturedHeaders http.Header

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedMethod = req.Method
		capturedHeaders = req.Header.Clone()
		return &http.Response{
			StatusCode: http.StatusCreated,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("http://bridge.test", "bridge-key", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	instance, err := client.CreateInstance(context.Background(), "store_1")
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	if capturedURL != expectedURL || capturedMethod != http.MethodPost {
		t.Fatalf("unexpected request %s %s", capturedMethod, capturedURL)
	}
	if capturedHeaders.Get("X-Api-Key") != "bridge-key" {
		t.Fatalf("api key header missing")
	}
	if instance.ID != "inst_7" || instance.State != InstanceStateAwaitingQR {
		t.Fatalf("unexpected instance %+v", instance)
	}
	if instance.Connected() {
		t.Fatal("awaiting_qr instance must not report connected")
	}
}

func TestClientGetInstanceConnected(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/instances/inst_7" {
			t.Fatalf("unexpected path %q", req.URL.Path)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"id":"inst_7","state":"connected","phone":"5491122334455"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("http://bridge.test", "", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	instance, err := client.GetInstance(context.Background(), "inst_7")
	if err != nil {
		t.Fatalf("get instance: %v", err)
	}
	if !instance.Connected() {
		t.Fatalf("expected connected instance, got %+v", instance)
	}
}

func TestClientDeleteInstanceIgnoresMissing(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader(`{"message":"no such instance"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("http://bridge.test", "", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if err := client.DeleteInstance(context.Background(), "inst_gone"); err != nil {
		t.Fatalf("delete of missing instance should succeed, got %v", err)
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("   ", "key"); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
