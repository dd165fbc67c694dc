package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

const (
	defaultHTTPTimeout          = 10 * time.Second
	responseBodyReadLimit int64 = 1024
)

var errURLRequired = errors.New("checkout url is required")

// HTTPTransport posts the cart snapshot to a remote checkout endpoint.
type HTTPTransport struct {
	httpClient *http.Client
	url        string
}

// HTTPOption configures optional transport behavior.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(t *HTTPTransport) {
		if client != nil {
			t.httpClient = client
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(t *HTTPTransport) {
		if timeout > 0 {
			t.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

func NewHTTPTransport(url string, opts ...HTTPOption) (*HTTPTransport, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil, errURLRequired
	}
	t := &HTTPTransport{
		url:        trimmed,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t, nil
}

type httpCheckoutRequest struct {
	CheckoutID string         `json:"checkout_id"`
	Items      map[string]int `json:"items"`
}

func (t *HTTPTransport) Checkout(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(httpCheckoutRequest{CheckoutID: req.ID, Items: req.Items})
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode checkout request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(payload))
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build checkout request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if req.ID != "" {
		httpReq.Header.Set("Idempotency-Key", req.ID)
	}

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "checkout request failed")
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout response")
	}
	return result, nil
}
