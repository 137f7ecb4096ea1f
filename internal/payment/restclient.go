package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ms-storefront/internal/auth"
	"ms-storefront/internal/logger"
	"ms-storefront/internal/monitoring"
)

const defaultRequestError = "Erro na requisição"

// RequestError is a non-2xx answer from a payment backend.
type RequestError struct {
	StatusCode int
	Path       string
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// RESTClient speaks JSON with bearer auth to the payment backend. The bearer
// token is taken from the request context.
type RESTClient struct {
	baseURL string
	client  *http.Client
	logger  *logger.Logger
}

func NewRESTClient(baseURL string, timeout time.Duration, log *logger.Logger) *RESTClient {
	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  log,
	}
}

func (c *RESTClient) do(ctx context.Context, method, path string, body, out interface{}) (err error) {
	start := time.Now()
	route, _, _ := strings.Cut(path, "?")
	defer func() {
		monitoring.TrackRemoteCall("payment", method+" "+route, err, time.Since(start))
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := auth.TokenFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("payment backend unreachable: %w", err)
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Error("PAYMENT", fmt.Sprintf("Failed to close response body: %v", err))
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &failure)
		msg := failure.Error
		if msg == "" {
			msg = defaultRequestError
		}
		c.logger.Debug("PAYMENT", fmt.Sprintf("%s %s returned %d: %s", method, route, resp.StatusCode, msg))
		return &RequestError{StatusCode: resp.StatusCode, Path: route, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
