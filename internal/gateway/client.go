// Package gateway is the HTTP client for the remote classifier and document store.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"idreview/internal/config"
	"idreview/internal/domain"
	"idreview/internal/port"
	"idreview/internal/resilience"
)

const (
	OpClassify = "classify"
	OpList     = "list"
	OpUpdate   = "update"
)

// maxResponseBytes caps response bodies; documents embed their image as base64.
const maxResponseBytes = 64 << 20

// Client implements port.RemoteGateway over HTTP.
type Client struct {
	baseURL  string
	client   *http.Client
	exec     *resilience.Executor
	observer port.GatewayObserver
}

// NewClient creates a gateway client from config.
func NewClient(cfg *config.GatewayConfig, rcfg *config.ResilienceConfig, observer port.GatewayObserver) *Client {
	return NewClientWithHTTPClient(cfg.BaseURL, &http.Client{Timeout: cfg.Timeout()}, PolicyFromConfig(rcfg), observer)
}

// NewClientWithHTTPClient creates a client with an explicit base URL and HTTP client (for testing).
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client, policy resilience.Policy, observer port.GatewayObserver) *Client {
	return &Client{
		baseURL:  baseURL,
		client:   httpClient,
		exec:     resilience.NewExecutor(policy),
		observer: observer,
	}
}

// PolicyFromConfig converts resilience settings into an executor policy.
func PolicyFromConfig(rcfg *config.ResilienceConfig) resilience.Policy {
	p := resilience.DefaultPolicy()
	if rcfg == nil {
		return p
	}
	p.MaxAttempts = rcfg.MaxRetries + 1
	p.InitialBackoff = rcfg.InitialBackoff
	p.MaxBackoff = rcfg.MaxBackoff
	p.BreakerEnabled = rcfg.BreakerEnabled
	if rcfg.BreakerMinRequests > 0 {
		p.BreakerMinRequests = uint32(rcfg.BreakerMinRequests)
	}
	p.BreakerFailureRatio = rcfg.BreakerFailureRatio
	p.BreakerOpenTimeout = rcfg.BreakerOpenTimeout
	return p
}

// Classify uploads the image for classification and extraction. It is never retried
// because each successful call creates a record.
func (c *Client) Classify(ctx context.Context, input port.ClassifyInput) (*domain.Document, error) {
	var doc domain.Document
	err := c.do(ctx, OpClassify, false, func(ctx context.Context) error {
		body, contentType, err := multipartImage(input)
		if err != nil {
			return &RemoteError{Op: OpClassify, Message: err.Error(), Err: err}
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", body)
		if err != nil {
			return &RemoteError{Op: OpClassify, Message: err.Error(), Err: err}
		}
		req.Header.Set("Content-Type", contentType)
		return c.roundTrip(req, OpClassify, &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// List fetches up to limit documents, most recently updated first.
func (c *Client) List(ctx context.Context, limit int) ([]domain.Document, error) {
	var docs []domain.Document
	err := c.do(ctx, OpList, true, func(ctx context.Context) error {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(limit))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents/?"+q.Encode(), http.NoBody)
		if err != nil {
			return &RemoteError{Op: OpList, Message: err.Error(), Err: err}
		}
		docs = nil
		return c.roundTrip(req, OpList, &docs)
	})
	if err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []domain.Document{}
	}
	return docs, nil
}

// Update replaces a document's features. The response carries the server's updated_at.
func (c *Client) Update(ctx context.Context, id int64, input port.UpdateInput) (*domain.Document, error) {
	if input.Features == nil {
		input.Features = domain.Features{}
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshaling update: %w", err)
	}
	var doc domain.Document
	err = c.do(ctx, OpUpdate, true, func(ctx context.Context) error {
		endpoint := c.baseURL + "/documents/" + strconv.FormatInt(id, 10)
		req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
		if err != nil {
			return &RemoteError{Op: OpUpdate, Message: err.Error(), Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		return c.roundTrip(req, OpUpdate, &doc)
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *Client) do(ctx context.Context, op string, retryable bool, fn func(context.Context) error) error {
	start := time.Now()
	err := c.exec.Do(ctx, op, retryable, fn, classify)
	if err != nil && resilience.IsCircuitOpen(err) {
		err = &RemoteError{Op: op, Message: "service temporarily unavailable", Err: err}
	}
	if c.observer != nil {
		c.observer.ObserveGatewayCall(op, outcome(err), time.Since(start))
	}
	return err
}

func (c *Client) roundTrip(req *http.Request, op string, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return newTransportError(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return newTransportError(op, fmt.Errorf("reading response: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return newAPIError(op, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &RemoteError{
			Op:      op,
			Status:  resp.StatusCode,
			Message: "invalid response from server",
			Err:     fmt.Errorf("unmarshaling response: %w", err),
		}
	}
	return nil
}

func multipartImage(input port.ClassifyInput) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	filename := input.Filename
	if filename == "" {
		filename = "uploaded_image.png"
	}
	contentType := input.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("creating form part: %w", err)
	}
	if _, err := part.Write(input.Data); err != nil {
		return nil, "", fmt.Errorf("writing form part: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("closing form: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		if resilience.IsCircuitOpen(remoteErr.Err) {
			return "circuit_open"
		}
		return string(remoteErr.Kind()) + "_error"
	}
	return "error"
}
