package resolver

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ManuelReschke/SellerDesk/internal/pkg/normalize"
)

const maxResponseBytes = 8 << 20

// HTTPCaller performs candidates over HTTP.
type HTTPCaller struct {
	HTTPClient *http.Client
	// Header is sent with every request (e.g. Authorization); candidate
	// headers take precedence.
	Header http.Header
}

// NewHTTPCaller creates a caller with the given per-request timeout.
func NewHTTPCaller(timeout time.Duration, token string) *HTTPCaller {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	header := http.Header{}
	if t := strings.TrimSpace(token); t != "" {
		header.Set("Authorization", "Bearer "+t)
	}
	return &HTTPCaller{
		HTTPClient: &http.Client{Timeout: timeout},
		Header:     header,
	}
}

// Call sends the candidate and classifies the response.
func (h *HTTPCaller) Call(ctx context.Context, c Candidate) (Outcome, error) {
	var body io.Reader
	if !c.Body.IsZero() {
		body = c.Body.Reader()
	}
	req, err := http.NewRequestWithContext(ctx, c.Method, c.URL, body)
	if err != nil {
		return Outcome{}, fmt.Errorf("build request: %w", err)
	}
	for k, vals := range h.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	for k, vals := range c.Header {
		req.Header.Del(k)
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	if ct := c.Body.ContentType(); ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	client := h.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return Outcome{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Outcome{}, fmt.Errorf("read response: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")

	switch Classify(resp.StatusCode) {
	case OutcomeSuccess:
		return Success(resp.StatusCode, contentType, payload), nil
	case OutcomeNotFound:
		return NotFound(normalize.ErrorMessage(payload, contentType)), nil
	default:
		msg := normalize.ErrorMessage(payload, contentType)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Failure(resp.StatusCode, msg), nil
	}
}
