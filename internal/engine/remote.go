package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// bearerTransport injects a Bearer token into every request when a token
// is set.
type bearerTransport struct {
	base  http.RoundTripper
	token string
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	return t.base.RoundTrip(req)
}

// NewHTTPClient creates an *http.Client for a remote engine.
// timeout is the per-request deadline (0 = no timeout).
func NewHTTPClient(timeout time.Duration, token string) *http.Client {
	token = strings.TrimSpace(token)
	var transport http.RoundTripper = http.DefaultTransport
	if token != "" {
		transport = &bearerTransport{base: transport, token: token}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// StatusError is returned when the remote engine answers with a non-2xx
// status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("engine responded with status %d", e.StatusCode)
	}
	return fmt.Sprintf("engine responded with status %d: %s", e.StatusCode, e.Body)
}

// Remote calls an engine served by Handler.
type Remote struct {
	Client  *http.Client
	BaseURL string
}

func NewRemote(baseURL string, timeout time.Duration, token string) *Remote {
	return &Remote{Client: NewHTTPClient(timeout, token), BaseURL: baseURL}
}

func (r *Remote) Calculate(ctx context.Context, req Request) (*Result, error) {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	base := strings.TrimRight(strings.TrimSpace(r.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("remote engine url is not set")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/calculate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")

	resp, err := client.Do(hreq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	var res Result
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode engine response: %w", err)
	}
	logf(req.ID, "remote result success=%t", res.Success)
	return &res, nil
}
