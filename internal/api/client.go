// Package api talks to the remote timetable generation service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avoronov/schedtui/internal/schedule"
)

// DefaultTimeout bounds a single service call.
const DefaultTimeout = 15 * time.Second

const genericGenerateError = "failed to generate timetable"

// GenerationError carries the server-supplied message for a failed
// generation call. The message is shown to the user verbatim.
type GenerationError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	return e.Message
}

// Client is the gateway to the generation service. It keeps no state
// beyond the connection pool; every outcome is returned to the caller.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New builds a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Generate posts the form input and returns the validated result. A non-2xx
// response becomes a *GenerationError; a 2xx body missing required fields
// fails with schedule.ErrMalformed. No retries.
func (c *Client) Generate(ctx context.Context, req schedule.Request) (*schedule.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode generation request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeGenerationError(resp)
	}

	var result schedule.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", schedule.ErrMalformed, err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// decodeGenerationError prefers the server's {"error": ...} message and
// falls back to a generic one when the body does not decode.
func decodeGenerationError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	message := genericGenerateError
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	return &GenerationError{StatusCode: resp.StatusCode, Message: message}
}

// History fetches the list of past generation attempts.
func (c *Client) History(ctx context.Context) ([]schedule.HistoryEntry, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history", nil)
	if err != nil {
		return nil, fmt.Errorf("build history request: %w", err)
	}
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("history request: %w", err)
	}
	defer drainAndClose(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("history request: unexpected status %d", resp.StatusCode)
	}
	var entries []schedule.HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return entries, nil
}

// Locale fetches the translation dictionary for a language code.
func (c *Client) Locale(ctx context.Context, code string) (map[string]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lang/"+code, nil)
	if err != nil {
		return nil, fmt.Errorf("build locale request: %w", err)
	}
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("locale request: %w", err)
	}
	defer drainAndClose(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("locale request: unexpected status %d", resp.StatusCode)
	}
	var dict map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&dict); err != nil {
		return nil, fmt.Errorf("decode locale: %w", err)
	}
	return dict, nil
}

// ExportCSV posts the displayed timetable to the conversion endpoint and
// returns the binary body for the caller to save.
func (c *Client) ExportCSV(ctx context.Context, timetable map[string][]schedule.Session) ([]byte, error) {
	payload := struct {
		Timetable map[string][]schedule.Session `json:"timetable"`
	}{Timetable: timetable}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode export request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/export", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build export request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("export request: %w", err)
	}
	defer drainAndClose(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("export request: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read export body: %w", err)
	}
	return data, nil
}

func drainAndClose(body io.ReadCloser) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		// Best-effort drain to keep the connection reusable.
		_ = err
	}
	if err := body.Close(); err != nil {
		// Best-effort close.
		_ = err
	}
}
