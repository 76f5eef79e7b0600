// Package client talks to the remote visitor API over HTTP/JSON.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"visitor-console/internal/form"
	"visitor-console/internal/model"
)

// ErrNotFound is returned when the remote API answers 404.
var ErrNotFound = errors.New("not found")

// StatusError is a non-2xx answer other than 404.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// DefaultLimit is the page size used when a caller passes zero.
const DefaultLimit = 500

// Client is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// New returns a client for baseURL. An empty apiKey sends no X-Api-Key header.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func withLimit(path string, limit int) string {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return path + "?limit=" + strconv.Itoa(limit)
}

// SubmitEquipment posts a finalized equipment form.
func (c *Client) SubmitEquipment(ctx context.Context, payload form.Payload) error {
	return c.do(ctx, http.MethodPost, "/equipment", payload, nil)
}

var _ form.Submitter = (*Client)(nil)

type equipmentList struct {
	EquipmentLogs []model.EquipmentLog `json:"equipment_logs"`
}

// ListEquipment fetches the most recent equipment logs.
func (c *Client) ListEquipment(ctx context.Context, limit int) ([]model.EquipmentLog, error) {
	var out equipmentList
	if err := c.do(ctx, http.MethodGet, withLimit("/equipment", limit), nil, &out); err != nil {
		return nil, err
	}
	return out.EquipmentLogs, nil
}

// ListUserEquipment fetches one user's equipment logs.
func (c *Client) ListUserEquipment(ctx context.Context, userID string, limit int) ([]model.EquipmentLog, error) {
	var out equipmentList
	path := withLimit("/equipment/"+url.PathEscape(userID), limit)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.EquipmentLogs, nil
}

// PatchEquipment sends an edited log. The user id goes in the path only.
func (c *Client) PatchEquipment(ctx context.Context, log model.EquipmentLog) error {
	data, err := json.Marshal(log)
	if err != nil {
		return fmt.Errorf("failed to marshal equipment log: %w", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("failed to marshal equipment log: %w", err)
	}
	delete(body, "user_id")
	return c.do(ctx, http.MethodPatch, "/equipment/"+url.PathEscape(log.UserID), body, nil)
}

// ListVisits fetches the most recent visits.
func (c *Client) ListVisits(ctx context.Context, limit int) ([]model.Visit, error) {
	return c.visits(ctx, withLimit("/visits", limit))
}

// ListUserVisits fetches one user's visits.
func (c *Client) ListUserVisits(ctx context.Context, userID string, limit int) ([]model.Visit, error) {
	return c.visits(ctx, withLimit("/visits/"+url.PathEscape(userID), limit))
}

func (c *Client) visits(ctx context.Context, path string) ([]model.Visit, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	visits, err := decodeVisits(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode GET %s: %w", path, err)
	}
	return visits, nil
}

// decodeVisits accepts both {"visits": [...]} and a bare array.
func decodeVisits(raw json.RawMessage) ([]model.Visit, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var visits []model.Visit
		if err := json.Unmarshal(trimmed, &visits); err != nil {
			return nil, err
		}
		return visits, nil
	case '{':
		var wrapped struct {
			Visits []model.Visit `json:"visits"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, err
		}
		return wrapped.Visits, nil
	default:
		return nil, fmt.Errorf("unexpected JSON structure")
	}
}

// GetQualifications looks a user's trainings up. A missing user yields
// ErrNotFound.
func (c *Client) GetQualifications(ctx context.Context, userID string) (model.Qualifications, error) {
	var out model.Qualifications
	err := c.do(ctx, http.MethodGet, "/qualifications/"+url.PathEscape(userID), nil, &out)
	return out, err
}

// RefreshTrainings asks the remote to re-sync qualifications.
func (c *Client) RefreshTrainings(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/tiger_training", nil, nil)
}

// RegisterUser posts a registration.
func (c *Client) RegisterUser(ctx context.Context, reg model.Registration) error {
	return c.do(ctx, http.MethodPost, "/users", reg, nil)
}

// SubmitVisit records a visit.
func (c *Client) SubmitVisit(ctx context.Context, v model.Visit) error {
	return c.do(ctx, http.MethodPost, "/visits", v, nil)
}
