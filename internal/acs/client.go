package acs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	_defaultQueryTimeout  = 3 * time.Second
	_defaultSubmitTimeout = 10 * time.Second
	_maxResponseBody      = 1 << 20
)

type Config struct {
	BaseURL       string
	QueryTimeout  time.Duration
	SubmitTimeout time.Duration
}

func NewHTTPClient(config Config) *HTTPClient {
	queryTimeout := config.QueryTimeout
	if queryTimeout == 0 {
		queryTimeout = _defaultQueryTimeout
	}
	submitTimeout := config.SubmitTimeout
	if submitTimeout == 0 {
		submitTimeout = _defaultSubmitTimeout
	}

	return &HTTPClient{
		baseURL:      config.BaseURL,
		queryClient:  &http.Client{Timeout: queryTimeout},
		submitClient: &http.Client{Timeout: submitTimeout},
	}
}

var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the ACS REST API. Queries use a short timeout, task
// submission a longer one since it may wait for a connection request.
type HTTPClient struct {
	baseURL      string
	queryClient  *http.Client
	submitClient *http.Client
}

func (c *HTTPClient) SubmitTask(ctx context.Context, deviceID, kind string, parameters map[string]any) (string, error) {
	task := make(map[string]any, len(parameters)+1)
	for k, v := range parameters {
		task[k] = v
	}
	task["name"] = kind

	body, err := json.Marshal(task)
	if err != nil {
		return "", fmt.Errorf("marshaling task: %w", err)
	}

	endpoint := fmt.Sprintf("%s/devices/%s/tasks?connection_request", c.baseURL, url.PathEscape(deviceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(c.submitClient, req)
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: task response missing _id", ErrMalformedResponse)
	}

	return created.ID, nil
}

func (c *HTTPClient) CancelTask(ctx context.Context, externalID string) error {
	endpoint := fmt.Sprintf("%s/tasks/%s", c.baseURL, url.PathEscape(externalID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	_, err = c.do(c.queryClient, req)
	return err
}

func (c *HTTPClient) ListDevices(ctx context.Context) ([]map[string]any, error) {
	endpoint := fmt.Sprintf("%s/devices", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	data, err := c.do(c.queryClient, req)
	if err != nil {
		return nil, err
	}

	var devices []map[string]any
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return devices, nil
}

func (c *HTTPClient) GetDevice(ctx context.Context, deviceID string) (map[string]any, error) {
	query := fmt.Sprintf(`{"_id":%q}`, deviceID)
	endpoint := fmt.Sprintf("%s/devices/?query=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	data, err := c.do(c.queryClient, req)
	if err != nil {
		return nil, err
	}

	var devices []map[string]any
	if err := json.Unmarshal(data, &devices); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(devices) == 0 {
		return nil, ErrDeviceNotFound
	}

	return devices[0], nil
}

func (c *HTTPClient) do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUpstreamUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	return data, nil
}
