package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	tdsmodels "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models"
	api_models "gitlab.com/sensegrid1/tds.dashboard_server/src/production/TDS.Models/api"
)

// ErrConnectivity marks failures where no response arrived at all, as
// opposed to a structured error returned by the API
var ErrConnectivity = errors.New("failed to connect to the server")

// APIError is a structured error returned inside the response envelope
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// APIClient handles communication with the API service
type APIClient struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewAPIClient creates a new API client with a bounded request timeout
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetToken attaches a bearer token to subsequent requests
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// ClearToken removes the bearer token. This is the whole of logout:
// tokens are stateless and stay valid server-side until expiry.
func (c *APIClient) ClearToken() {
	c.SetToken("")
}

// envelope mirrors the {success, data, error} wrapper of every endpoint
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Signup registers an account and returns the account summary with its
// session token
func (c *APIClient) Signup(ctx context.Context, name, email, password, role string) (*api_models.AuthData, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	if role != "" {
		body["role"] = role
	}

	var data api_models.AuthData
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Login authenticates and returns the account summary with its token
func (c *APIClient) Login(ctx context.Context, email, password string) (*api_models.AuthData, error) {
	body := map[string]string{"email": email, "password": password}

	var data api_models.AuthData
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// Me returns the account the current token belongs to
func (c *APIClient) Me(ctx context.Context) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// GetLatest fetches the most recent readings across all devices
func (c *APIClient) GetLatest(ctx context.Context) ([]tdsmodels.DeviceData, error) {
	var data []tdsmodels.DeviceData
	if err := c.do(ctx, http.MethodGet, "/api/data/latest", nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// GetByDevice fetches the most recent readings for one device
func (c *APIClient) GetByDevice(ctx context.Context, deviceID string) ([]tdsmodels.DeviceData, error) {
	var data []tdsmodels.DeviceData
	if err := c.do(ctx, http.MethodGet, "/api/data/device/"+deviceID, nil, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// CreateReading writes a new reading. Requires an admin token.
func (c *APIClient) CreateReading(ctx context.Context, deviceID string, temperature, humidity float64) (*tdsmodels.DeviceData, error) {
	body := map[string]interface{}{
		"deviceId":    deviceID,
		"temperature": temperature,
		"humidity":    humidity,
	}

	var data tdsmodels.DeviceData
	if err := c.do(ctx, http.MethodPost, "/api/data", body, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// DeleteReading removes a reading by identifier. Requires an admin token.
func (c *APIClient) DeleteReading(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/data/"+id, nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnectivity, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%w: malformed response", ErrConnectivity)
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}

	return nil
}
