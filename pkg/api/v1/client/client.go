// Package client provides the API client for interacting with the vmplane API
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/vmplane/vmplane/internal/api/v1/routes"
	"github.com/vmplane/vmplane/internal/db/models"
	"github.com/vmplane/vmplane/internal/types"
)

// DefaultTimeout is the default timeout for API requests
const DefaultTimeout = 30 * time.Second

// Client is the interface for the API client
type Client interface {
	// Health check
	HealthCheck(ctx context.Context) (map[string]string, error)

	// Auth endpoints
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
	SetAuthToken(token string)

	// VM endpoints
	GetVMs(ctx context.Context) ([]models.VM, error)
	GetVM(ctx context.Context, id uint) (models.VM, error)
	CreateVM(ctx context.Context, req types.VMRequest) (types.CreateVMResponse, error)
	CreateVMBatch(ctx context.Context, req types.BatchVMRequest) (types.BatchCreateVMResponse, error)
}

var _ Client = &APIClient{}

// Options contains configuration options for the API client
type Options struct {
	// BaseURL is the base URL of the API
	BaseURL string

	// Timeout is the request timeout
	Timeout time.Duration
}

// DefaultOptions returns the default client options
func DefaultOptions() *Options {
	return &Options{
		BaseURL: routes.DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// APIClient implements the Client interface
type APIClient struct {
	baseURL   string
	timeout   time.Duration
	authToken string
}

// NewClient creates a new API client with the given options
func NewClient(opts *Options) (Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	return &APIClient{
		baseURL: opts.BaseURL,
		timeout: opts.Timeout,
	}, nil
}

// SetAuthToken sets the bearer token used by subsequent requests
func (c *APIClient) SetAuthToken(token string) {
	c.authToken = token
}

// createAgent creates a new fiber Agent for the given method and endpoint
func (c *APIClient) createAgent(method, endpoint string, body interface{}) (*fiber.Agent, error) {
	fullURL := c.baseURL + endpoint

	var agent *fiber.Agent
	switch method {
	case http.MethodGet:
		agent = fiber.Get(fullURL)
	case http.MethodPost:
		agent = fiber.Post(fullURL)
	case http.MethodDelete:
		agent = fiber.Delete(fullURL)
	default:
		return nil, fmt.Errorf("unsupported HTTP method: %s", method)
	}

	agent.Timeout(c.timeout)
	if c.authToken != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.authToken)
	}
	if body != nil {
		agent.JSON(body)
	}
	return agent, nil
}

// do executes the agent request and decodes the JSON response into out
func (c *APIClient) do(agent *fiber.Agent, out interface{}) error {
	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request failed: %w", errs[0])
	}

	if code >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (status %d): %s", code, apiErr.Error)
		}
		return fmt.Errorf("api error (status %d)", code)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// HealthCheck checks that the API server is reachable
func (c *APIClient) HealthCheck(_ context.Context) (map[string]string, error) {
	agent, err := c.createAgent(http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	var status map[string]string
	if err := c.do(agent, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// Login authenticates and stores the returned token on the client
func (c *APIClient) Login(_ context.Context, username, password string) (string, error) {
	agent, err := c.createAgent(http.MethodPost, routes.APIv1Prefix+routes.LoginEndpoint, types.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	var resp types.LoginResponse
	if err := c.do(agent, &resp); err != nil {
		return "", err
	}
	c.authToken = resp.Token
	return resp.Token, nil
}

// Logout revokes the client's current session
func (c *APIClient) Logout(_ context.Context) error {
	agent, err := c.createAgent(http.MethodPost, routes.APIv1Prefix+routes.LogoutEndpoint, nil)
	if err != nil {
		return err
	}
	if err := c.do(agent, nil); err != nil {
		return err
	}
	c.authToken = ""
	return nil
}

// GetVMs returns all VM records, newest first
func (c *APIClient) GetVMs(_ context.Context) ([]models.VM, error) {
	agent, err := c.createAgent(http.MethodGet, routes.APIv1Prefix+routes.VMsEndpoint, nil)
	if err != nil {
		return nil, err
	}
	var vms []models.VM
	if err := c.do(agent, &vms); err != nil {
		return nil, err
	}
	return vms, nil
}

// GetVM returns one VM record by id
func (c *APIClient) GetVM(_ context.Context, id uint) (models.VM, error) {
	agent, err := c.createAgent(http.MethodGet, fmt.Sprintf("%s%s/%d", routes.APIv1Prefix, routes.VMsEndpoint, id), nil)
	if err != nil {
		return models.VM{}, err
	}
	var vm models.VM
	if err := c.do(agent, &vm); err != nil {
		return models.VM{}, err
	}
	return vm, nil
}

// CreateVM submits a single VM creation request
func (c *APIClient) CreateVM(_ context.Context, req types.VMRequest) (types.CreateVMResponse, error) {
	agent, err := c.createAgent(http.MethodPost, routes.APIv1Prefix+routes.VMsEndpoint, req)
	if err != nil {
		return types.CreateVMResponse{}, err
	}
	var resp types.CreateVMResponse
	if err := c.do(agent, &resp); err != nil {
		return types.CreateVMResponse{}, err
	}
	return resp, nil
}

// CreateVMBatch submits a batch VM creation request
func (c *APIClient) CreateVMBatch(_ context.Context, req types.BatchVMRequest) (types.BatchCreateVMResponse, error) {
	agent, err := c.createAgent(http.MethodPost, routes.APIv1Prefix+routes.VMsBatchEndpoint, req)
	if err != nil {
		return types.BatchCreateVMResponse{}, err
	}
	var resp types.BatchCreateVMResponse
	if err := c.do(agent, &resp); err != nil {
		return types.BatchCreateVMResponse{}, err
	}
	return resp, nil
}
