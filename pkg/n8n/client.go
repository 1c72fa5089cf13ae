package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIKeyHeader is the engine's static auth header.
const APIKeyHeader = "X-N8N-API-KEY"

const defaultTimeout = 30 * time.Second

// Config holds the connection settings for one engine instance.
type Config struct {
	// BaseURL is the API root, usually ending in /api/v1.
	BaseURL string `yaml:"base_url" validate:"required,url"`

	// APIKey is attached to every request via the X-N8N-API-KEY header.
	APIKey string `yaml:"api_key" validate:"required"`

	// Timeout bounds each HTTP call. Zero selects the default; a negative
	// value disables the bound entirely.
	Timeout time.Duration `yaml:"timeout"`
}

// Client is a thin REST client for the engine API. It is safe for
// concurrent use; each call builds its own request and owns its response.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client from explicit configuration. There is no
// package-level instance: composition roots construct and inject it.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("n8n: base URL and API key are required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	} else if timeout < 0 {
		timeout = 0
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// WebhookURL synthesizes the public webhook address for a workflow. This
// is a string template only; it is not validated against the engine's
// routing table.
func (c *Client) WebhookURL(workflowID, webhookPath string) string {
	base := strings.TrimSuffix(c.baseURL, "/api/v1")

	path := webhookPath
	if path == "" {
		path = workflowID
	}

	return base + "/webhook/" + path
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewError("failed to encode request", 0, err)
		}

		c.logger.DebugContext(ctx, "engine request payload",
			"method", method, "path", path, "payload", string(payload))

		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return NewError("failed to build request", 0, err)
	}

	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return NewError("engine request failed", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewError("failed to read response", resp.StatusCode, err)
	}

	c.logger.DebugContext(ctx, "engine response",
		"method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp.StatusCode, respBody)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return NewError("failed to decode response", resp.StatusCode, err)
	}

	return nil
}

// statusError normalizes a non-2xx answer, preferring the engine's own
// message field when the body carries one.
func (c *Client) statusError(statusCode int, body []byte) *Error {
	apiErr := &Error{
		Err:        "engine returned " + strconv.Itoa(statusCode),
		StatusCode: statusCode,
	}

	var payload struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		apiErr.Message = payload.Message
	}

	return apiErr
}

// ==================== Workflows ====================

func (c *Client) CreateWorkflow(ctx context.Context, workflow *Workflow) (*Workflow, error) {
	var created Workflow
	if err := c.do(ctx, http.MethodPost, "/workflows", nil, workflow, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (c *Client) GetWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var workflow Workflow
	if err := c.do(ctx, http.MethodGet, "/workflows/"+id, nil, nil, &workflow); err != nil {
		return nil, err
	}

	return &workflow, nil
}

func (c *Client) UpdateWorkflow(ctx context.Context, id string, workflow *Workflow) (*Workflow, error) {
	var updated Workflow
	if err := c.do(ctx, http.MethodPut, "/workflows/"+id, nil, workflow, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (c *Client) DeleteWorkflow(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/workflows/"+id, nil, nil, nil)
}

// ListWorkflowsParams are the engine-side listing filters. The cursor is
// passed through opaquely.
type ListWorkflowsParams struct {
	Active *bool
	Tags   string
	Name   string
	Limit  int
	Cursor string
}

func (c *Client) ListWorkflows(ctx context.Context, params ListWorkflowsParams) (*Page[Workflow], error) {
	query := url.Values{}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	query.Set("limit", strconv.Itoa(limit))

	if params.Active != nil {
		query.Set("active", strconv.FormatBool(*params.Active))
	}

	if params.Tags != "" {
		query.Set("tags", params.Tags)
	}

	if params.Name != "" {
		query.Set("name", params.Name)
	}

	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}

	var page Page[Workflow]
	if err := c.do(ctx, http.MethodGet, "/workflows", query, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) ActivateWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var workflow Workflow
	if err := c.do(ctx, http.MethodPost, "/workflows/"+id+"/activate", nil, nil, &workflow); err != nil {
		return nil, err
	}

	return &workflow, nil
}

func (c *Client) DeactivateWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var workflow Workflow
	if err := c.do(ctx, http.MethodPost, "/workflows/"+id+"/deactivate", nil, nil, &workflow); err != nil {
		return nil, err
	}

	return &workflow, nil
}

// UpdateWorkflowTags replaces the tag set of a workflow.
func (c *Client) UpdateWorkflowTags(ctx context.Context, id string, tagIDs []string) error {
	payload := make([]map[string]string, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		payload = append(payload, map[string]string{"id": tagID})
	}

	return c.do(ctx, http.MethodPut, "/workflows/"+id+"/tags", nil, payload, nil)
}

// ==================== Credentials ====================

func (c *Client) CreateCredential(ctx context.Context, credential *Credential) (*Credential, error) {
	var created Credential
	if err := c.do(ctx, http.MethodPost, "/credentials", nil, credential, &created); err != nil {
		return nil, err
	}

	return &created, nil
}

func (c *Client) DeleteCredential(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/credentials/"+id, nil, nil, nil)
}

// ==================== Tags ====================

func (c *Client) CreateTag(ctx context.Context, name string) (*Tag, error) {
	var tag Tag
	if err := c.do(ctx, http.MethodPost, "/tags", nil, map[string]string{"name": name}, &tag); err != nil {
		return nil, err
	}

	return &tag, nil
}

func (c *Client) ListTags(ctx context.Context) (*Page[Tag], error) {
	var page Page[Tag]
	if err := c.do(ctx, http.MethodGet, "/tags", nil, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) GetTag(ctx context.Context, id string) (*Tag, error) {
	var tag Tag
	if err := c.do(ctx, http.MethodGet, "/tags/"+id, nil, nil, &tag); err != nil {
		return nil, err
	}

	return &tag, nil
}

func (c *Client) UpdateTag(ctx context.Context, id, name string) (*Tag, error) {
	var tag Tag
	if err := c.do(ctx, http.MethodPut, "/tags/"+id, nil, map[string]string{"name": name}, &tag); err != nil {
		return nil, err
	}

	return &tag, nil
}

func (c *Client) DeleteTag(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tags/"+id, nil, nil, nil)
}

// ==================== Executions ====================

func (c *Client) GetExecution(ctx context.Context, id string) (*Execution, error) {
	var execution Execution
	if err := c.do(ctx, http.MethodGet, "/executions/"+id, nil, nil, &execution); err != nil {
		return nil, err
	}

	return &execution, nil
}

// ListExecutionsParams filter the execution listing.
type ListExecutionsParams struct {
	WorkflowID string
	Status     string
	Limit      int
	Cursor     string
}

func (c *Client) ListExecutions(ctx context.Context, params ListExecutionsParams) (*Page[Execution], error) {
	query := url.Values{}

	limit := params.Limit
	if limit <= 0 {
		limit = 100
	}

	query.Set("limit", strconv.Itoa(limit))

	if params.WorkflowID != "" {
		query.Set("workflowId", params.WorkflowID)
	}

	if params.Status != "" {
		query.Set("status", strings.ToLower(params.Status))
	}

	if params.Cursor != "" {
		query.Set("cursor", params.Cursor)
	}

	var page Page[Execution]
	if err := c.do(ctx, http.MethodGet, "/executions", query, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}
