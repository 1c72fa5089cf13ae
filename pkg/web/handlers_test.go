package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/consuelo/flowbridge/pkg/n8n"
	"github.com/consuelo/flowbridge/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// engineStub answers the subset of engine routes the handler tests touch.
func engineStub() http.Handler {
	mux := http.NewServeMux()

	workflow := n8n.Workflow{
		ID:     "wf-1",
		Name:   "Order confirmation",
		Active: true,
		Nodes: []n8n.Node{
			{Name: "Webhook", Type: "n8n-nodes-base.webhook", Parameters: map[string]any{}},
		},
		Connections: n8n.Connections{},
		UpdatedAt:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}

	mux.HandleFunc("POST /api/v1/workflows", func(w http.ResponseWriter, r *http.Request) {
		var body n8n.Workflow
		_ = json.NewDecoder(r.Body).Decode(&body)
		body.ID = "wf-1"

		_ = json.NewEncoder(w).Encode(body)
	})

	mux.HandleFunc("GET /api/v1/workflows/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "wf-1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"workflow not found"}`))

			return
		}

		_ = json.NewEncoder(w).Encode(workflow)
	})

	mux.HandleFunc("GET /api/v1/workflows", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(n8n.Page[n8n.Workflow]{Data: []n8n.Workflow{workflow}})
	})

	mux.HandleFunc("GET /api/v1/tags", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(n8n.Page[n8n.Tag]{Data: []n8n.Tag{{ID: "tag-1", Name: "billing"}}})
	})

	return mux
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	server := httptest.NewServer(engineStub())
	t.Cleanup(server.Close)

	engine, err := n8n.NewClient(n8n.Config{BaseURL: server.URL + "/api/v1", APIKey: "test"}, nil)
	require.NoError(t, err)

	automation := services.NewAutomation(engine, nil, nil)
	handlers := NewAPIHandlers(automation, validator.New())

	app := fiber.New()
	app.Post("/flows", handlers.CreateFlow)
	app.Get("/flows", handlers.GetFlows)
	app.Get("/flows/:id", handlers.GetFlow)
	app.Get("/flows/:id/webhook-url", handlers.GetWebhookURL)
	app.Get("/connections", handlers.GetConnections)
	app.Post("/folders", handlers.CreateFolder)
	app.Get("/folders", handlers.GetFolders)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func decodeEnvelope(t *testing.T, resp *http.Response) Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(body, &envelope))

	return envelope
}

func TestCreateFlowHandler(t *testing.T) {
	app := newTestApp(t)

	payload := `{
		"display_name": "Order confirmation",
		"trigger": {
			"name": "Webhook",
			"type": "WEBHOOK",
			"settings": {"trigger_name": "webhook", "input": {"path": "orders"}}
		}
	}`

	req := httptest.NewRequest(http.MethodPost, "/flows", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.True(t, envelope.Success)
	assert.NotNil(t, envelope.Data)
}

func TestCreateFlowHandler_ValidationProblem(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/flows", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(body, &problem))
	assert.Equal(t, "validation_error", problem["type"])
}

func TestGetFlowHandler(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/flows/wf-1", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.True(t, envelope.Success)
}

func TestGetFlowHandler_NotFound(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/flows/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, http.StatusNotFound, envelope.Error.StatusCode)
	assert.Equal(t, "workflow not found", envelope.Error.Message)
}

func TestGetFlowsHandler(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/flows?active=true&limit=10", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeEnvelope(t, resp).Success)
}

func TestGetFlowsHandler_BadQuery(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/flows?active=maybe", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetWebhookURLHandler(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/flows/wf-1/webhook-url?path=orders", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool               `json:"success"`
		Data    WebhookURLResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Contains(t, envelope.Data.URL, "/webhook/orders")
}

func TestGetConnectionsHandler_AlwaysEmpty(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/connections", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Data []any `json:"data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Data.Data)
}

func TestCreateFolderHandler_ValidationProblem(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/folders", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthCheckHandler(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
