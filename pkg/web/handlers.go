package web

import (
	"strconv"

	"github.com/consuelo/flowbridge/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	automation *services.Automation
	validator  *validator.Validate
}

func NewAPIHandlers(automation *services.Automation, validator *validator.Validate) *APIHandlers {
	return &APIHandlers{
		automation: automation,
		validator:  validator,
	}
}

// ==================== Flows ====================

func (h *APIHandlers) CreateFlow(c fiber.Ctx) error {
	var req services.CreateFlowData
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	flow, err := h.automation.CreateFlow(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: flow})
}

func (h *APIHandlers) GetFlows(c fiber.Ctx) error {
	params, err := parseListFlowsParams(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	page, err := h.automation.ListFlows(c.Context(), *params)
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, page)
}

func parseListFlowsParams(c fiber.Ctx) (*services.ListFlowsParams, error) {
	params := &services.ListFlowsParams{
		Tags:   c.Query("tags"),
		Name:   c.Query("name"),
		Cursor: c.Query("cursor"),
	}

	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			return nil, err
		}

		params.Active = &active
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		params.Limit = limit
	}

	return params, nil
}

func (h *APIHandlers) GetFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	flow, err := h.automation.GetFlow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, flow)
}

func (h *APIHandlers) UpdateFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	var req services.UpdateFlowData
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	flow, err := h.automation.UpdateFlow(c.Context(), id, req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, flow)
}

func (h *APIHandlers) DeleteFlow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	if err := h.automation.DeleteFlow(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return success(c, nil)
}

func (h *APIHandlers) ActivateFlow(c fiber.Ctx) error {
	flow, err := h.automation.ActivateFlow(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, flow)
}

func (h *APIHandlers) DeactivateFlow(c fiber.Ctx) error {
	flow, err := h.automation.DeactivateFlow(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, flow)
}

func (h *APIHandlers) GetWebhookURL(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Flow ID is required")
	}

	url := h.automation.WebhookURL(id, c.Query("path"))

	return success(c, WebhookURLResponse{URL: url})
}

// ==================== Connections ====================

func (h *APIHandlers) CreateConnection(c fiber.Ctx) error {
	var req services.CreateConnectionData
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	connection, err := h.automation.CreateConnection(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: connection})
}

func (h *APIHandlers) GetConnections(c fiber.Ctx) error {
	page, err := h.automation.ListConnections(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, page)
}

func (h *APIHandlers) DeleteConnection(c fiber.Ctx) error {
	if err := h.automation.DeleteConnection(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return success(c, nil)
}

// ==================== Folders ====================

func (h *APIHandlers) CreateFolder(c fiber.Ctx) error {
	var req CreateFolderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	folder, err := h.automation.CreateFolder(c.Context(), req.DisplayName)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Data: folder})
}

func (h *APIHandlers) GetFolders(c fiber.Ctx) error {
	page, err := h.automation.ListFolders(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, page)
}

func (h *APIHandlers) GetFolder(c fiber.Ctx) error {
	folder, err := h.automation.GetFolder(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, folder)
}

func (h *APIHandlers) UpdateFolder(c fiber.Ctx) error {
	var req CreateFolderRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, "Validation failed: "+err.Error())
	}

	folder, err := h.automation.UpdateFolder(c.Context(), c.Params("id"), req.DisplayName)
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, folder)
}

func (h *APIHandlers) DeleteFolder(c fiber.Ctx) error {
	if err := h.automation.DeleteFolder(c.Context(), c.Params("id")); err != nil {
		return handleServiceError(c, err)
	}

	return success(c, nil)
}

// ==================== Runs ====================

func (h *APIHandlers) GetFlowRun(c fiber.Ctx) error {
	run, err := h.automation.GetFlowRun(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, run)
}

func (h *APIHandlers) GetFlowRuns(c fiber.Ctx) error {
	params := services.ListFlowRunsParams{
		FlowID: c.Query("flow_id"),
		Status: c.Query("status"),
		Cursor: c.Query("cursor"),
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return badRequest(c, "Invalid limit: "+err.Error())
		}

		params.Limit = limit
	}

	page, err := h.automation.ListFlowRuns(c.Context(), params)
	if err != nil {
		return handleServiceError(c, err)
	}

	return success(c, page)
}

// ==================== Health ====================

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	if err := h.automation.HealthCheck(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}
