package web

import (
	"github.com/consuelo/flowbridge/pkg/n8n"
	"github.com/consuelo/flowbridge/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

// Request-shape failures (malformed body, missing fields) answer with
// RFC 7807 problems; engine-side failures answer with the envelope so the
// dashboard sees one error shape for everything past validation.

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func conflict(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType("conflict").
		WithDetail(detail)

	return c.Status(fiber.StatusConflict).JSON(problem)
}

// envelopeError renders an engine or service failure in the uniform
// envelope. The HTTP status mirrors the engine's answer; transport-level
// failures with no status surface as 502.
func envelopeError(c fiber.Ctx, err error) error {
	apiErr := n8n.AsError(err)

	status := apiErr.StatusCode
	if status < 400 || status > 599 {
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(Envelope{Success: false, Error: apiErr})
}

// handleServiceError routes a failure to the right rendering.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsValidationError(err):
		return badRequest(c, err.Error())
	case services.IsConflictError(err):
		return conflict(c, err.Error())
	default:
		return envelopeError(c, err)
	}
}

func success(c fiber.Ctx, data any) error {
	return c.JSON(Envelope{Success: true, Data: data})
}
