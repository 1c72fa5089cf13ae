// Package web exposes the adapter's inbound HTTP contract to the dashboard.
package web

import "github.com/consuelo/flowbridge/pkg/n8n"

// Envelope is the uniform response shape for every operation: success with
// data, or failure with a structured error. The dashboard never sees raw
// transport failures.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *n8n.Error `json:"error,omitempty"`
}

// CreateFolderRequest is the body for folder creation and rename.
type CreateFolderRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=1"`
}

// WebhookURLResponse carries the synthesized webhook address of a flow.
type WebhookURLResponse struct {
	URL string `json:"url"`
}
