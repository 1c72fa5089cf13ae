// Package models defines the core domain models for the flow automation adapter.
package models

import "time"

// FlowStatus represents the activation state of a flow. It is backed by the
// engine's boolean active flag.
type FlowStatus string

const (
	FlowStatusEnabled  FlowStatus = "ENABLED"
	FlowStatusDisabled FlowStatus = "DISABLED"
)

// FlowVersionState is the lifecycle state of a flow version. The adapter
// models versioning as single-version-only, so every version is locked.
type FlowVersionState string

const FlowVersionStateLocked FlowVersionState = "LOCKED"

// ScheduleTypeCron is the only schedule descriptor type the engine produces.
const ScheduleTypeCron = "CRON_EXPRESSION"

// Flow is the internal representation of one automation. IDs and timestamps
// are owned by the engine and mirrored here.
type Flow struct {
	ID         string         `json:"id"`
	Created    time.Time      `json:"created"`
	Updated    time.Time      `json:"updated"`
	ProjectID  string         `json:"project_id"`
	ExternalID string         `json:"external_id"`
	FolderID   *string        `json:"folder_id,omitempty"`
	Status     FlowStatus     `json:"status"`
	Schedule   *Schedule      `json:"schedule,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Version    FlowVersion    `json:"version"`
}

// Enabled reports whether the flow is active on the engine side.
func (f *Flow) Enabled() bool {
	return f.Status == FlowStatusEnabled
}

// FlowVersion holds the editable content of a flow. There is exactly one
// version per flow; edits mutate it in place.
type FlowVersion struct {
	ID            string           `json:"id"`
	Created       time.Time        `json:"created"`
	Updated       time.Time        `json:"updated"`
	FlowID        string           `json:"flow_id"`
	DisplayName   string           `json:"display_name" validate:"required"`
	Trigger       *FlowTrigger     `json:"trigger"`
	Valid         bool             `json:"valid"`
	State         FlowVersionState `json:"state"`
	ConnectionIDs []string         `json:"connection_ids"`
}
