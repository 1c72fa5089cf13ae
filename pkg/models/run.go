package models

import "time"

// FlowRunStatus is the internal execution status. PAUSED and STOPPED exist
// for forward compatibility with the engine; the status mapper never
// produces them today.
type FlowRunStatus string

const (
	FlowRunStatusFailed    FlowRunStatus = "FAILED"
	FlowRunStatusSucceeded FlowRunStatus = "SUCCEEDED"
	FlowRunStatusRunning   FlowRunStatus = "RUNNING"
	FlowRunStatusPaused    FlowRunStatus = "PAUSED"
	FlowRunStatusStopped   FlowRunStatus = "STOPPED"
)

// FlowRunEnvironment distinguishes manual test executions from production ones.
type FlowRunEnvironment string

const (
	FlowRunEnvironmentProduction FlowRunEnvironment = "PRODUCTION"
	FlowRunEnvironmentTesting    FlowRunEnvironment = "TESTING"
)

// FlowRun mirrors one engine execution record.
type FlowRun struct {
	ID              string             `json:"id"`
	Created         time.Time          `json:"created"`
	Updated         time.Time          `json:"updated"`
	ProjectID       string             `json:"project_id"`
	FlowID          string             `json:"flow_id"`
	FlowVersionID   string             `json:"flow_version_id"`
	FlowDisplayName string             `json:"flow_display_name"`
	Status          FlowRunStatus      `json:"status"`
	StartTime       time.Time          `json:"start_time"`
	FinishTime      *time.Time         `json:"finish_time,omitempty"`
	Environment     FlowRunEnvironment `json:"environment"`
	Steps           map[string]any     `json:"steps"`
}

// Finished reports whether the run has reached a terminal status.
func (r *FlowRun) Finished() bool {
	switch r.Status {
	case FlowRunStatusFailed, FlowRunStatusSucceeded, FlowRunStatusStopped:
		return true
	case FlowRunStatusRunning, FlowRunStatusPaused:
		return false
	}

	return false
}
