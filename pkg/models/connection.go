package models

import "time"

// ConnectionScope and ConnectionStatus are fixed for engine-backed
// credentials: the engine has no project scoping of its own.
const (
	ConnectionScopeProject = "PROJECT"
	ConnectionStatusActive = "ACTIVE"
)

// Connection is a credential reference usable by flow steps. It maps onto
// the engine's credential concept.
type Connection struct {
	ID          string         `json:"id"`
	Created     time.Time      `json:"created"`
	Updated     time.Time      `json:"updated"`
	ExternalID  string         `json:"external_id"`
	DisplayName string         `json:"display_name"`
	Type        string         `json:"type"`
	PieceName   string         `json:"piece_name"`
	ProjectIDs  []string       `json:"project_ids"`
	Scope       string         `json:"scope"`
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}
