// Package events defines the flow lifecycle notifications the adapter
// publishes after successful engine writes.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every adapter event.
const Topic = "flowbridge.events"

const (
	EventMetadataKey     = "key"
	EventTypeMetadataKey = "event_type"
)

const (
	FlowCreatedEvent     EventType = "flow.created"
	FlowUpdatedEvent     EventType = "flow.updated"
	FlowDeletedEvent     EventType = "flow.deleted"
	FlowActivatedEvent   EventType = "flow.activated"
	FlowDeactivatedEvent EventType = "flow.deactivated"

	ConnectionCreatedEvent EventType = "connection.created"
	ConnectionDeletedEvent EventType = "connection.deleted"

	FolderCreatedEvent EventType = "folder.created"
	FolderUpdatedEvent EventType = "folder.updated"
	FolderDeletedEvent EventType = "folder.deleted"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	FlowID    string         `json:"flow_id,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps an event with a fresh ID and the current time.
func NewBaseEvent(eventType EventType, flowID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		FlowID:    flowID,
	}
}

type FlowCreated struct {
	BaseEvent

	DisplayName string `json:"display_name"`
	StepCount   int    `json:"step_count"`
}

func (e FlowCreated) GetType() EventType { return FlowCreatedEvent }

type FlowUpdated struct {
	BaseEvent

	DisplayName string `json:"display_name"`
}

func (e FlowUpdated) GetType() EventType { return FlowUpdatedEvent }

type FlowDeleted struct {
	BaseEvent
}

func (e FlowDeleted) GetType() EventType { return FlowDeletedEvent }

type FlowActivated struct {
	BaseEvent
}

func (e FlowActivated) GetType() EventType { return FlowActivatedEvent }

type FlowDeactivated struct {
	BaseEvent
}

func (e FlowDeactivated) GetType() EventType { return FlowDeactivatedEvent }

type ConnectionCreated struct {
	BaseEvent

	ConnectionID string `json:"connection_id"`
	PieceName    string `json:"piece_name"`
}

func (e ConnectionCreated) GetType() EventType { return ConnectionCreatedEvent }

type ConnectionDeleted struct {
	BaseEvent

	ConnectionID string `json:"connection_id"`
}

func (e ConnectionDeleted) GetType() EventType { return ConnectionDeletedEvent }

type FolderCreated struct {
	BaseEvent

	FolderID    string `json:"folder_id"`
	DisplayName string `json:"display_name"`
}

func (e FolderCreated) GetType() EventType { return FolderCreatedEvent }

type FolderUpdated struct {
	BaseEvent

	FolderID    string `json:"folder_id"`
	DisplayName string `json:"display_name"`
}

func (e FolderUpdated) GetType() EventType { return FolderUpdatedEvent }

type FolderDeleted struct {
	BaseEvent

	FolderID string `json:"folder_id"`
}

func (e FolderDeleted) GetType() EventType { return FolderDeletedEvent }
