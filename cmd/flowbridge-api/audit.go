package main

import (
	"context"
	"log/slog"

	"github.com/consuelo/flowbridge/pkg/eventbus"
	"github.com/consuelo/flowbridge/pkg/events"
)

// subscribeAuditLog attaches a structured audit trail to every flow
// lifecycle event the service publishes.
func subscribeAuditLog(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) {
	audit := logger.With("component", "audit")

	logEvent := func(ctx context.Context, event any) error {
		if e, ok := event.(eventbus.Event); ok {
			audit.InfoContext(ctx, "flow lifecycle event", "event_type", e.GetType(), "event", event)
		}

		return nil
	}

	for _, eventType := range []events.EventType{
		events.FlowCreatedEvent,
		events.FlowUpdatedEvent,
		events.FlowDeletedEvent,
		events.FlowActivatedEvent,
		events.FlowDeactivatedEvent,
		events.ConnectionCreatedEvent,
		events.ConnectionDeletedEvent,
		events.FolderCreatedEvent,
		events.FolderUpdatedEvent,
		events.FolderDeletedEvent,
	} {
		bus.Handle(eventType, logEvent)
	}

	if err := bus.Subscribe(ctx); err != nil {
		audit.WarnContext(ctx, "failed to subscribe audit log", "error", err)
	}
}
