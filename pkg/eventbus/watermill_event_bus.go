package eventbus

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/consuelo/flowbridge/pkg/events"
)

// WatermillEventBus routes adapter events over any watermill transport.
type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	subscriptions map[events.EventType]EventHandler
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		subscriptions: make(map[events.EventType]EventHandler),
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) {
	eb.subscriptions[eventType] = handler
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

			handler, exists := eb.subscriptions[eventType]
			if !exists {
				msg.Ack()

				continue
			}

			event := newEvent(eventType)
			if event == nil {
				msg.Nack()

				continue
			}

			if err := json.Unmarshal(msg.Payload, event); err != nil {
				msg.Nack()

				continue
			}

			if err := handler(ctx, event); err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

func (eb *WatermillEventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		return err
	}

	return eb.subscriber.Close()
}

// newEvent allocates the concrete struct for a wire event type.
func newEvent(eventType events.EventType) any {
	switch eventType {
	case events.FlowCreatedEvent:
		return &events.FlowCreated{}
	case events.FlowUpdatedEvent:
		return &events.FlowUpdated{}
	case events.FlowDeletedEvent:
		return &events.FlowDeleted{}
	case events.FlowActivatedEvent:
		return &events.FlowActivated{}
	case events.FlowDeactivatedEvent:
		return &events.FlowDeactivated{}
	case events.ConnectionCreatedEvent:
		return &events.ConnectionCreated{}
	case events.ConnectionDeletedEvent:
		return &events.ConnectionDeleted{}
	case events.FolderCreatedEvent:
		return &events.FolderCreated{}
	case events.FolderUpdatedEvent:
		return &events.FolderUpdated{}
	case events.FolderDeletedEvent:
		return &events.FolderDeleted{}
	default:
		return nil
	}
}
