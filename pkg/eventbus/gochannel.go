package eventbus

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewInProcess builds an event bus over watermill's in-memory GoChannel
// transport. The adapter deploys as a stateless HTTP facade with no broker,
// so in-process delivery is the production transport, not a test stand-in.
func NewInProcess(logger *slog.Logger) *WatermillEventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 256,
			Persistent:          false,
		},
		watermill.NewSlogLogger(logger),
	)

	return NewWatermillEventBus(pubSub, pubSub)
}

// NewInProcessForTests uses a small, blocking channel so tests observe
// deterministic delivery.
func NewInProcessForTests(logger *slog.Logger) *WatermillEventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            8,
			Persistent:                     true,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewSlogLogger(logger),
	)

	return NewWatermillEventBus(pubSub, pubSub)
}
