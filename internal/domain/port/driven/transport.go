package driven

import "context"

// TransportHandler receives inbound chat events from the transport.
// Implementations must not block: the transport calls these from its sync
// loop.
type TransportHandler interface {
	OnInvite(ctx context.Context, roomID string)
	OnMessage(ctx context.Context, roomID, sender, body string)
}

// Transport defines the driven port for the chat service.
type Transport interface {
	// SendMessage delivers a message to a room as both a plain-text body and
	// an HTML-formatted body.
	SendMessage(ctx context.Context, roomID, plain, html string) error
	// JoinRoom accepts an invite to the given room.
	JoinRoom(ctx context.Context, roomID string) error
	// Run starts the sync loop, delivering events to h until the context is
	// canceled.
	Run(ctx context.Context, h TransportHandler) error
}
