// Package matrix implements the Transport port using the mautrix library.
package matrix

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/id"

	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Transport = (*Transport)(nil)

// Transport implements the chat transport over the Matrix client-server API.
type Transport struct {
	client      *mautrix.Client
	messageType event.MessageType
	syncPause   time.Duration
}

// NewTransport creates a Transport authenticated with an access token.
// messageType selects the outbound message type ("m.notice" or "m.text");
// syncPause is the wait between sync passes after a sync failure.
func NewTransport(homeserverURL, userID, token, messageType string, syncPause time.Duration) (*Transport, error) {
	client, err := mautrix.NewClient(homeserverURL, id.UserID(userID), token)
	if err != nil {
		return nil, fmt.Errorf("creating matrix client for %s: %w", userID, err)
	}

	return &Transport{
		client:      client,
		messageType: event.MessageType(messageType),
		syncPause:   syncPause,
	}, nil
}

// SendMessage delivers a message to a room with both a plain-text and an
// HTML-formatted body.
func (t *Transport) SendMessage(ctx context.Context, roomID, plain, html string) error {
	content := &event.MessageEventContent{
		MsgType: t.messageType,
		Body:    plain,
	}
	if html != "" {
		content.Format = event.FormatHTML
		content.FormattedBody = html
	}

	if _, err := t.client.SendMessageEvent(ctx, id.RoomID(roomID), event.EventMessage, content); err != nil {
		return fmt.Errorf("sending message to %s: %w", roomID, err)
	}
	return nil
}

// JoinRoom accepts an invite, retrying with bounded exponential backoff.
// Persistent failure returns the last error rather than retrying forever.
func (t *Transport) JoinRoom(ctx context.Context, roomID string) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)

	join := func() error {
		_, err := t.client.JoinRoomByID(ctx, id.RoomID(roomID))
		if err != nil {
			slog.Warn("unable to join room, will retry", "room", roomID, "error", err)
		}
		return err
	}

	if err := backoff.Retry(join, policy); err != nil {
		return fmt.Errorf("joining room %s: %w", roomID, err)
	}

	slog.Info("joined room", "room", roomID)
	return nil
}

// Run starts the sync loop, delivering invites and text messages to h until
// the context is canceled. Sync errors are logged and the loop resumes after
// a short pause.
func (t *Transport) Run(ctx context.Context, h driven.TransportHandler) error {
	syncer, ok := t.client.Syncer.(*mautrix.DefaultSyncer)
	if !ok {
		return fmt.Errorf("unexpected syncer type %T", t.client.Syncer)
	}

	syncer.OnEventType(event.StateMember, func(ctx context.Context, evt *event.Event) {
		if evt.GetStateKey() != t.client.UserID.String() {
			return
		}
		if evt.Content.AsMember().Membership != event.MembershipInvite {
			return
		}
		h.OnInvite(ctx, evt.RoomID.String())
	})

	syncer.OnEventType(event.EventMessage, func(ctx context.Context, evt *event.Event) {
		if evt.Sender == t.client.UserID {
			return
		}
		msg := evt.Content.AsMessage()
		if msg.MsgType != event.MsgText {
			return
		}
		h.OnMessage(ctx, evt.RoomID.String(), evt.Sender.String(), msg.Body)
	})

	for {
		if err := t.client.SyncWithContext(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("matrix sync failed, retrying", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.syncPause):
		}
	}
}
