package bot

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ericfisherdev/mscbot/internal/application"
	"github.com/ericfisherdev/mscbot/internal/domain/port/driven"
)

// inboundMessage is one addressed command awaiting the control loop.
type inboundMessage struct {
	roomID string
	sender string
	text   string
}

// Bot drives the command engine from chat events. Inbound messages and
// scheduled summaries are funneled through a single control loop, so command
// handling, settings mutation and digest rendering never run concurrently.
type Bot struct {
	transport driven.Transport
	commands  *application.Commands
	scheduler *application.Scheduler
	name      string
	tick      time.Duration
	inbound   chan inboundMessage
	now       func() time.Time
}

var _ driven.TransportHandler = (*Bot)(nil)

// New creates a Bot answering to messages prefixed with "<name>:" and
// checking scheduled summaries every tick.
func New(transport driven.Transport, commands *application.Commands, scheduler *application.Scheduler, name string, tick time.Duration) *Bot {
	return &Bot{
		transport: transport,
		commands:  commands,
		scheduler: scheduler,
		name:      name,
		tick:      tick,
		inbound:   make(chan inboundMessage, 32),
		now:       time.Now,
	}
}

// OnInvite accepts the invite so the bot can be summoned into new rooms.
func (b *Bot) OnInvite(ctx context.Context, roomID string) {
	slog.Info("invited to room", "room", roomID)
	if err := b.transport.JoinRoom(ctx, roomID); err != nil {
		slog.Error("unable to join room", "room", roomID, "error", err)
	}
}

// OnMessage queues a message for the control loop when it is addressed to the
// bot by name. Called from the transport's sync loop, so it never blocks: if
// the queue is full the message is dropped with a warning.
func (b *Bot) OnMessage(_ context.Context, roomID, sender, body string) {
	text, ok := b.addressedText(body)
	if !ok {
		return
	}

	select {
	case b.inbound <- inboundMessage{roomID: roomID, sender: sender, text: text}:
	default:
		slog.Warn("command queue full, dropping message", "room", roomID, "sender", sender)
	}
}

// Run executes the control loop until the context is canceled, serving queued
// commands and firing due scheduled summaries.
func (b *Bot) Run(ctx context.Context) {
	ticker := time.NewTicker(b.tick)
	defer ticker.Stop()

	slog.Info("bot control loop started", "name", b.name, "tick", b.tick)

	for {
		select {
		case <-ctx.Done():
			slog.Info("bot control loop stopped")
			return

		case msg := <-b.inbound:
			slog.Info("command received", "room", msg.roomID, "sender", msg.sender, "text", msg.text)
			b.send(ctx, msg.roomID, b.commands.Execute(ctx, msg.roomID, msg.text))

		case <-ticker.C:
			for _, roomID := range b.scheduler.Due(b.now()) {
				b.sendSummary(ctx, roomID)
			}
		}
	}
}

// sendSummary aggregates and delivers one room's scheduled daily summary.
func (b *Bot) sendSummary(ctx context.Context, roomID string) {
	summary, err := b.commands.Summary(ctx, roomID)
	if err != nil {
		slog.Error("scheduled summary failed", "room", roomID, "error", err)
		return
	}
	b.send(ctx, roomID, summary)
}

// send delivers markdown to a room as plain text plus rendered HTML.
func (b *Bot) send(ctx context.Context, roomID, markdown string) {
	if markdown == "" {
		return
	}
	if err := b.transport.SendMessage(ctx, roomID, markdown, RenderMarkdown(markdown)); err != nil {
		slog.Error("unable to send message", "room", roomID, "error", err)
	}
}

// addressedText returns the command text of a message addressed to the bot
// ("<name>: <command>"), or ok=false for everything else.
func (b *Bot) addressedText(body string) (string, bool) {
	trimmed := strings.TrimSpace(body)
	prefix := b.name + ":"
	if len(trimmed) <= len(prefix) || !strings.EqualFold(trimmed[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(prefix):]), true
}
