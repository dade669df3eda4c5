package app

import (
	"context"
	"fmt"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
)

type messageSender interface {
	send(ctx context.Context, chat types.JID, msg *waE2E.Message) error
}

// quotedReplyResponder answers a message by quoting it
type quotedReplyResponder struct {
	client messageSender
	evt    *events.Message
}

// Defer is a no-op: WhatsApp has no acknowledgment step for messages.
func (r *quotedReplyResponder) Defer(context.Context) error {
	return nil
}

func (r *quotedReplyResponder) Reply(ctx context.Context, text string) error {
	if err := r.client.send(ctx, r.evt.Info.Chat, quotedReply(r.evt, text)); err != nil {
		return apperrors.MessageSendFailed(fmt.Errorf("whatsapp reply: %w", err))
	}
	return nil
}

func quotedReply(evt *events.Message, text string) *waE2E.Message {
	return &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text: proto.String(text),
			ContextInfo: &waE2E.ContextInfo{
				StanzaID:      proto.String(string(evt.Info.ID)),
				Participant:   proto.String(evt.Info.Sender.ToNonAD().String()),
				QuotedMessage: evt.Message,
			},
		},
	}
}
