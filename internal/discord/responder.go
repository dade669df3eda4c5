package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/formatter"
)

// messageLimit is the maximum length of a Discord message
const messageLimit = 2000

// interactionResponder defers a slash command and edits the deferred
// response with the reply
type interactionResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func (r *interactionResponder) Defer(ctx context.Context) error {
	err := r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to defer interaction: %w", err)
	}
	return nil
}

func (r *interactionResponder) Reply(ctx context.Context, text string) error {
	content := formatter.Truncate(text, messageLimit)
	_, err := r.session.InteractionResponseEdit(r.interaction, &discordgo.WebhookEdit{
		Content: &content,
	}, discordgo.WithContext(ctx))
	if err != nil {
		return apperrors.MessageSendFailed(fmt.Errorf("edit interaction response: %w", err))
	}
	return nil
}

// messageResponder shows the typing indicator, then replies to the
// triggering message
type messageResponder struct {
	session *discordgo.Session
	message *discordgo.Message
}

func (r *messageResponder) Defer(ctx context.Context) error {
	if err := r.session.ChannelTyping(r.message.ChannelID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send typing indicator: %w", err)
	}
	return nil
}

func (r *messageResponder) Reply(ctx context.Context, text string) error {
	content := formatter.Truncate(text, messageLimit)
	_, err := r.session.ChannelMessageSendReply(r.message.ChannelID, content, r.message.Reference(), discordgo.WithContext(ctx))
	if err != nil {
		return apperrors.MessageSendFailed(fmt.Errorf("discord reply: %w", err))
	}
	return nil
}
