package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

// messageLookup fetches a referenced message
type messageLookup func(channelID, messageID string) (*discordgo.Message, error)

// identityFor builds the bot identity from the logged-in user
func identityFor(user *discordgo.User) models.BotIdentity {
	return models.BotIdentity{
		ID:   user.ID,
		Name: user.Username,
		MentionTokens: []string{
			"<@" + user.ID + ">",
			"<@!" + user.ID + ">",
		},
	}
}

// commandEvent converts an application command interaction. ok is false
// for every other interaction type.
func commandEvent(i *discordgo.InteractionCreate) (models.InboundEvent, bool) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return models.InboundEvent{}, false
	}

	data := i.ApplicationCommandData()
	options := make(map[string]string, len(data.Options))
	for _, opt := range data.Options {
		if opt.Type == discordgo.ApplicationCommandOptionString {
			options[opt.Name] = opt.StringValue()
			continue
		}
		options[opt.Name] = fmt.Sprint(opt.Value)
	}

	return models.NewSlashCommandEvent(i.ID, models.PlatformDiscord, data.Name, options), true
}

// messageEvent converts a created message. The referenced message is only
// looked up when the gateway did not embed it, and a failed lookup counts
// as "not a reply to the bot".
func messageEvent(botID string, m *discordgo.Message, lookup messageLookup) models.InboundEvent {
	msg := models.MessageEvent{
		Content: m.Content,
	}
	if m.Author != nil {
		msg.AuthorID = m.Author.ID
		msg.FromBot = m.Author.Bot
	}

	for _, user := range m.Mentions {
		if user != nil && user.ID == botID {
			msg.MentionsBot = true
			break
		}
	}

	if !msg.MentionsBot && !msg.FromBot && msg.AuthorID != botID {
		msg.IsReplyToBot = repliesTo(botID, m, lookup)
	}

	return models.NewMessageEvent(m.ID, models.PlatformDiscord, msg)
}

func repliesTo(botID string, m *discordgo.Message, lookup messageLookup) bool {
	if m.ReferencedMessage != nil {
		return m.ReferencedMessage.Author != nil && m.ReferencedMessage.Author.ID == botID
	}

	ref := m.MessageReference
	if ref == nil || ref.MessageID == "" || lookup == nil {
		return false
	}

	channelID := ref.ChannelID
	if channelID == "" {
		channelID = m.ChannelID
	}
	referenced, err := lookup(channelID, ref.MessageID)
	if err != nil || referenced == nil || referenced.Author == nil {
		return false
	}
	return referenced.Author.ID == botID
}
