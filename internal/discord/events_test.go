package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
	"github.com/coltonsr77/uzi-doorman-bot/internal/router"
)

const botID = "1111"

func user(id string) *discordgo.User {
	return &discordgo.User{ID: id, Username: "user" + id}
}

func noLookup(t *testing.T) messageLookup {
	return func(string, string) (*discordgo.Message, error) {
		t.Fatalf("unexpected message lookup")
		return nil, nil
	}
}

func TestIdentityFor(t *testing.T) {
	id := identityFor(&discordgo.User{ID: botID, Username: "Uzi"})

	assert.Equal(t, botID, id.ID)
	assert.Equal(t, "Uzi", id.Name)
	assert.Equal(t, []string{"<@1111>", "<@!1111>"}, id.MentionTokens)
}

func TestCommandEvent(t *testing.T) {
	i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:   "int-1",
		Type: discordgo.InteractionApplicationCommand,
		Data: discordgo.ApplicationCommandInteractionData{
			Name: "roleplay",
			Options: []*discordgo.ApplicationCommandInteractionDataOption{
				{Name: "message", Type: discordgo.ApplicationCommandOptionString, Value: "hello"},
				{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
			},
		},
	}}

	event, ok := commandEvent(i)
	require.True(t, ok)
	assert.Equal(t, "int-1", event.ID)
	assert.Equal(t, models.PlatformDiscord, event.Platform)
	assert.Equal(t, models.EventSlashCommand, event.Kind)
	assert.Equal(t, "roleplay", event.Command.Name)
	assert.Equal(t, map[string]string{"message": "hello", "count": "3"}, event.Command.Options)
}

func TestCommandEvent_IgnoresOtherInteractions(t *testing.T) {
	_, ok := commandEvent(&discordgo.InteractionCreate{Interaction: &discordgo.Interaction{Type: discordgo.InteractionPing}})
	assert.False(t, ok)

	_, ok = commandEvent(nil)
	assert.False(t, ok)
}

func TestMessageEvent_Mention(t *testing.T) {
	m := &discordgo.Message{
		ID:       "m1",
		Content:  "<@1111> hi",
		Author:   user("42"),
		Mentions: []*discordgo.User{user("7"), user(botID)},
	}

	event := messageEvent(botID, m, noLookup(t))
	assert.Equal(t, "m1", event.ID)
	assert.Equal(t, models.MessageEvent{AuthorID: "42", Content: "<@1111> hi", MentionsBot: true}, *event.Message)
}

func TestMessageEvent_EmbeddedReference(t *testing.T) {
	m := &discordgo.Message{
		Content:           "ok thanks",
		Author:            user("42"),
		MessageReference:  &discordgo.MessageReference{MessageID: "prev"},
		ReferencedMessage: &discordgo.Message{ID: "prev", Author: user(botID)},
	}

	event := messageEvent(botID, m, noLookup(t))
	assert.True(t, event.Message.IsReplyToBot)
	assert.False(t, event.Message.MentionsBot)
}

func TestMessageEvent_ReferenceLookup(t *testing.T) {
	m := &discordgo.Message{
		ChannelID:        "chan",
		Content:          "ok thanks",
		Author:           user("42"),
		MessageReference: &discordgo.MessageReference{MessageID: "prev"},
	}

	var gotChannel, gotID string
	event := messageEvent(botID, m, func(channelID, messageID string) (*discordgo.Message, error) {
		gotChannel, gotID = channelID, messageID
		return &discordgo.Message{Author: user(botID)}, nil
	})
	assert.True(t, event.Message.IsReplyToBot)
	assert.Equal(t, "chan", gotChannel)
	assert.Equal(t, "prev", gotID)

	event = messageEvent(botID, m, func(string, string) (*discordgo.Message, error) {
		return nil, errors.New("Unknown Message")
	})
	assert.False(t, event.Message.IsReplyToBot)

	event = messageEvent(botID, m, func(string, string) (*discordgo.Message, error) {
		return &discordgo.Message{Author: user("someone-else")}, nil
	})
	assert.False(t, event.Message.IsReplyToBot)
}

func TestMessageEvent_SelfAndBotsSkipLookup(t *testing.T) {
	ref := &discordgo.MessageReference{MessageID: "prev"}

	self := messageEvent(botID, &discordgo.Message{Author: user(botID), MessageReference: ref}, noLookup(t))
	assert.Equal(t, botID, self.Message.AuthorID)

	other := user("99")
	other.Bot = true
	bot := messageEvent(botID, &discordgo.Message{Author: other, MessageReference: ref}, noLookup(t))
	assert.True(t, bot.Message.FromBot)
}

func TestMessageEvent_RoutesThroughClassifier(t *testing.T) {
	identity := identityFor(&discordgo.User{ID: botID, Username: "Uzi"})
	m := &discordgo.Message{
		Content:  "<@!1111>   ",
		Author:   user("42"),
		Mentions: []*discordgo.User{user(botID)},
	}

	class := router.Classify(identity, messageEvent(botID, m, noLookup(t)))
	assert.Equal(t, router.Classification{Route: router.RouteAutoMention, Prompt: "Hi"}, class)
}
