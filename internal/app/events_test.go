package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"

	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
	"github.com/coltonsr77/uzi-doorman-bot/internal/router"
)

var (
	testSelf = selfJIDs{
		PN:  types.NewJID("15550001111", types.DefaultUserServer),
		LID: types.NewJID("987654321", types.HiddenUserServer),
	}
	testGroup  = types.NewJID("120363000000000000", types.GroupServer)
	testSender = types.NewJID("15552223333", types.DefaultUserServer)
)

func textMessage(text string) *events.Message {
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{Chat: testGroup, Sender: testSender, IsGroup: true},
			ID:            "MSG1",
		},
		Message: &waE2E.Message{Conversation: proto.String(text)},
	}
}

func extendedMessage(text string, ctxInfo *waE2E.ContextInfo) *events.Message {
	evt := textMessage("")
	evt.Message = &waE2E.Message{
		ExtendedTextMessage: &waE2E.ExtendedTextMessage{
			Text:        proto.String(text),
			ContextInfo: ctxInfo,
		},
	}
	return evt
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		text     string
		wantName string
		wantRest string
		wantOK   bool
	}{
		{"/roleplay open the door", models.CommandRoleplay, "open the door", true},
		{"  /ROLEPLAY   hi  ", models.CommandRoleplay, "hi", true},
		{"/roleplay", models.CommandRoleplay, "", true},
		{"/commits", models.CommandCommits, "", true},
		{"/commits please", models.CommandCommits, "please", true},
		{"/help", "", "", false},
		{"roleplay hi", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			name, rest, ok := parseCommand(tc.text)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantName, name)
			assert.Equal(t, tc.wantRest, rest)
		})
	}
}

func TestSelfJIDsMatches(t *testing.T) {
	assert.True(t, testSelf.matches("15550001111@s.whatsapp.net"))
	assert.True(t, testSelf.matches("15550001111:12@s.whatsapp.net"))
	assert.True(t, testSelf.matches("987654321@lid"))
	assert.False(t, testSelf.matches("15552223333@s.whatsapp.net"))
	assert.False(t, testSelf.matches("15550001111@lid"))
	assert.False(t, testSelf.matches(""))
	assert.False(t, selfJIDs{}.matches("15550001111@s.whatsapp.net"))
}

func TestSelfJIDsIdentity(t *testing.T) {
	id := testSelf.identity("Uzi Doorman")
	assert.Equal(t, "15550001111@s.whatsapp.net", id.ID)
	assert.Equal(t, "Uzi Doorman", id.Name)
	assert.Equal(t, []string{"@15550001111", "@987654321"}, id.MentionTokens)
}

func TestInboundEvent_SlashCommands(t *testing.T) {
	event, ok := inboundEvent(testSelf, textMessage("/roleplay knock knock"))
	require.True(t, ok)
	assert.Equal(t, models.EventSlashCommand, event.Kind)
	assert.Equal(t, models.PlatformWhatsApp, event.Platform)
	assert.Equal(t, "MSG1", event.ID)
	require.NotNil(t, event.Command)
	assert.Equal(t, models.CommandRoleplay, event.Command.Name)
	assert.Equal(t, "knock knock", event.Command.Options[models.OptionMessage])

	event, ok = inboundEvent(testSelf, textMessage("/commits"))
	require.True(t, ok)
	require.NotNil(t, event.Command)
	assert.Equal(t, models.CommandCommits, event.Command.Name)
	assert.Empty(t, event.Command.Options)
}

func TestInboundEvent_OwnCommandIsNotACommand(t *testing.T) {
	evt := textMessage("/commits")
	evt.Info.IsFromMe = true
	evt.Info.Sender = testSelf.PN

	event, ok := inboundEvent(testSelf, evt)
	require.True(t, ok)
	assert.Equal(t, models.EventMessage, event.Kind)
	assert.Equal(t, testSelf.PN.String(), event.Message.AuthorID)

	class := router.Classify(testSelf.identity("Uzi"), event)
	assert.Equal(t, router.RouteIgnored, class.Route)
}

func TestInboundEvent_Mention(t *testing.T) {
	evt := extendedMessage("@15550001111 let me in", &waE2E.ContextInfo{
		MentionedJID: []string{"15552224444@s.whatsapp.net", "15550001111@s.whatsapp.net"},
	})

	event, ok := inboundEvent(testSelf, evt)
	require.True(t, ok)
	require.NotNil(t, event.Message)
	assert.True(t, event.Message.MentionsBot)
	assert.False(t, event.Message.IsReplyToBot)
	assert.Equal(t, testSender.String(), event.Message.AuthorID)

	class := router.Classify(testSelf.identity("Uzi"), event)
	assert.Equal(t, router.RouteAutoMention, class.Route)
	assert.Equal(t, "let me in", class.Prompt)
}

func TestInboundEvent_LIDMention(t *testing.T) {
	evt := extendedMessage("@987654321", &waE2E.ContextInfo{
		MentionedJID: []string{"987654321@lid"},
	})

	event, ok := inboundEvent(testSelf, evt)
	require.True(t, ok)
	assert.True(t, event.Message.MentionsBot)

	class := router.Classify(testSelf.identity("Uzi"), event)
	assert.Equal(t, router.RouteAutoMention, class.Route)
	assert.Equal(t, router.DefaultPrompt, class.Prompt)
}

func TestInboundEvent_ReplyToBot(t *testing.T) {
	evt := extendedMessage("who are you", &waE2E.ContextInfo{
		StanzaID:    proto.String("BOTMSG"),
		Participant: proto.String("15550001111@s.whatsapp.net"),
	})

	event, ok := inboundEvent(testSelf, evt)
	require.True(t, ok)
	assert.True(t, event.Message.IsReplyToBot)
	assert.False(t, event.Message.MentionsBot)

	class := router.Classify(testSelf.identity("Uzi"), event)
	assert.Equal(t, router.RouteAutoReply, class.Route)
	assert.Equal(t, "who are you", class.Prompt)
}

func TestInboundEvent_ReplyToSomeoneElse(t *testing.T) {
	evt := extendedMessage("agreed", &waE2E.ContextInfo{
		StanzaID:    proto.String("OTHER"),
		Participant: proto.String("15552224444@s.whatsapp.net"),
	})

	event, ok := inboundEvent(testSelf, evt)
	require.True(t, ok)
	assert.False(t, event.Message.IsReplyToBot)
	assert.Equal(t, router.RouteIgnored, router.Classify(testSelf.identity("Uzi"), event).Route)
}

func TestInboundEvent_NoText(t *testing.T) {
	_, ok := inboundEvent(testSelf, textMessage("   "))
	assert.False(t, ok)

	evt := textMessage("")
	evt.Message = &waE2E.Message{ImageMessage: &waE2E.ImageMessage{}}
	_, ok = inboundEvent(testSelf, evt)
	assert.False(t, ok)

	_, ok = inboundEvent(testSelf, nil)
	assert.False(t, ok)
}

func TestQuotedReply(t *testing.T) {
	evt := textMessage("hello")
	msg := quotedReply(evt, "Go away.")

	ext := msg.GetExtendedTextMessage()
	require.NotNil(t, ext)
	assert.Equal(t, "Go away.", ext.GetText())
	assert.Equal(t, "MSG1", ext.GetContextInfo().GetStanzaID())
	assert.Equal(t, testSender.String(), ext.GetContextInfo().GetParticipant())
	assert.Equal(t, "hello", ext.GetContextInfo().GetQuotedMessage().GetConversation())
}
