package app

import (
	"strings"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

// selfJIDs are the addresses the linked account is known by. Newer
// WhatsApp groups address members by LID instead of phone number.
type selfJIDs struct {
	PN  types.JID
	LID types.JID
}

func (s selfJIDs) matches(raw string) bool {
	if raw == "" {
		return false
	}
	jid, err := types.ParseJID(raw)
	if err != nil {
		return false
	}
	user := jid.ToNonAD().User
	return (!s.PN.IsEmpty() && user == s.PN.User && jid.Server == s.PN.Server) ||
		(!s.LID.IsEmpty() && user == s.LID.User && jid.Server == s.LID.Server)
}

// identity builds the bot identity. Mentions appear in text as "@<user>".
func (s selfJIDs) identity(name string) models.BotIdentity {
	id := models.BotIdentity{ID: s.PN.ToNonAD().String(), Name: name}
	if !s.PN.IsEmpty() {
		id.MentionTokens = append(id.MentionTokens, "@"+s.PN.User)
	}
	if !s.LID.IsEmpty() {
		id.MentionTokens = append(id.MentionTokens, "@"+s.LID.User)
	}
	return id
}

// messageText returns the text of a plain or extended text message
func messageText(msg *waE2E.Message) string {
	if text := msg.GetConversation(); text != "" {
		return text
	}
	return msg.GetExtendedTextMessage().GetText()
}

// inboundEvent converts a received message. Text starting with /roleplay
// or /commits is treated as a slash command unless the linked account sent
// it, so the bot cannot trigger itself. ok is false for messages without text.
func inboundEvent(self selfJIDs, evt *events.Message) (models.InboundEvent, bool) {
	if evt == nil || evt.Message == nil {
		return models.InboundEvent{}, false
	}
	text := messageText(evt.Message)
	if strings.TrimSpace(text) == "" {
		return models.InboundEvent{}, false
	}
	id := string(evt.Info.ID)

	if !evt.Info.IsFromMe {
		if name, rest, ok := parseCommand(text); ok {
			options := map[string]string{}
			if name == models.CommandRoleplay {
				options[models.OptionMessage] = rest
			}
			return models.NewSlashCommandEvent(id, models.PlatformWhatsApp, name, options), true
		}
	}

	msg := models.MessageEvent{
		AuthorID: evt.Info.Sender.ToNonAD().String(),
		Content:  text,
	}
	if evt.Info.IsFromMe {
		msg.AuthorID = self.PN.ToNonAD().String()
	}

	ctxInfo := evt.Message.GetExtendedTextMessage().GetContextInfo()
	for _, mentioned := range ctxInfo.GetMentionedJID() {
		if self.matches(mentioned) {
			msg.MentionsBot = true
			break
		}
	}
	msg.IsReplyToBot = ctxInfo.GetStanzaID() != "" && self.matches(ctxInfo.GetParticipant())

	return models.NewMessageEvent(id, models.PlatformWhatsApp, msg), true
}

// parseCommand recognises "/roleplay <message>" and "/commits"
func parseCommand(text string) (name, rest string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, rest, _ := strings.Cut(text[1:], " ")
	head = strings.ToLower(head)
	switch head {
	case models.CommandRoleplay, models.CommandCommits:
		return head, strings.TrimSpace(rest), true
	default:
		return "", "", false
	}
}
