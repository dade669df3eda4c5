package models

// Platform identifies the chat surface an event arrived from
type Platform string

const (
	PlatformDiscord  Platform = "discord"
	PlatformWhatsApp Platform = "whatsapp"
	PlatformHTTP     Platform = "http"
)

// EventKind tags the variant carried by an InboundEvent
type EventKind int

const (
	EventSlashCommand EventKind = iota + 1
	EventMessage
)

func (k EventKind) String() string {
	switch k {
	case EventSlashCommand:
		return "slash_command"
	case EventMessage:
		return "message"
	default:
		return "unknown"
	}
}

// Slash command names understood by the bot
const (
	CommandRoleplay = "roleplay"
	CommandCommits  = "commits"

	// OptionMessage is the required string option of the roleplay command
	OptionMessage = "message"
)

// InboundEvent is one platform callback. Exactly one of Command or Message
// is set, matching Kind.
type InboundEvent struct {
	ID       string
	Platform Platform
	Kind     EventKind
	Command  *SlashCommand
	Message  *MessageEvent
}

// SlashCommand is a structured interaction carrying a command name and its options
type SlashCommand struct {
	Name    string
	Options map[string]string
}

// MessageEvent is a plain chat message as seen by the bot
type MessageEvent struct {
	AuthorID     string
	Content      string
	MentionsBot  bool
	IsReplyToBot bool
	FromBot      bool // authored by any bot account
}

// NewSlashCommandEvent builds a slash command event
func NewSlashCommandEvent(id string, platform Platform, name string, options map[string]string) InboundEvent {
	if options == nil {
		options = map[string]string{}
	}
	return InboundEvent{
		ID:       id,
		Platform: platform,
		Kind:     EventSlashCommand,
		Command:  &SlashCommand{Name: name, Options: options},
	}
}

// NewMessageEvent builds a message event
func NewMessageEvent(id string, platform Platform, msg MessageEvent) InboundEvent {
	return InboundEvent{
		ID:       id,
		Platform: platform,
		Kind:     EventMessage,
		Message:  &msg,
	}
}

// BotIdentity is the read-only identity of the bot on one platform.
// MentionTokens are the literal strings that mention the bot in message
// content, e.g. "<@123>" and "<@!123>" on Discord.
type BotIdentity struct {
	ID            string
	Name          string
	MentionTokens []string
}
