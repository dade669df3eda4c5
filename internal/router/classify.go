package router

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

// Route is the outcome of classifying an inbound event
type Route int

const (
	RouteIgnored Route = iota
	RouteRoleplay
	RouteCommits
	RouteAutoMention
	RouteAutoReply
)

func (r Route) String() string {
	switch r {
	case RouteRoleplay:
		return "roleplay"
	case RouteCommits:
		return "commits"
	case RouteAutoMention:
		return "auto_mention"
	case RouteAutoReply:
		return "auto_reply"
	default:
		return "ignored"
	}
}

// auto reports whether the route answers a plain message
func (r Route) auto() bool {
	return r == RouteAutoMention || r == RouteAutoReply
}

// DefaultPrompt replaces a prompt that is empty once mentions are stripped
const DefaultPrompt = "Hi"

// Classification is the route of an event plus the prompt extracted for it.
// Prompt is empty for RouteCommits and RouteIgnored.
type Classification struct {
	Route  Route
	Prompt string
}

// Classify decides how the bot reacts to event. It has no side effects.
func Classify(identity models.BotIdentity, event models.InboundEvent) Classification {
	switch event.Kind {
	case models.EventSlashCommand:
		if event.Command == nil {
			return Classification{Route: RouteIgnored}
		}
		switch event.Command.Name {
		case models.CommandRoleplay:
			return Classification{
				Route:  RouteRoleplay,
				Prompt: normalizePrompt(event.Command.Options[models.OptionMessage]),
			}
		case models.CommandCommits:
			return Classification{Route: RouteCommits}
		}

	case models.EventMessage:
		msg := event.Message
		if msg == nil || msg.FromBot || (identity.ID != "" && msg.AuthorID == identity.ID) {
			return Classification{Route: RouteIgnored}
		}

		route := RouteIgnored
		switch {
		case msg.MentionsBot:
			route = RouteAutoMention
		case msg.IsReplyToBot:
			route = RouteAutoReply
		}
		if route != RouteIgnored {
			return Classification{
				Route:  route,
				Prompt: normalizePrompt(StripMentions(msg.Content, identity.MentionTokens)),
			}
		}
	}

	return Classification{Route: RouteIgnored}
}

// StripMentions removes every occurrence of the given mention tokens. A
// token ending in a letter or digit only matches when it is not followed by
// another letter or digit, so "@123" leaves "@1234" alone.
func StripMentions(content string, tokens []string) string {
	for _, token := range tokens {
		if token == "" {
			continue
		}
		content = stripToken(content, token)
	}
	return content
}

func stripToken(content, token string) string {
	last, _ := utf8.DecodeLastRuneInString(token)
	bounded := isWordRune(last)

	var b strings.Builder
	for {
		idx := strings.Index(content, token)
		if idx == -1 {
			b.WriteString(content)
			return b.String()
		}
		end := idx + len(token)
		if next, _ := utf8.DecodeRuneInString(content[end:]); bounded && end < len(content) && isWordRune(next) {
			b.WriteString(content[:end])
		} else {
			b.WriteString(content[:idx])
		}
		content = content[end:]
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func normalizePrompt(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultPrompt
	}
	return text
}
