// Package discord connects the router to a Discord bot session.
package discord

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/logger"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
	"github.com/coltonsr77/uzi-doorman-bot/internal/router"
)

// Client wraps a discordgo session and feeds its events to a router
type Client struct {
	session *discordgo.Session
	deps    router.Deps
	log     *logger.Logger

	mu        sync.RWMutex
	ctx       context.Context
	router    *router.Router
	connected bool
	removers  []func()
}

// NewClient creates a Discord client for the given bot token
func NewClient(token string, deps router.Deps, log *logger.Logger) (*Client, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	return &Client{
		session: session,
		deps:    deps,
		log:     log.Component("discord"),
		ctx:     context.Background(),
	}, nil
}

// Connect opens the gateway session, resolves the bot identity and starts
// routing events. Handlers run until Disconnect.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.removers = append(c.removers,
		c.session.AddHandler(c.onConnect),
		c.session.AddHandler(c.onDisconnect),
	)
	c.mu.Unlock()

	if err := c.session.Open(); err != nil {
		return apperrors.ConnectionFailed("Discord", err)
	}

	botUser, err := c.session.User("@me")
	if err != nil {
		return apperrors.ConnectionFailed("Discord", fmt.Errorf("get bot user: %w", err))
	}

	rt := router.New(identityFor(botUser), c.deps)

	c.mu.Lock()
	c.router = rt
	c.connected = true
	c.removers = append(c.removers,
		c.session.AddHandler(c.onInteractionCreate),
		c.session.AddHandler(c.onMessageCreate),
	)
	c.mu.Unlock()

	c.log.With("user_id", botUser.ID).With("username", botUser.Username).Info("Discord bot connected")
	return nil
}

// Disconnect closes the session and detaches all handlers
func (c *Client) Disconnect() {
	c.mu.Lock()
	for _, remove := range c.removers {
		remove()
	}
	c.removers = nil
	c.connected = false
	c.mu.Unlock()

	if err := c.session.Close(); err != nil {
		c.log.Error("Failed to close discord session", err)
		return
	}
	c.log.Info("Disconnected from Discord")
}

// Status reports the connection state for health checks
func (c *Client) Status() models.PlatformStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status := models.PlatformStatus{Enabled: true, Connected: c.connected}
	if c.router != nil {
		status.Identity = c.router.Identity().Name
	}
	return status
}

func (c *Client) state() (context.Context, *router.Router) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ctx, c.router
}

func (c *Client) onConnect(_ *discordgo.Session, _ *discordgo.Connect) {
	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()
	c.log.Debug("Discord gateway connected")
}

func (c *Client) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	c.mu.Lock()
	c.connected = false
	c.mu.Unlock()
	c.log.Warn("Discord gateway disconnected")
}

func (c *Client) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, rt := c.state()
	if rt == nil {
		return
	}

	event, ok := commandEvent(i)
	if !ok {
		return
	}

	rt.Dispatch(ctx, event, &interactionResponder{session: s, interaction: i.Interaction})
}

func (c *Client) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	ctx, rt := c.state()
	if rt == nil {
		return
	}

	lookup := func(channelID, messageID string) (*discordgo.Message, error) {
		return s.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	}
	event := messageEvent(rt.Identity().ID, m.Message, lookup)

	rt.Dispatch(ctx, event, &messageResponder{session: s, message: m.Message})
}
