package handlers

import (
	"context"
	"sort"

	"github.com/coltonsr77/uzi-doorman-bot/internal/logger"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
	"github.com/coltonsr77/uzi-doorman-bot/internal/router"
	"github.com/coltonsr77/uzi-doorman-bot/internal/validation"
)

// Replier resolves the reply for an event without delivering it
type Replier interface {
	Handle(ctx context.Context, event models.InboundEvent) (router.Action, bool)
}

// StatusProvider reports the connection state of a chat platform
type StatusProvider interface {
	Status() models.PlatformStatus
}

// detailedStatus is implemented by platforms that expose extra
// connection diagnostics
type detailedStatus interface {
	GetConnectionStatus() map[string]interface{}
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	replier   Replier
	platforms map[string]StatusProvider
	log       *logger.Logger
	validator *validation.Validator
}

// New creates a new handler instance
func New(replier Replier, log *logger.Logger) *Handler {
	return &Handler{
		replier:   replier,
		platforms: make(map[string]StatusProvider),
		log:       log.Component("http"),
		validator: validation.New(),
	}
}

// AddPlatform registers a platform for health reporting. Call before
// serving requests.
func (h *Handler) AddPlatform(name string, p StatusProvider) {
	h.platforms[name] = p
}

func (h *Handler) platformNames() []string {
	names := make([]string, 0, len(h.platforms))
	for name := range h.platforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
