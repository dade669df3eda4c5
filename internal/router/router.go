// Package router decides, for every inbound chat event, whether the bot
// answers and with what. Each qualifying event gets exactly one
// acknowledgment and exactly one reply; collaborator failures become
// fixed fallback text and never escape.
package router

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/formatter"
	"github.com/coltonsr77/uzi-doorman-bot/internal/logger"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

// Fallback replies sent when a collaborator fails
const (
	FallbackRoleplay = "Uzi malfunctioned while processing that..."
	FallbackAuto     = "Uzi glitched out..."
	FallbackCommits  = "Could not fetch commits."
)

// ResponseGenerator produces the persona's answer to a prompt
type ResponseGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CommitLister lists the newest commits of a repository
type CommitLister interface {
	ListCommits(ctx context.Context, repo string) ([]models.CommitRecord, error)
}

// Responder performs the platform side effects for one event
type Responder interface {
	// Defer acknowledges the event before the slow collaborator call
	Defer(ctx context.Context) error
	// Reply sends the final text
	Reply(ctx context.Context, text string) error
}

// Deps are the collaborators shared by every router instance
type Deps struct {
	Generator        ResponseGenerator
	Commits          CommitLister
	Repo             string
	GeneratorTimeout time.Duration
	CommitsTimeout   time.Duration
	Log              *logger.Logger
}

// Router classifies events for one bot identity and resolves their replies
type Router struct {
	identity models.BotIdentity
	deps     Deps
	log      *logger.Logger
}

// Action is the resolved reply for a handled event
type Action struct {
	Route    Route
	Text     string
	Fallback bool // Text is a fallback because a collaborator failed
}

// New creates a router for identity
func New(identity models.BotIdentity, deps Deps) *Router {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Router{
		identity: identity,
		deps:     deps,
		log:      log.Component("router"),
	}
}

// Identity returns the bot identity the router was built for
func (r *Router) Identity() models.BotIdentity {
	return r.identity
}

// Classify classifies event against the router's identity
func (r *Router) Classify(event models.InboundEvent) Classification {
	return Classify(r.identity, event)
}

// Dispatch handles event end to end. Ignored events cause no responder
// calls; every other event causes one Defer and one Reply. Responder
// errors are logged, not returned.
func (r *Router) Dispatch(ctx context.Context, event models.InboundEvent, responder Responder) Action {
	class := r.Classify(event)
	log := r.eventLogger(&event, class.Route)

	if class.Route == RouteIgnored {
		log.Debug("Event ignored")
		return Action{Route: RouteIgnored}
	}

	if err := responder.Defer(ctx); err != nil {
		log.Error("Failed to acknowledge event", err)
	}

	action := r.resolve(ctx, class, log)

	if err := responder.Reply(ctx, action.Text); err != nil {
		log.With("error_code", apperrors.ErrCodeMessageSendFailed).Error("Failed to send reply", err)
	}

	return action
}

// Handle resolves the reply for event without performing side effects.
// ok is false when the event is ignored.
func (r *Router) Handle(ctx context.Context, event models.InboundEvent) (Action, bool) {
	class := r.Classify(event)
	log := r.eventLogger(&event, class.Route)

	if class.Route == RouteIgnored {
		log.Debug("Event ignored")
		return Action{Route: RouteIgnored}, false
	}
	return r.resolve(ctx, class, log), true
}

func (r *Router) resolve(ctx context.Context, class Classification, log *logger.Logger) Action {
	started := time.Now()
	action := Action{Route: class.Route}

	switch {
	case class.Route == RouteCommits:
		records, err := r.listCommits(ctx)
		if err != nil {
			log.With("error_code", apperrors.CodeOf(err)).Error("Commit fetch failed", err)
			action.Text, action.Fallback = FallbackCommits, true
			break
		}
		action.Text = formatter.Commits(records)

	case class.Route == RouteRoleplay || class.Route.auto():
		sentinel, fallback := formatter.SilentRoleplay, FallbackRoleplay
		if class.Route.auto() {
			sentinel, fallback = formatter.SilentAuto, FallbackAuto
		}

		text, err := r.generate(ctx, class.Prompt)
		if err != nil {
			log.With("error_code", apperrors.CodeOf(err)).Error("Generation failed", err)
			action.Text, action.Fallback = fallback, true
			break
		}
		action.Text = formatter.Reply(text, sentinel)
	}

	log.With("fallback", action.Fallback).
		With("duration", time.Since(started).String()).
		Info("Event handled")
	return action
}

func (r *Router) generate(ctx context.Context, prompt string) (text string, err error) {
	if r.deps.Generator == nil {
		return "", apperrors.GenerationFailed(fmt.Errorf("no generator configured"))
	}

	ctx, cancel := withTimeout(ctx, r.deps.GeneratorTimeout)
	defer cancel()
	defer recoverInto(&err, apperrors.ErrCodeGenerationFailed)

	text, err = r.deps.Generator.Generate(ctx, prompt)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		return "", asAppError(err, apperrors.ErrCodeGenerationFailed)
	}
	return text, nil
}

func (r *Router) listCommits(ctx context.Context) (records []models.CommitRecord, err error) {
	if r.deps.Commits == nil {
		return nil, apperrors.CommitFetchFailed(fmt.Errorf("no commit lister configured"))
	}

	ctx, cancel := withTimeout(ctx, r.deps.CommitsTimeout)
	defer cancel()
	defer recoverInto(&err, apperrors.ErrCodeCommitFetchFailed)

	records, err = r.deps.Commits.ListCommits(ctx, r.deps.Repo)
	if err != nil {
		return nil, asAppError(err, apperrors.ErrCodeCommitFetchFailed)
	}
	return records, nil
}

func (r *Router) eventLogger(event *models.InboundEvent, route Route) *logger.Logger {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return r.log.
		With("event_id", event.ID).
		With("platform", string(event.Platform)).
		With("kind", event.Kind.String()).
		With("route", route.String())
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// recoverInto turns a collaborator panic into an error so one bad call
// cannot take the event loop down.
func recoverInto(err *error, code apperrors.ErrorCode) {
	if rec := recover(); rec != nil {
		*err = apperrors.Wrap(fmt.Errorf("panic: %v", rec), code, "Collaborator panicked")
	}
}

func asAppError(err error, code apperrors.ErrorCode) error {
	if apperrors.CodeOf(err) != apperrors.ErrCodeInternalError {
		return err
	}
	return apperrors.Wrap(err, code, "Collaborator call failed")
}
