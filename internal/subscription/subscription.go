// Package subscription coordinates the subscribe and generate flows:
// validation, user and category persistence, weekly newsletter caching,
// delivery dedup and email dispatch.
package subscription

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"trendletter/internal/categories"
	"trendletter/internal/core"
	"trendletter/internal/email"
	"trendletter/internal/generator"
	"trendletter/internal/logger"
	"trendletter/internal/metrics"
	"trendletter/internal/store"
	"trendletter/internal/week"
)

// Delivery outcome statuses reported to callers. A repeat subscription in
// the same week is confirmed without a second email.
const (
	StatusSent        = "sent"
	StatusAlreadySent = "already-sent"
)

// Dispatcher sends a rendered newsletter email.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, html string) email.Result
}

// Pipeline generates newsletter articles for a category set.
type Pipeline interface {
	GenerateArticles(ctx context.Context, req generator.Request) []core.Article
}

// Coordinator ties the store, content pipeline and email dispatcher
// together.
type Coordinator struct {
	store      *store.Store
	pipeline   Pipeline
	dispatcher Dispatcher
	recorder   metrics.Recorder
	now        func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the time source (used by tests to pin the week).
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Coordinator) { c.recorder = r }
}

// NewCoordinator wires a Coordinator from its collaborators.
func NewCoordinator(st *store.Store, pipeline Pipeline, dispatcher Dispatcher, opts ...Option) *Coordinator {
	c := &Coordinator{
		store:      st,
		pipeline:   pipeline,
		dispatcher: dispatcher,
		recorder:   metrics.Nop{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SubscribeRequest is a subscription submission.
type SubscribeRequest struct {
	Email       string            `json:"email"`
	Name        string            `json:"name,omitempty"`
	Categories  []string          `json:"categories"`
	Preferences *core.Preferences `json:"preferences,omitempty"`
}

// SubscribeResult reports what happened to a subscription.
type SubscribeResult struct {
	Status     string           `json:"status"`
	User       *core.User       `json:"user"`
	Newsletter *core.Newsletter `json:"newsletter"`
	Email      email.Result     `json:"email"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validateSubscribe(req SubscribeRequest) (categories.Set, error) {
	if req.Email == "" {
		return categories.Set{}, core.NewValidationError("email", "email is required")
	}
	if !emailPattern.MatchString(req.Email) {
		return categories.Set{}, core.NewValidationError("email", "invalid email address")
	}
	return categories.Normalize(req.Categories)
}

// Subscribe registers (or updates) a subscriber, resolves this week's
// newsletter for their category set and delivers it at most once per week.
// Validation failures reject the request before any state changes.
func (c *Coordinator) Subscribe(ctx context.Context, req SubscribeRequest) (*SubscribeResult, error) {
	set, err := validateSubscribe(req)
	if err != nil {
		c.recorder.RecordSubscription("invalid")
		return nil, err
	}

	user, err := c.store.UpsertUserByEmail(ctx, req.Email, req.Name)
	if err != nil {
		c.recorder.RecordSubscription("error")
		return nil, err
	}
	if err := c.store.ReplaceUserCategories(ctx, user.ID, set.Names); err != nil {
		c.recorder.RecordSubscription("error")
		return nil, err
	}

	newsletter, err := c.resolveNewsletter(ctx, set, req.Preferences)
	if err != nil {
		c.recorder.RecordSubscription("error")
		return nil, err
	}

	sent, err := c.store.WasSent(ctx, user.ID, newsletter.ID)
	if err != nil {
		c.recorder.RecordSubscription("error")
		return nil, err
	}
	if sent {
		logger.Info("Newsletter already delivered this week", "user", user.Email, "newsletter", newsletter.ID)
		c.recorder.RecordSubscription(StatusAlreadySent)
		return &SubscribeResult{
			Status:     StatusAlreadySent,
			User:       user,
			Newsletter: newsletter,
		}, nil
	}

	result := c.dispatcher.Send(ctx, user.Email, newsletter.Title, newsletter.HTMLContent)
	c.recorder.RecordEmailSent(result.Simulated)

	if err := c.store.MarkSent(ctx, user.ID, newsletter.ID); err != nil {
		c.recorder.RecordSubscription("error")
		return nil, err
	}

	c.recorder.RecordSubscription(StatusSent)
	return &SubscribeResult{
		Status:     StatusSent,
		User:       user,
		Newsletter: newsletter,
		Email:      result,
	}, nil
}

// GenerateRequest asks for a week's newsletter for a category set without
// involving a subscriber. WeekOf targets a specific week; when nil the
// current week is used. Any timestamp inside the week resolves to its
// Monday bucket.
type GenerateRequest struct {
	Categories  []string          `json:"categories"`
	WeekOf      *time.Time        `json:"week_of,omitempty"`
	Preferences *core.Preferences `json:"preferences,omitempty"`
}

// GenerateResult reports the resolved newsletter and whether this call
// created it.
type GenerateResult struct {
	Newsletter *core.Newsletter `json:"newsletter"`
	Created    bool             `json:"created"`
}

// Generate resolves (generating if needed) the newsletter for the given
// categories and target week, defaulting to the current week.
func (c *Coordinator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	set, err := categories.Normalize(req.Categories)
	if err != nil {
		return nil, err
	}

	weekOf := week.StartOf(c.now())
	if req.WeekOf != nil {
		weekOf = week.StartOf(*req.WeekOf)
	}
	newsletter, created, err := c.createIfAbsent(ctx, weekOf, set, req.Preferences)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{Newsletter: newsletter, Created: created}, nil
}

func (c *Coordinator) resolveNewsletter(ctx context.Context, set categories.Set, prefs *core.Preferences) (*core.Newsletter, error) {
	weekOf := week.StartOf(c.now())
	newsletter, _, err := c.createIfAbsent(ctx, weekOf, set, prefs)
	return newsletter, err
}

func (c *Coordinator) createIfAbsent(ctx context.Context, weekOf time.Time, set categories.Set, prefs *core.Preferences) (*core.Newsletter, bool, error) {
	newsletter, outcome, err := c.store.CreateNewsletterIfAbsent(ctx, weekOf, set.Key, func(ctx context.Context) (*core.Newsletter, error) {
		articles := c.pipeline.GenerateArticles(ctx, generator.Request{
			Categories:  set.Names,
			Preferences: prefs,
		})
		if len(articles) == 0 {
			return nil, fmt.Errorf("no articles generated for %s", set.Key)
		}

		n := &core.Newsletter{
			Title:      generator.NewsletterTitle(set.Names, weekOf),
			Subtitle:   generator.NewsletterSubtitle(set.Names),
			WeekOf:     weekOf,
			Categories: set.Names,
			Articles:   articles,
		}
		html, err := email.RenderNewsletterHTML(n, "")
		if err != nil {
			return nil, err
		}
		n.HTMLContent = html
		return n, nil
	})
	if err != nil {
		return nil, false, err
	}

	switch outcome {
	case store.OutcomeCreated:
		logger.Info("Newsletter generated", "week", week.Key(weekOf), "categories", set.Key, "articles", len(newsletter.Articles))
		c.recorder.RecordNewsletterGenerated()
	case store.OutcomeConflictRecovered:
		logger.Info("Newsletter generation race lost, using winner's issue", "week", week.Key(weekOf), "categories", set.Key)
		c.recorder.RecordConflictRecovered()
	default:
		c.recorder.RecordCacheHit()
	}
	return newsletter, outcome == store.OutcomeCreated, nil
}
