// Package controller drives one highlight session: it validates links,
// runs requests against the completion client and folds ratings back into
// both the current results and the preference store.
package controller

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	apperrors "github.com/nijaru/vod-highlights/errors"
	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/prompt"
	"github.com/nijaru/vod-highlights/services/highlights"
	"github.com/nijaru/vod-highlights/services/preferences"
	"github.com/nijaru/vod-highlights/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const MsgHighlightsFailed = "Failed to generate highlights. The AI service may be unavailable. Please try again later."

var (
	ErrInvalidURL = errors.New("invalid URL format")
	// ErrStale is returned to a request whose response arrived after a newer
	// request was started. Its results are dropped.
	ErrStale = errors.New("superseded by a newer request")
)

// State is what the presentation layer renders.
type State struct {
	URL        string             `json:"url"`
	Query      string             `json:"query,omitempty"`
	Loading    bool               `json:"loading"`
	Error      string             `json:"error,omitempty"`
	Highlights []models.Highlight `json:"highlights"`
	Generation uint64             `json:"generation"`
}

func (s State) clone() State {
	s.Highlights = append([]models.Highlight{}, s.Highlights...)
	return s
}

type Controller struct {
	mu         sync.Mutex
	client     highlights.Client
	prefs      preferences.Store
	state      State
	generation uint64
	newID      func() string
	logger     *logrus.Logger
}

func New(client highlights.Client, prefs preferences.Store) *Controller {
	return &Controller{
		client: client,
		prefs:  prefs,
		state:  State{Highlights: []models.Highlight{}},
		newID:  uuid.NewString,
		logger: logrus.StandardLogger(),
	}
}

// Load reads stored preferences once at startup.
func (c *Controller) Load(ctx context.Context) error {
	prefs, err := c.prefs.Load(ctx)
	if err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{
		"liked":    len(prefs.Liked),
		"disliked": len(prefs.Disliked),
	}).Info("Preferences loaded")
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

func (c *Controller) Preferences() models.Preferences {
	return c.prefs.Snapshot()
}

// Highlight looks up a highlight of the current result set by ID.
func (c *Controller) Highlight(id string) (models.Highlight, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, h := range c.state.Highlights {
		if h.ID == id {
			return h, c.state.URL, true
		}
	}
	return models.Highlight{}, "", false
}

// RequestHighlights validates url, asks the client for highlights and
// annotates them with stored feedback. An invalid url never reaches the
// client.
func (c *Controller) RequestHighlights(ctx context.Context, url, query string) (State, error) {
	const op = "Controller.RequestHighlights"

	if err := validation.ValidateVODURL(url); err != nil {
		msg := err.Error()
		if appErr, ok := apperrors.As(err); ok {
			msg = appErr.Message
		}
		c.mu.Lock()
		c.state.Error = msg
		st := c.state.clone()
		c.mu.Unlock()
		return st, apperrors.InvalidInput(op, ErrInvalidURL, msg)
	}

	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = State{
		URL:        url,
		Query:      query,
		Loading:    true,
		Highlights: []models.Highlight{},
		Generation: gen,
	}
	prefs := c.prefs.Snapshot()
	c.mu.Unlock()

	logger := c.logger.WithContext(ctx).WithFields(logrus.Fields{
		"url":        url,
		"generation": gen,
	})

	finished := false
	defer func() {
		if finished {
			return
		}
		c.mu.Lock()
		if c.generation == gen {
			c.state.Loading = false
			c.state.Error = MsgHighlightsFailed
		}
		c.mu.Unlock()
	}()

	req := prompt.Build(models.RequestParams{
		URL:              url,
		Query:            query,
		LikedExamples:    prefs.Liked,
		DislikedExamples: prefs.Disliked,
	})

	results, err := c.client.Find(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	finished = true

	if c.generation != gen {
		logger.WithField("current_generation", c.generation).Warn("Discarding stale highlight response")
		return c.state.clone(), apperrors.Conflict(op, ErrStale, "A newer highlight request replaced this one.")
	}

	c.state.Loading = false

	if err != nil {
		logger.WithError(err).Error("Failed to generate highlights")
		c.state.Error = MsgHighlightsFailed
		return c.state.clone(), apperrors.Unavailable(op, err, MsgHighlightsFailed)
	}

	annotated := c.prefs.Snapshot().Annotate(results)
	for i := range annotated {
		annotated[i].ID = c.newID()
	}
	c.state.Highlights = annotated

	logger.WithField("count", len(annotated)).Info("Highlights ready")
	return c.state.clone(), nil
}

// SubmitFeedback toggles f on every current highlight with description.
// Repeating the current rating clears it. Preferences are persisted before
// the state changes; no request is made to the completion client.
func (c *Controller) SubmitFeedback(ctx context.Context, description string, f models.Feedback) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitLocked(ctx, description, f)
}

// SubmitFeedbackByID rates the highlight with the given ID.
func (c *Controller) SubmitFeedbackByID(ctx context.Context, id string, f models.Feedback) (State, error) {
	const op = "Controller.SubmitFeedbackByID"

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range c.state.Highlights {
		if h.ID == id {
			return c.submitLocked(ctx, h.Description, f)
		}
	}
	return c.state.clone(), apperrors.NotFound(op, nil, "Highlight not found")
}

func (c *Controller) submitLocked(ctx context.Context, description string, f models.Feedback) (State, error) {
	const op = "Controller.SubmitFeedback"

	if f != models.FeedbackLiked && f != models.FeedbackDisliked {
		return c.state.clone(), apperrors.InvalidInput(op, nil, fmt.Sprintf("unknown feedback %q", f))
	}
	if description == "" {
		return c.state.clone(), apperrors.InvalidInput(op, nil, "description is required")
	}

	current, ok := c.currentFeedback(description)
	if !ok {
		current = c.prefs.Snapshot().Status(description)
	}

	next := f
	var err error
	switch {
	case current == f:
		next = models.FeedbackNone
		_, err = c.prefs.Clear(ctx, description)
	case f == models.FeedbackLiked:
		_, err = c.prefs.RecordLiked(ctx, description)
	default:
		_, err = c.prefs.RecordDisliked(ctx, description)
	}
	if err != nil {
		return c.state.clone(), apperrors.Internal(op, err, "Failed to save feedback")
	}

	for i := range c.state.Highlights {
		if c.state.Highlights[i].Description == description {
			c.state.Highlights[i].Feedback = next
		}
	}

	c.logger.WithFields(logrus.Fields{
		"feedback": string(next),
		"matched":  ok,
	}).Info("Feedback recorded")

	return c.state.clone(), nil
}

func (c *Controller) currentFeedback(description string) (models.Feedback, bool) {
	for _, h := range c.state.Highlights {
		if h.Description == description {
			return h.Feedback, true
		}
	}
	return models.FeedbackNone, false
}
