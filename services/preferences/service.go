package preferences

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nijaru/vod-highlights/errors"
	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/repository"
	"github.com/sirupsen/logrus"
)

type store struct {
	mu     sync.Mutex
	repo   repository.KVRepository
	prefs  models.Preferences
	logger *logrus.Logger
}

func NewStore(repo repository.KVRepository) Store {
	return &store{
		repo:   repo,
		prefs:  models.Preferences{Liked: []string{}, Disliked: []string{}},
		logger: logrus.StandardLogger(),
	}
}

// Load reads both keys. Absent keys are empty lists. Undecodable data is
// logged and treated as no stored preferences at all.
func (s *store) Load(ctx context.Context) (models.Preferences, error) {
	const op = "PreferenceStore.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	liked, likedErr := s.readList(ctx, LikedKey)
	disliked, dislikedErr := s.readList(ctx, DislikedKey)

	for _, err := range []error{likedErr, dislikedErr} {
		if err == nil {
			continue
		}
		if isDecodeError(err) {
			s.logger.WithError(err).Error("Failed to parse feedback from storage")
			s.prefs = models.Preferences{Liked: []string{}, Disliked: []string{}}
			return s.prefs.Clone(), nil
		}
		return models.Preferences{}, errors.Internal(op, err, "Failed to load preferences")
	}

	s.prefs = normalize(liked, disliked)
	return s.prefs.Clone(), nil
}

func (s *store) RecordLiked(ctx context.Context, description string) (models.Preferences, error) {
	return s.record(ctx, description, models.FeedbackLiked)
}

func (s *store) RecordDisliked(ctx context.Context, description string) (models.Preferences, error) {
	return s.record(ctx, description, models.FeedbackDisliked)
}

func (s *store) Clear(ctx context.Context, description string) (models.Preferences, error) {
	return s.record(ctx, description, models.FeedbackNone)
}

func (s *store) Snapshot() models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prefs.Clone()
}

func (s *store) record(ctx context.Context, description string, f models.Feedback) (models.Preferences, error) {
	const op = "PreferenceStore.record"

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.prefs.Record(description, f)

	liked, err := json.Marshal(next.Liked)
	if err != nil {
		return models.Preferences{}, errors.Internal(op, err, "Failed to encode liked highlights")
	}
	disliked, err := json.Marshal(next.Disliked)
	if err != nil {
		return models.Preferences{}, errors.Internal(op, err, "Failed to encode disliked highlights")
	}

	if err := s.repo.SetMany(ctx, map[string]string{
		LikedKey:    string(liked),
		DislikedKey: string(disliked),
	}); err != nil {
		return models.Preferences{}, errors.Internal(op, err, "Failed to persist preferences")
	}

	s.prefs = next
	s.logger.WithFields(logrus.Fields{
		"feedback": string(f),
		"liked":    len(next.Liked),
		"disliked": len(next.Disliked),
	}).Debug("Preferences updated")

	return next.Clone(), nil
}

type decodeError struct {
	key string
	err error
}

func (e *decodeError) Error() string { return e.key + ": " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func isDecodeError(err error) bool {
	_, ok := err.(*decodeError)
	return ok
}

func (s *store) readList(ctx context.Context, key string) ([]string, error) {
	raw, found, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return []string{}, nil
	}

	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, &decodeError{key: key, err: err}
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// normalize drops duplicates and enforces mutual exclusion on data written
// by something other than this store. Liked wins a conflict.
func normalize(liked, disliked []string) models.Preferences {
	p := models.Preferences{Liked: []string{}, Disliked: []string{}}
	seen := make(map[string]bool, len(liked)+len(disliked))
	for _, d := range liked {
		if !seen[d] {
			seen[d] = true
			p.Liked = append(p.Liked, d)
		}
	}
	for _, d := range disliked {
		if !seen[d] {
			seen[d] = true
			p.Disliked = append(p.Disliked, d)
		}
	}
	return p
}
