package preferences

import (
	"context"

	"github.com/nijaru/vod-highlights/models"
)

// Storage keys, one JSON-encoded string list each.
const (
	LikedKey    = "likedHighlights"
	DislikedKey = "dislikedHighlights"
)

// Store is the persisted liked/disliked description lists. Every mutation
// is written through before it returns.
type Store interface {
	Load(ctx context.Context) (models.Preferences, error)
	RecordLiked(ctx context.Context, description string) (models.Preferences, error)
	RecordDisliked(ctx context.Context, description string) (models.Preferences, error)
	Clear(ctx context.Context, description string) (models.Preferences, error)
	Snapshot() models.Preferences
}
