package share

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ObjectWriter stores a JSON document under a key.
type ObjectWriter interface {
	PutJSON(ctx context.Context, key string, v interface{}) error
}

// Reel is the exported document for one result set.
type Reel struct {
	VODURL     string      `json:"vod_url"`
	VideoID    string      `json:"video_id"`
	Query      string      `json:"query,omitempty"`
	ExportedAt time.Time   `json:"exported_at"`
	Highlights []ReelEntry `json:"highlights"`
}

type ReelEntry struct {
	models.Highlight
	Link             string `json:"link"`
	ClipStartSeconds int    `json:"clip_start_seconds"`
}

type Exporter struct {
	store  ObjectWriter
	now    func() time.Time
	newID  func() string
	logger *logrus.Logger
}

func NewExporter(store ObjectWriter) *Exporter {
	return &Exporter{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logrus.StandardLogger(),
	}
}

// Export writes highlights as a Reel and returns the object key,
// highlights/<video-id>/<uuid>.json.
func (e *Exporter) Export(ctx context.Context, vodURL, query string, highlights []models.Highlight) (string, error) {
	if len(highlights) == 0 {
		return "", errors.New("no highlights to export")
	}

	videoID := validation.VideoID(vodURL)
	reel := Reel{
		VODURL:     vodURL,
		VideoID:    videoID,
		Query:      query,
		ExportedAt: e.now().UTC(),
		Highlights: make([]ReelEntry, len(highlights)),
	}
	for i, h := range highlights {
		d := Describe(vodURL, h)
		reel.Highlights[i] = ReelEntry{
			Highlight:        h,
			Link:             d.URL,
			ClipStartSeconds: d.ClipStartSeconds,
		}
	}

	key := fmt.Sprintf("highlights/%s/%s.json", videoID, e.newID())
	if err := e.store.PutJSON(ctx, key, reel); err != nil {
		return "", errors.Wrap(err, "export failed")
	}

	e.logger.WithFields(logrus.Fields{
		"key":   key,
		"count": len(highlights),
	}).Info("Highlights exported")

	return key, nil
}
