package highlights

import (
	"context"
	"time"

	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/prompt"
	"github.com/pkg/errors"
)

// ErrUnavailable is the single failure signal of a Client: transport
// errors, empty bodies and schema mismatches all collapse into it.
var ErrUnavailable = errors.New("highlights unavailable")

type Client interface {
	// Find returns highlights in the order produced by the service. The
	// Feedback and ID fields are left empty.
	Find(ctx context.Context, req prompt.Request) ([]models.Highlight, error)
}

type Config struct {
	APIKey      string
	Model       string
	Temperature float32
	// BaseURL overrides the service endpoint, mainly for proxies and tests.
	BaseURL string
	// RequestsPerMinute paces outbound calls.
	RequestsPerMinute int
	// Burst is the number of calls allowed back to back.
	Burst int
}

func (c Config) interval() time.Duration {
	if c.RequestsPerMinute <= 0 {
		return 0
	}
	return time.Minute / time.Duration(c.RequestsPerMinute)
}
