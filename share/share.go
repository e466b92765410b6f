// Package share builds links, share messages and clip offsets for single
// highlights, and exports whole result sets to object storage.
package share

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nijaru/vod-highlights/models"
)

// ClipLeadIn is how far before a highlight the clip editor starts playback.
const ClipLeadIn = 15 * time.Second

// URLTimestamp converts HH:MM:SS into the player's ?t= form, e.g. 1h2m3s.
// Anything else yields 0s.
func URLTimestamp(timestamp string) string {
	h, m, s, ok := splitTimestamp(timestamp)
	if !ok {
		return "0s"
	}
	return fmt.Sprintf("%dh%dm%ds", h, m, s)
}

func Link(vodURL string, h models.Highlight) string {
	return vodURL + "?t=" + URLTimestamp(h.Timestamp)
}

func Text(vodURL string, h models.Highlight) string {
	return fmt.Sprintf("Check out this highlight from the stream: \"%s\"!\n\n%s\n\nWatch it here: %s",
		h.Title, h.Description, Link(vodURL, h))
}

// ClipStart is the playback offset for the clip editor, never negative.
func ClipStart(timestamp string) time.Duration {
	h, m, s, ok := splitTimestamp(timestamp)
	if !ok {
		return 0
	}
	start := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second - ClipLeadIn
	if start < 0 {
		return 0
	}
	return start
}

func Describe(vodURL string, h models.Highlight) models.ShareResponse {
	return models.ShareResponse{
		URL:              Link(vodURL, h),
		Text:             Text(vodURL, h),
		ClipStartSeconds: int(ClipStart(h.Timestamp) / time.Second),
	}
}

func splitTimestamp(timestamp string) (h, m, s int, ok bool) {
	parts := strings.Split(timestamp, ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return 0, 0, 0, false
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], true
}
