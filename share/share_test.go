package share

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/nijaru/vod-highlights/models"
	"github.com/pkg/errors"
)

const vod = "https://www.twitch.tv/videos/123456789"

func TestURLTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"01:02:03", "1h2m3s"},
		{"00:00:00", "0h0m0s"},
		{"12:45:09", "12h45m9s"},
		{"123:00:01", "123h0m1s"},
		{"02:03", "0s"},
		{"", "0s"},
		{"aa:bb:cc", "0s"},
		{"1:2:3:4", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := URLTimestamp(tt.in); got != tt.want {
				t.Errorf("URLTimestamp(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLinkAndText(t *testing.T) {
	h := models.Highlight{Timestamp: "01:23:45", Title: "Clutch", Description: "1v3 ace"}

	link := Link(vod, h)
	if link != vod+"?t=1h23m45s" {
		t.Errorf("Link() = %q", link)
	}

	want := "Check out this highlight from the stream: \"Clutch\"!\n\n1v3 ace\n\nWatch it here: " + link
	if got := Text(vod, h); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}
}

func TestClipStart(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"00:00:10", 0},
		{"00:00:15", 0},
		{"00:01:00", 45 * time.Second},
		{"01:00:00", time.Hour - 15*time.Second},
		{"bad", 0},
	}

	for _, tt := range tests {
		if got := ClipStart(tt.in); got != tt.want {
			t.Errorf("ClipStart(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

type recordingWriter struct {
	key string
	doc interface{}
	err error
}

func (w *recordingWriter) PutJSON(_ context.Context, key string, v interface{}) error {
	if w.err != nil {
		return w.err
	}
	w.key = key
	w.doc = v
	return nil
}

func TestExporter_Export(t *testing.T) {
	w := &recordingWriter{}
	e := NewExporter(w)
	e.newID = func() string { return "fixed" }
	e.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	hs := []models.Highlight{
		{ID: "a", Timestamp: "00:00:30", Title: "One", Description: "first", Feedback: models.FeedbackLiked},
		{ID: "b", Timestamp: "01:00:00", Title: "Two", Description: "second"},
	}

	key, err := e.Export(context.Background(), vod, "funny", hs)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if key != "highlights/123456789/fixed.json" {
		t.Errorf("key = %q", key)
	}

	reel, ok := w.doc.(Reel)
	if !ok {
		t.Fatalf("document type %T", w.doc)
	}
	if reel.VideoID != "123456789" || reel.Query != "funny" || len(reel.Highlights) != 2 {
		t.Errorf("unexpected reel %+v", reel)
	}
	if reel.Highlights[0].ClipStartSeconds != 15 || !strings.HasSuffix(reel.Highlights[1].Link, "?t=1h0m0s") {
		t.Errorf("entries not described: %+v", reel.Highlights)
	}
	if reel.Highlights[0].Feedback != models.FeedbackLiked {
		t.Error("feedback dropped from export")
	}
}

func TestExporter_Errors(t *testing.T) {
	if _, err := NewExporter(&recordingWriter{}).Export(context.Background(), vod, "", nil); err == nil {
		t.Error("expected error for empty result set")
	}

	cause := errors.New("bucket gone")
	_, err := NewExporter(&recordingWriter{err: cause}).Export(context.Background(), vod, "",
		[]models.Highlight{{Timestamp: "00:00:01", Title: "t", Description: "d"}})
	if errors.Cause(err) != cause {
		t.Errorf("expected cause %v, got %v", cause, err)
	}
}
