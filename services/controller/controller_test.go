package controller

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/nijaru/vod-highlights/errors"
	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/prompt"
	"github.com/nijaru/vod-highlights/repository/memory"
	"github.com/nijaru/vod-highlights/services/highlights"
	"github.com/nijaru/vod-highlights/services/preferences"
	"github.com/nijaru/vod-highlights/validation"
	"github.com/pkg/errors"
)

const testURL = "https://www.twitch.tv/videos/123456789"

type fakeClient struct {
	mu       sync.Mutex
	calls    int
	requests []prompt.Request
	results  []models.Highlight
	err      error
	// gate, when set, blocks Find until it is closed. started is closed
	// once the blocked call has begun.
	gate    chan struct{}
	started chan struct{}
}

func (f *fakeClient) Find(ctx context.Context, req prompt.Request) ([]models.Highlight, error) {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	gate := f.gate
	results, err := f.results, f.err
	f.mu.Unlock()

	if gate != nil {
		close(f.started)
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return append([]models.Highlight{}, results...), nil
}

func (f *fakeClient) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestController(t *testing.T, client highlights.Client) (*Controller, preferences.Store) {
	t.Helper()
	store := preferences.NewStore(memory.NewRepository())
	if _, err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c := New(client, store)
	n := 0
	c.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return c, store
}

func sample() []models.Highlight {
	return []models.Highlight{
		{Timestamp: "00:10:00", Title: "Opening", Description: "A"},
		{Timestamp: "01:00:00", Title: "Middle", Description: "B"},
		{Timestamp: "02:30:15", Title: "Ending", Description: "C"},
	}
}

func TestRequestHighlights_InvalidURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantMsg string
	}{
		{"empty", "", validation.MsgURLRequired},
		{"wrong host", "https://youtube.com/watch?v=1", validation.MsgURLMalformed},
		{"trailing path", "https://twitch.tv/videos/123/extra", validation.MsgURLMalformed},
		{"leading space", " https://twitch.tv/videos/123", validation.MsgURLMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{results: sample()}
			c, _ := newTestController(t, client)

			st, err := c.RequestHighlights(context.Background(), tt.url, "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !stderrors.Is(err, ErrInvalidURL) {
				t.Errorf("expected ErrInvalidURL, got %v", err)
			}
			if !apperrors.IsInvalidInput(err) {
				t.Errorf("expected 400, got %d", apperrors.StatusCode(err))
			}
			if client.Calls() != 0 {
				t.Errorf("client called %d times for invalid URL", client.Calls())
			}
			if st.Error != tt.wantMsg {
				t.Errorf("Error = %q, want %q", st.Error, tt.wantMsg)
			}
			if st.Loading {
				t.Error("loading must not be set for invalid input")
			}
		})
	}
}

func TestRequestHighlights_PreservesOrderAndAnnotates(t *testing.T) {
	client := &fakeClient{results: sample()}
	c, store := newTestController(t, client)
	ctx := context.Background()

	if _, err := store.RecordLiked(ctx, "A"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.RecordDisliked(ctx, "C"); err != nil {
		t.Fatal(err)
	}

	st, err := c.RequestHighlights(ctx, testURL, "funny moments")
	if err != nil {
		t.Fatalf("RequestHighlights() error = %v", err)
	}

	want := []struct {
		desc     string
		feedback models.Feedback
	}{
		{"A", models.FeedbackLiked},
		{"B", models.FeedbackNone},
		{"C", models.FeedbackDisliked},
	}
	if len(st.Highlights) != len(want) {
		t.Fatalf("got %d highlights, want %d", len(st.Highlights), len(want))
	}
	for i, w := range want {
		h := st.Highlights[i]
		if h.Description != w.desc || h.Feedback != w.feedback {
			t.Errorf("highlight %d = (%q, %q), want (%q, %q)", i, h.Description, h.Feedback, w.desc, w.feedback)
		}
		if h.ID == "" {
			t.Errorf("highlight %d has no ID", i)
		}
	}
	if st.Loading || st.Error != "" {
		t.Errorf("unexpected state %+v", st)
	}
	if st.URL != testURL || st.Query != "funny moments" {
		t.Errorf("state did not record request: %+v", st)
	}

	text := client.requests[0].Text
	if !strings.Contains(text, `"funny moments"`) {
		t.Error("prompt is missing the query")
	}
	if !strings.Contains(text, "\n- A") || !strings.Contains(text, "\n- C") {
		t.Errorf("prompt is missing preference examples:\n%s", text)
	}
}

func TestRequestHighlights_LikedScenario(t *testing.T) {
	client := &fakeClient{results: []models.Highlight{
		{Timestamp: "00:42:17", Title: "Clutch", Description: "1v3 ace"},
	}}
	c, store := newTestController(t, client)
	ctx := context.Background()

	if _, err := store.RecordLiked(ctx, "1v3 ace"); err != nil {
		t.Fatal(err)
	}

	st, err := c.RequestHighlights(ctx, testURL, "")
	if err != nil {
		t.Fatalf("RequestHighlights() error = %v", err)
	}
	if st.Highlights[0].Feedback != models.FeedbackLiked {
		t.Errorf("Feedback = %q, want liked", st.Highlights[0].Feedback)
	}
	if !strings.Contains(client.requests[0].Text, "1v3 ace") {
		t.Error("liked example missing from prompt")
	}
}

func TestRequestHighlights_Failure(t *testing.T) {
	client := &fakeClient{err: errors.Wrap(highlights.ErrUnavailable, "boom")}
	c, _ := newTestController(t, client)

	st, err := c.RequestHighlights(context.Background(), testURL, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !stderrors.Is(err, highlights.ErrUnavailable) {
		t.Errorf("expected ErrUnavailable in chain, got %v", err)
	}
	if apperrors.StatusCode(err) != 502 {
		t.Errorf("status = %d, want 502", apperrors.StatusCode(err))
	}
	if len(st.Highlights) != 0 {
		t.Errorf("expected no highlights, got %d", len(st.Highlights))
	}
	if st.Loading {
		t.Error("loading not cleared after failure")
	}
	if st.Error != MsgHighlightsFailed {
		t.Errorf("Error = %q", st.Error)
	}
}

func TestRequestHighlights_ClearsPreviousResults(t *testing.T) {
	client := &fakeClient{results: sample()}
	c, _ := newTestController(t, client)
	ctx := context.Background()

	if _, err := c.RequestHighlights(ctx, testURL, ""); err != nil {
		t.Fatal(err)
	}

	client.mu.Lock()
	client.err = highlights.ErrUnavailable
	client.mu.Unlock()

	st, _ := c.RequestHighlights(ctx, testURL, "")
	if len(st.Highlights) != 0 {
		t.Errorf("previous results survived a failed request: %+v", st.Highlights)
	}
}

func TestRequestHighlights_DiscardsStaleResponse(t *testing.T) {
	gate := make(chan struct{})
	slow := &fakeClient{results: sample(), gate: gate, started: make(chan struct{})}
	c, _ := newTestController(t, slow)
	ctx := context.Background()

	type result struct {
		st  State
		err error
	}
	done := make(chan result, 1)
	go func() {
		st, err := c.RequestHighlights(ctx, testURL, "first")
		done <- result{st, err}
	}()

	<-slow.started

	fast := []models.Highlight{{Timestamp: "00:00:05", Title: "Fast", Description: "F"}}
	c.client = &fakeClient{results: fast}
	c2, err := c.RequestHighlights(ctx, testURL, "second")
	if err != nil {
		t.Fatalf("second request error = %v", err)
	}
	if len(c2.Highlights) != 1 {
		t.Fatalf("second request got %d highlights", len(c2.Highlights))
	}

	close(gate)
	r := <-done
	if !stderrors.Is(r.err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", r.err)
	}
	if apperrors.StatusCode(r.err) != 409 {
		t.Errorf("status = %d, want 409", apperrors.StatusCode(r.err))
	}

	st := c.State()
	if st.Query != "second" || len(st.Highlights) != 1 || st.Highlights[0].Description != "F" {
		t.Errorf("stale response overwrote state: %+v", st)
	}
	if st.Loading {
		t.Error("loading should be cleared")
	}
}

func TestSubmitFeedback_Toggle(t *testing.T) {
	client := &fakeClient{results: sample()}
	c, store := newTestController(t, client)
	ctx := context.Background()

	if _, err := c.RequestHighlights(ctx, testURL, ""); err != nil {
		t.Fatal(err)
	}

	st, err := c.SubmitFeedback(ctx, "B", models.FeedbackLiked)
	if err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if st.Highlights[1].Feedback != models.FeedbackLiked {
		t.Errorf("Feedback = %q, want liked", st.Highlights[1].Feedback)
	}
	if store.Snapshot().Status("B") != models.FeedbackLiked {
		t.Error("like not persisted")
	}

	// Switching to dislike moves the description between lists.
	st, _ = c.SubmitFeedback(ctx, "B", models.FeedbackDisliked)
	p := store.Snapshot()
	if st.Highlights[1].Feedback != models.FeedbackDisliked || p.Status("B") != models.FeedbackDisliked {
		t.Errorf("switch failed: %q / %+v", st.Highlights[1].Feedback, p)
	}
	if len(p.Liked) != 0 {
		t.Errorf("description still liked: %+v", p)
	}

	// Repeating the same rating undoes it.
	st, _ = c.SubmitFeedback(ctx, "B", models.FeedbackDisliked)
	p = store.Snapshot()
	if st.Highlights[1].Feedback != models.FeedbackNone {
		t.Errorf("Feedback = %q, want unset", st.Highlights[1].Feedback)
	}
	if len(p.Liked) != 0 || len(p.Disliked) != 0 {
		t.Errorf("preferences not restored: %+v", p)
	}

	if client.Calls() != 1 {
		t.Errorf("feedback triggered %d client calls", client.Calls()-1)
	}
}

func TestSubmitFeedback_DuplicateDescriptions(t *testing.T) {
	client := &fakeClient{results: []models.Highlight{
		{Timestamp: "00:01:00", Title: "One", Description: "same"},
		{Timestamp: "00:02:00", Title: "Two", Description: "other"},
		{Timestamp: "00:03:00", Title: "Three", Description: "same"},
	}}
	c, _ := newTestController(t, client)
	ctx := context.Background()

	if _, err := c.RequestHighlights(ctx, testURL, ""); err != nil {
		t.Fatal(err)
	}
	st, err := c.SubmitFeedback(ctx, "same", models.FeedbackLiked)
	if err != nil {
		t.Fatal(err)
	}
	if st.Highlights[0].Feedback != models.FeedbackLiked || st.Highlights[2].Feedback != models.FeedbackLiked {
		t.Errorf("duplicates not updated together: %+v", st.Highlights)
	}
	if st.Highlights[1].Feedback != models.FeedbackNone {
		t.Errorf("unrelated highlight changed: %+v", st.Highlights[1])
	}
}

func TestSubmitFeedback_WithoutResults(t *testing.T) {
	c, store := newTestController(t, &fakeClient{})
	ctx := context.Background()

	if _, err := c.SubmitFeedback(ctx, "earlier", models.FeedbackLiked); err != nil {
		t.Fatal(err)
	}
	if store.Snapshot().Status("earlier") != models.FeedbackLiked {
		t.Fatal("like not recorded")
	}
	if _, err := c.SubmitFeedback(ctx, "earlier", models.FeedbackLiked); err != nil {
		t.Fatal(err)
	}
	if store.Snapshot().Status("earlier") != models.FeedbackNone {
		t.Error("stored status should toggle off")
	}
}

func TestSubmitFeedback_Invalid(t *testing.T) {
	c, _ := newTestController(t, &fakeClient{})
	ctx := context.Background()

	if _, err := c.SubmitFeedback(ctx, "x", models.FeedbackNone); !apperrors.IsInvalidInput(err) {
		t.Errorf("expected invalid input for empty feedback, got %v", err)
	}
	if _, err := c.SubmitFeedback(ctx, "", models.FeedbackLiked); !apperrors.IsInvalidInput(err) {
		t.Errorf("expected invalid input for empty description, got %v", err)
	}
}

func TestSubmitFeedbackByID(t *testing.T) {
	client := &fakeClient{results: sample()}
	c, _ := newTestController(t, client)
	ctx := context.Background()

	st, err := c.RequestHighlights(ctx, testURL, "")
	if err != nil {
		t.Fatal(err)
	}

	st, err = c.SubmitFeedbackByID(ctx, st.Highlights[2].ID, models.FeedbackDisliked)
	if err != nil {
		t.Fatalf("SubmitFeedbackByID() error = %v", err)
	}
	if st.Highlights[2].Feedback != models.FeedbackDisliked {
		t.Errorf("Feedback = %q", st.Highlights[2].Feedback)
	}

	if _, err := c.SubmitFeedbackByID(ctx, "missing", models.FeedbackLiked); !apperrors.IsNotFound(err) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestState_ReturnsCopy(t *testing.T) {
	c, _ := newTestController(t, &fakeClient{results: sample()})
	if _, err := c.RequestHighlights(context.Background(), testURL, ""); err != nil {
		t.Fatal(err)
	}

	st := c.State()
	st.Highlights[0].Title = "mutated"
	if c.State().Highlights[0].Title == "mutated" {
		t.Error("State() exposes internal slice")
	}
}
