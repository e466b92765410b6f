package models

import (
	"reflect"
	"testing"
)

func TestParseFeedback(t *testing.T) {
	tests := []struct {
		in      string
		want    Feedback
		wantErr bool
	}{
		{"liked", FeedbackLiked, false},
		{" Disliked ", FeedbackDisliked, false},
		{"", FeedbackNone, true},
		{"meh", FeedbackNone, true},
	}

	for _, tt := range tests {
		got, err := ParseFeedback(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFeedback(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFeedback(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPreferencesRecord_MutualExclusion(t *testing.T) {
	p := Preferences{}
	steps := []struct {
		f        Feedback
		liked    []string
		disliked []string
	}{
		{FeedbackLiked, []string{"a"}, []string{}},
		{FeedbackDisliked, []string{}, []string{"a"}},
		{FeedbackDisliked, []string{}, []string{"a"}},
		{FeedbackNone, []string{}, []string{}},
	}

	for i, s := range steps {
		p = p.Record("a", s.f)
		if !reflect.DeepEqual(p.Liked, s.liked) || !reflect.DeepEqual(p.Disliked, s.disliked) {
			t.Fatalf("step %d: got liked=%v disliked=%v, want liked=%v disliked=%v",
				i, p.Liked, p.Disliked, s.liked, s.disliked)
		}
	}
}

func TestPreferencesAnnotate(t *testing.T) {
	p := Preferences{Liked: []string{"1v3 ace"}, Disliked: []string{"afk"}}
	in := []Highlight{
		{Timestamp: "00:01:02", Title: "Clutch", Description: "1v3 ace"},
		{Timestamp: "00:05:00", Title: "Break", Description: "afk"},
		{Timestamp: "00:09:00", Title: "Other", Description: "something"},
	}

	out := p.Annotate(in)

	want := []Feedback{FeedbackLiked, FeedbackDisliked, FeedbackNone}
	for i, h := range out {
		if h.Feedback != want[i] {
			t.Errorf("highlight %d feedback = %q, want %q", i, h.Feedback, want[i])
		}
	}
	if in[0].Feedback != FeedbackNone {
		t.Error("Annotate must not modify its input")
	}
}

func TestPreferencesClone(t *testing.T) {
	p := Preferences{Liked: []string{"a"}}
	c := p.Clone()
	c.Liked[0] = "b"
	if p.Liked[0] != "a" {
		t.Error("Clone shares backing array with original")
	}
}
