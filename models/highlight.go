package models

import (
	"fmt"
	"strings"
)

type Feedback string

const (
	FeedbackNone     Feedback = ""
	FeedbackLiked    Feedback = "liked"
	FeedbackDisliked Feedback = "disliked"
)

// ParseFeedback accepts only the two rating values; clearing is done by
// repeating the current rating.
func ParseFeedback(s string) (Feedback, error) {
	switch Feedback(strings.ToLower(strings.TrimSpace(s))) {
	case FeedbackLiked:
		return FeedbackLiked, nil
	case FeedbackDisliked:
		return FeedbackDisliked, nil
	default:
		return FeedbackNone, fmt.Errorf("unknown feedback %q", s)
	}
}

// Highlight is one moment returned by the completion service. Description
// doubles as the key that links ratings across requests.
type Highlight struct {
	ID          string   `json:"id"`
	Timestamp   string   `json:"timestamp"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Feedback    Feedback `json:"feedback,omitempty"`
}

// RequestParams carries everything the prompt builder needs for one request.
type RequestParams struct {
	URL              string
	Query            string
	LikedExamples    []string
	DislikedExamples []string
}
