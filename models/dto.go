package models

// HighlightRequest is the body of a highlight search.
type HighlightRequest struct {
	URL   string `json:"url"`
	Query string `json:"query,omitempty"`
}

// FeedbackRequest rates a highlight by ID, or by description when no ID is
// given.
type FeedbackRequest struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description,omitempty"`
	Feedback    string `json:"feedback"`
}

// ShareResponse describes how to link to a single highlight.
type ShareResponse struct {
	URL              string `json:"url"`
	Text             string `json:"text"`
	ClipStartSeconds int    `json:"clip_start_seconds"`
}

type ExportResponse struct {
	Key string `json:"key"`
}
