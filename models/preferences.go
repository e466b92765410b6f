package models

// Preferences holds the liked and disliked highlight descriptions. A
// description is in at most one of the two lists.
type Preferences struct {
	Liked    []string `json:"liked"`
	Disliked []string `json:"disliked"`
}

func (p Preferences) Status(description string) Feedback {
	switch {
	case contains(p.Liked, description):
		return FeedbackLiked
	case contains(p.Disliked, description):
		return FeedbackDisliked
	default:
		return FeedbackNone
	}
}

// Record moves description into the list for f. FeedbackNone removes it
// from both lists.
func (p Preferences) Record(description string, f Feedback) Preferences {
	next := Preferences{
		Liked:    without(p.Liked, description),
		Disliked: without(p.Disliked, description),
	}
	switch f {
	case FeedbackLiked:
		next.Liked = append(next.Liked, description)
	case FeedbackDisliked:
		next.Disliked = append(next.Disliked, description)
	}
	return next
}

func (p Preferences) Clone() Preferences {
	return Preferences{
		Liked:    append([]string{}, p.Liked...),
		Disliked: append([]string{}, p.Disliked...),
	}
}

// Annotate returns a copy of highlights with Feedback set from p.
func (p Preferences) Annotate(highlights []Highlight) []Highlight {
	out := make([]Highlight, len(highlights))
	for i, h := range highlights {
		h.Feedback = p.Status(h.Description)
		out[i] = h
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func without(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}
