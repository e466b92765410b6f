// Package prompt composes the instruction sent to the completion service
// for one highlight search.
package prompt

import (
	"strings"

	"github.com/nijaru/vod-highlights/models"
)

const (
	baseInstruction = "Analyze the following Twitch VOD and identify 8 to 10 key highlights.\n" +
		"The VOD is a long gameplay session."

	defaultFocus = "Look for moments of high skill, funny interactions, major game events, or intense team fights."

	likedIntro    = "The user has previously LIKED highlights like these. Try to find more moments with a similar vibe:"
	dislikedIntro = "The user has previously DISLIKED highlights like these. Try to AVOID moments with a similar vibe:"

	closingInstruction = "For each highlight, provide a precise timestamp, a catchy title, and a short description."
)

// Field is one required string property of a highlight object.
type Field struct {
	Name        string
	Description string
}

// Schema constrains the response to an ordered array of objects carrying
// exactly Fields, all required strings.
type Schema struct {
	Fields []Field
}

func (s Schema) Names() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

var HighlightSchema = Schema{
	Fields: []Field{
		{Name: "timestamp", Description: "The exact timestamp of the highlight in HH:MM:SS format."},
		{Name: "title", Description: "A short, catchy title for the highlight (3-6 words)."},
		{Name: "description", Description: "A brief, one-sentence summary of what happened during the highlight."},
	},
}

type Request struct {
	Text   string
	Schema Schema
}

// Build is a pure function of params. URL validation is the caller's job.
func Build(params models.RequestParams) Request {
	var b strings.Builder

	b.WriteString(baseInstruction)
	b.WriteString("\n\n")
	b.WriteString(focus(params.Query))
	b.WriteString("\n")

	writeExamples(&b, likedIntro, params.LikedExamples)
	writeExamples(&b, dislikedIntro, params.DislikedExamples)

	b.WriteString("\nVOD URL: ")
	b.WriteString(params.URL)
	b.WriteString("\n\n")
	b.WriteString(closingInstruction)

	return Request{
		Text:   b.String(),
		Schema: HighlightSchema,
	}
}

func focus(query string) string {
	if strings.TrimSpace(query) == "" {
		return defaultFocus
	}
	return `Focus specifically on moments that can be described as: "` + query + `".`
}

func writeExamples(b *strings.Builder, intro string, examples []string) {
	if len(examples) == 0 {
		return
	}
	b.WriteString("\n")
	b.WriteString(intro)
	for _, e := range examples {
		b.WriteString("\n- ")
		b.WriteString(e)
	}
	b.WriteString("\n")
}
