package highlights

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/prompt"
	"github.com/pkg/errors"
)

var timestampPattern = regexp.MustCompile(`^\d{2,}:[0-5]\d:[0-5]\d$`)

// ParseHighlights decodes a completion body against prompt.HighlightSchema.
// Anything other than an array of objects with exactly the schema's string
// fields is rejected; nothing is salvaged from a partly valid body.
func ParseHighlights(data []byte) ([]models.Highlight, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, errors.Wrap(ErrUnavailable, "empty response body")
	}
	if bytes.Equal(data, []byte("null")) {
		return nil, errors.Wrap(ErrUnavailable, "null response body")
	}

	var items []map[string]json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "malformed response: %v", err)
	}

	fields := prompt.HighlightSchema.Names()
	out := make([]models.Highlight, 0, len(items))

	for i, item := range items {
		if item == nil {
			return nil, errors.Wrapf(ErrUnavailable, "item %d is not an object", i)
		}
		if len(item) != len(fields) {
			return nil, errors.Wrapf(ErrUnavailable, "item %d has %d fields, want %d", i, len(item), len(fields))
		}

		values := make(map[string]string, len(fields))
		for _, name := range fields {
			v, err := stringField(item, name)
			if err != nil {
				return nil, errors.Wrapf(ErrUnavailable, "item %d: %v", i, err)
			}
			values[name] = v
		}

		h := models.Highlight{
			Timestamp:   values["timestamp"],
			Title:       values["title"],
			Description: values["description"],
		}
		if err := check(h); err != nil {
			return nil, errors.Wrapf(ErrUnavailable, "item %d: %v", i, err)
		}
		out = append(out, h)
	}

	return out, nil
}

func stringField(item map[string]json.RawMessage, name string) (string, error) {
	raw, ok := item[name]
	if !ok {
		return "", errors.Errorf("missing field %q", name)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", errors.Errorf("field %q is not a string", name)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errors.Wrapf(err, "field %q", name)
	}
	return s, nil
}

func check(h models.Highlight) error {
	if !timestampPattern.MatchString(h.Timestamp) {
		return errors.Errorf("timestamp %q is not HH:MM:SS", h.Timestamp)
	}
	if strings.TrimSpace(h.Title) == "" {
		return errors.New("empty title")
	}
	if strings.TrimSpace(h.Description) == "" {
		return errors.New("empty description")
	}
	return nil
}
