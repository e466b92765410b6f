package validation

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/nijaru/vod-highlights/errors"
)

const (
	MsgURLRequired  = "Please enter a valid Twitch VOD URL."
	MsgURLMalformed = "Invalid Twitch VOD URL format. It should look like: https://www.twitch.tv/videos/123456789"
)

var vodURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?twitch\.tv/videos/\d+$`)

// ValidateVODURL accepts [scheme://][www.]twitch.tv/videos/<digits> and
// nothing else. The input is matched as given, without trimming.
func ValidateVODURL(rawURL string) error {
	const op = "validation.ValidateVODURL"

	if rawURL == "" {
		return errors.InvalidInput(op, nil, MsgURLRequired)
	}

	if !vodURLPattern.MatchString(rawURL) {
		return errors.InvalidInput(op, nil, MsgURLMalformed)
	}

	return nil
}

// VideoID returns the numeric id of a VOD link that already passed
// ValidateVODURL.
func VideoID(vodURL string) string {
	i := strings.LastIndex(vodURL, "/")
	return vodURL[i+1:]
}

// RequestValidationOpts holds options for request validation
type RequestValidationOpts struct {
	MaxContentLength int64
	AllowedMethods   []string
	RequireJSON      bool
}

// ValidateRequest validates HTTP requests
func ValidateRequest(r *http.Request, opts RequestValidationOpts) error {
	const op = "validation.ValidateRequest"

	if len(opts.AllowedMethods) > 0 {
		methodAllowed := false
		for _, method := range opts.AllowedMethods {
			if r.Method == method {
				methodAllowed = true
				break
			}
		}
		if !methodAllowed {
			return errors.E(op, nil, fmt.Sprintf("Method %s not allowed", r.Method), http.StatusMethodNotAllowed)
		}
	}

	if opts.RequireJSON {
		if contentType := r.Header.Get("Content-Type"); !strings.Contains(contentType, "application/json") {
			return errors.InvalidInput(op, nil, "Content-Type must be application/json")
		}
	}

	if opts.MaxContentLength > 0 && r.ContentLength > opts.MaxContentLength {
		return errors.E(op, nil, "Request body too large", http.StatusRequestEntityTooLarge)
	}

	return nil
}
