package utils

import "github.com/microcosm-cc/bluemonday"

// Learner-facing free text (chat messages, profile fields) never carries
// markup, so strip everything rather than allowing a UGC subset.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user supplied text before it is persisted.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
