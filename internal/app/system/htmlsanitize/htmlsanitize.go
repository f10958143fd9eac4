// Package htmlsanitize cleans user-authored HTML before it is stored.
// Notification bodies accept a limited set of formatting tags; script,
// event handlers, and javascript: URLs are stripped.
package htmlsanitize

import (
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize returns s with unsafe HTML removed. Plain text passes
// through unchanged.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return policy.Sanitize(s)
}
