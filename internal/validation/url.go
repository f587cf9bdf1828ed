package validation

import (
	"regexp"
	"strings"
)

const helpPath = "profile/personal_access_tokens"

// The last character may not be one of !:,.;? so that a URL copied with
// trailing punctuation is rejected.
var urlPattern = regexp.MustCompile(`^https?://[-a-zA-Z0-9+&@#/%?=~_|!:,.;]*[-a-zA-Z0-9+&@#/%=~_|]$`)

// IsValidURL reports whether s is an http or https URL made only of the
// accepted character set. It never touches the network.
func IsValidURL(s string) bool {
	return urlPattern.MatchString(s)
}

// HelpURL returns the page where a personal access token for host can be
// created.
func HelpURL(host string) string {
	var b strings.Builder
	b.WriteString(host)
	if !strings.HasSuffix(host, "/") {
		b.WriteString("/")
	}
	b.WriteString(helpPath)
	return b.String()
}
