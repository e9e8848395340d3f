package session

import (
	"net/url"
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Key derives the server address key from a display name: lower-cased, with
// every run of non-alphanumeric characters collapsed to '_'.
func Key(displayName string) string {
	k := nonAlnum.ReplaceAllString(strings.ToLower(displayName), "_")
	if k == "" {
		return "_"
	}
	return k
}

// URL builds {wsBase}/ws/{sessionKey}.
func URL(wsBase, displayName string) string {
	return strings.TrimRight(wsBase, "/") + "/ws/" + url.PathEscape(Key(displayName))
}
