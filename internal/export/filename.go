package export

import (
	"regexp"
	"strings"
)

const maxFilenameLen = 60

var (
	unsafeChars = regexp.MustCompile(`[^\w\s-]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// SafeFilename reduces name to word characters, dashes and spaces, turns
// whitespace runs into single dashes and caps the result at 60 characters.
// An empty result yields fallback.
func SafeFilename(name, fallback string) string {
	cleaned := unsafeChars.ReplaceAllString(strings.TrimSpace(name), "")
	cleaned = spaceRuns.ReplaceAllString(cleaned, "-")
	if len(cleaned) > maxFilenameLen {
		cleaned = cleaned[:maxFilenameLen]
	}
	if cleaned == "" {
		return fallback
	}
	return cleaned
}

// Filename is the download name for an export of kind: "<event>-<kind>.<ext>".
func Filename(eventName, kind, ext string) string {
	return SafeFilename(eventName, kind) + "-" + kind + "." + ext
}
