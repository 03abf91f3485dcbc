package klemy

import (
	"regexp"
	"strings"
)

var (
	fs3Pattern = regexp.MustCompile(`(?is)<p[^>]*class="fs-3"[^>]*>(.*?)</p>`)
	tagPattern = regexp.MustCompile(`(?s)<.*?>`)
)

// ExtractTranslation pulls the text inside <p class="fs-3">...</p> out
// of the HTML response, strips nested tags and normalizes whitespace.
// The second return is false when the paragraph is missing or empty.
func ExtractTranslation(html string) (string, bool) {
	match := fs3Pattern.FindStringSubmatch(html)
	if match == nil {
		return "", false
	}
	inner := tagPattern.ReplaceAllString(match[1], "")
	cleaned := strings.Join(strings.Fields(inner), " ")
	if cleaned == "" {
		return "", false
	}
	return cleaned, true
}
