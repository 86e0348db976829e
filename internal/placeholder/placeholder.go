// Package placeholder shields spans of form text that must survive an LLM
// translation byte for byte: links, email addresses, inline markup and code
// spans. They are swapped for numbered markers ([PH0], [PH1], ...) before the
// prompt is sent and swapped back afterwards.
package placeholder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Hint is appended to the system prompt whenever markers are present.
const Hint = "Keep every [PHn] marker exactly as written; do not translate, move or remove it."

var (
	reURL = regexp.MustCompile(`https?://[^\s<>"]*[^\s<>".,;:!?)\]]`)

	reEmail = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

	reHTMLTag = regexp.MustCompile(`<[^>]+>`)

	reInlineCode = regexp.MustCompile("`[^`]+`")

	reMarker = regexp.MustCompile(`\[PH(\d+)\]`)
)

// Protected is text with its shielded spans replaced by markers.
type Protected struct {
	Text    string
	markers []string
}

// Protect replaces links first, then emails, tags and code spans, so a link
// containing '@' is captured whole.
func Protect(text string) Protected {
	p := Protected{}

	replace := func(match string) string {
		id := fmt.Sprintf("[PH%d]", len(p.markers))
		p.markers = append(p.markers, match)
		return id
	}

	text = reURL.ReplaceAllStringFunc(text, replace)
	text = reEmail.ReplaceAllStringFunc(text, replace)
	text = reHTMLTag.ReplaceAllStringFunc(text, replace)
	text = reInlineCode.ReplaceAllStringFunc(text, replace)

	p.Text = text
	return p
}

// Empty reports whether nothing was shielded.
func (p Protected) Empty() bool {
	return len(p.markers) == 0
}

// Restore puts the original spans back into translated. Unknown marker
// indices are left as they are.
func (p Protected) Restore(translated string) string {
	return reMarker.ReplaceAllStringFunc(translated, func(match string) string {
		idx, err := strconv.Atoi(reMarker.FindStringSubmatch(match)[1])
		if err != nil || idx >= len(p.markers) {
			return match
		}
		return p.markers[idx]
	})
}

// Missing returns the indices of markers the model dropped.
func (p Protected) Missing(translated string) []int {
	var missing []int
	for i := range p.markers {
		if !strings.Contains(translated, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}
