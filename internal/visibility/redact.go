package visibility

import (
	"regexp"

	"jokerclub/internal/models"
)

// View is a codeblock as a particular viewer is allowed to see it.
// Images holds the embedded image references extracted from the content;
// a redacted view always carries an empty list.
type View struct {
	Codeblock models.Codeblock `json:"codeblock"`
	Tier      Tier             `json:"tier"`
	Redacted  bool             `json:"redacted"`
	Images    []string         `json:"images"`
	HasImages bool             `json:"has_images"`
	Visible   bool             `json:"-"`
}

const (
	descriptionPreviewLen = 30
	contentPreviewLen     = 50
	imagePlaceholder      = "[image]"
)

var markdownImageRegex = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

// ExtractImages returns the embedded markdown image references in the order
// they appear in the content.
func ExtractImages(s string) []string {
	matches := markdownImageRegex.FindAllStringSubmatch(s, -1)
	images := make([]string, 0, len(matches))
	for _, m := range matches {
		images = append(images, m[1])
	}
	return images
}

// Redact returns a preview copy of a paid codeblock: truncated description,
// image-stripped truncated content, and no links. The input is not modified.
func Redact(cb *models.Codeblock) models.Codeblock {
	out := *cb
	out.Description = FilterDescription(cb.Description)
	out.Content = FilterContent(cb.Content)
	out.Links = nil
	return out
}

// FilterDescription truncates a description for preview display.
func FilterDescription(s string) string {
	return truncate(s, descriptionPreviewLen)
}

// FilterContent strips embedded markdown images, then truncates. Image data
// is removed before truncation so a long data URI cannot dominate the
// preview window.
func FilterContent(s string) string {
	s = markdownImageRegex.ReplaceAllString(s, imagePlaceholder)
	return truncate(s, contentPreviewLen)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
