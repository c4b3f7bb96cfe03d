package validation

import (
	"fmt"
	"strings"
)

// LegacyLink is a link decoded from the old "name|url" packed format that some
// imported codeblocks still use. New records store name and url as separate
// columns; this parser only runs at ingestion.
type LegacyLink struct {
	Name string
	URL  string
}

// ParseLegacyLink splits a "name|url" pair. A value without a separator is
// treated as a bare URL with an empty name.
func ParseLegacyLink(raw string) (LegacyLink, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return LegacyLink{}, fmt.Errorf("empty link")
	}

	name, url, found := strings.Cut(raw, "|")
	if !found {
		return LegacyLink{URL: strings.TrimSpace(name)}, nil
	}

	link := LegacyLink{
		Name: strings.TrimSpace(name),
		URL:  strings.TrimSpace(url),
	}
	if link.URL == "" {
		return LegacyLink{}, fmt.Errorf("link %q has no url", raw)
	}
	return link, nil
}

// ParseLegacyLinks parses a slice of packed links, skipping blanks.
func ParseLegacyLinks(raw []string) ([]LegacyLink, error) {
	out := make([]LegacyLink, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		link, err := ParseLegacyLink(r)
		if err != nil {
			return nil, err
		}
		out = append(out, link)
	}
	return out, nil
}
