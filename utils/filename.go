package utils

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeGroupKey turns a group key into a file-name-safe slug.
// Example: "Tienda Miraflores #2" -> "tienda_miraflores_2"
func SanitizeGroupKey(groupKey string) string {
	decomposed := norm.NFD.String(strings.ToLower(strings.TrimSpace(groupKey)))

	var b strings.Builder
	for _, r := range decomposed {
		// drop combining accents left over from NFD (á -> a)
		if r >= 0x300 && r <= 0x36f {
			continue
		}
		b.WriteRune(r)
	}

	slug := unsafeFileChars.ReplaceAllString(b.String(), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		return "grupo"
	}
	return slug
}

// Slugs hands out one file slug per group key. Distinct keys that sanitize to
// the same slug ("Store A", "store-a") get "-2", "-3", ... in order of arrival.
// Sanitized slugs never contain "-", so a suffixed slug cannot clash with one.
type Slugs struct {
	byKey map[string]string
	taken map[string]bool
}

func NewSlugs() *Slugs {
	return &Slugs{byKey: make(map[string]string), taken: make(map[string]bool)}
}

// For returns the slug of groupKey, assigning it on first use
func (s *Slugs) For(groupKey string) string {
	if slug, ok := s.byKey[groupKey]; ok {
		return slug
	}

	base := SanitizeGroupKey(groupKey)
	slug := base
	for n := 2; s.taken[slug]; n++ {
		slug = fmt.Sprintf("%s-%d", base, n)
	}
	s.byKey[groupKey] = slug
	s.taken[slug] = true
	return slug
}

// PageFileName builds "<slug>_<sequence>.<ext>"
func PageFileName(slug string, sequence int, ext string) string {
	return fmt.Sprintf("%s_%d.%s", slug, sequence, strings.TrimPrefix(ext, "."))
}

// DocumentFileName builds "<prefix>_<slug>.<ext>"
func DocumentFileName(prefix, slug, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, slug, strings.TrimPrefix(ext, "."))
}

// PublicURL joins the configured base URL and a generated file name
func PublicURL(baseURL, fileName string) string {
	return baseURL + fileName
}
