// Package transform rewrites Cloudinary delivery URLs with URL-based
// transformation directives (w_200, f_webp, ...).
package transform

import (
	"fmt"
	"net/url"
	"strings"
)

// Config holds the transformation settings applied to delivery URLs.
// Width and Height are pixel values; Quality, Format and Crop are passed
// through to Cloudinary's transformation syntax untouched.
type Config struct {
	Enabled bool   `json:"enabled"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Quality string `json:"quality,omitempty"`
	Format  string `json:"format,omitempty"`
	Crop    string `json:"crop,omitempty"`
}

// Tokens returns the transformation tokens for the set fields, in
// Cloudinary's conventional order: width, height, crop, quality, format.
func (c Config) Tokens() []string {
	var tokens []string
	if c.Width > 0 {
		tokens = append(tokens, fmt.Sprintf("w_%d", c.Width))
	}
	if c.Height > 0 {
		tokens = append(tokens, fmt.Sprintf("h_%d", c.Height))
	}
	if c.Crop != "" {
		tokens = append(tokens, "c_"+c.Crop)
	}
	if c.Quality != "" {
		tokens = append(tokens, "q_"+c.Quality)
	}
	if c.Format != "" {
		tokens = append(tokens, "f_"+c.Format)
	}
	return tokens
}

// match is the result of probing a URL for the Cloudinary delivery path
// shape. A URL that does not match is passed through unchanged by Apply.
type match struct {
	parsed      *url.URL
	segments    []string
	uploadIndex int
}

// probe parses rawURL and locates the "upload" path segment. The second
// return value is false when the URL is malformed, hosted elsewhere, or
// does not have the expected path shape.
func probe(rawURL string) (match, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return match{}, false
	}
	if !strings.Contains(parsed.Hostname(), "cloudinary") {
		return match{}, false
	}

	segments := strings.Split(parsed.Path, "/")
	for i, seg := range segments {
		if seg == "upload" {
			return match{parsed: parsed, segments: segments, uploadIndex: i}, true
		}
	}
	return match{}, false
}

// Apply rewrites rawURL with the transformations in cfg and returns the
// result. URLs that are not Cloudinary delivery URLs, and configs that are
// disabled or carry no directives, pass through unchanged. Apply never
// fails; it is meant to be applied once to the original upload URL, not to
// an already transformed one.
func Apply(rawURL string, cfg Config) string {
	if !cfg.Enabled {
		return rawURL
	}

	m, ok := probe(rawURL)
	if !ok {
		return rawURL
	}

	tokens := cfg.Tokens()
	if len(tokens) == 0 {
		return rawURL
	}

	// Splice the transformation segment in right after "upload".
	segments := make([]string, 0, len(m.segments)+1)
	segments = append(segments, m.segments[:m.uploadIndex+1]...)
	segments = append(segments, strings.Join(tokens, ","))
	segments = append(segments, m.segments[m.uploadIndex+1:]...)

	// Delivering in another format means the public ID's extension has to
	// follow suit. "auto" lets Cloudinary negotiate, so the path keeps its
	// original extension.
	if cfg.Format != "" && cfg.Format != "auto" {
		last := segments[len(segments)-1]
		if dot := strings.LastIndex(last, "."); dot != -1 {
			segments[len(segments)-1] = last[:dot] + "." + cfg.Format
		}
	}

	m.parsed.Path = strings.Join(segments, "/")
	return m.parsed.String()
}
