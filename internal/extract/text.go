// Package extract prepares raw candidate documents for scoring: text
// normalization and tokenization consumed by the lexical and semantic
// indices, plus lightweight metadata extraction (skills, experience
// years) that rides along with each candidate into the final results.
//
// Format-specific extraction (OCR, PDF, DOCX) is an external
// collaborator; this package only defines the boundary and treats an
// empty extraction result as "drop this candidate".
package extract

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9\s]`)

// CleanText lowercases, strips non-alphanumeric characters and collapses
// whitespace. Both indices are built from cleaned text so that query and
// corpus tokenization agree.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = nonAlnum.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// Tokenize splits cleaned text on whitespace. Returns nil for text that
// cleans down to nothing.
func Tokenize(text string) []string {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil
	}
	return strings.Fields(cleaned)
}

// Extractor converts a raw file payload with a declared media type into
// plain text. Implementations return an empty string on failure; callers
// drop such candidates rather than treating the empty result as an error.
type Extractor interface {
	ExtractText(payload []byte, mediaType string) string
}

// PlainText is the in-process Extractor: it accepts text payloads as-is
// and declines binary formats. OCR and document parsing live behind a
// remote collaborator, not here.
type PlainText struct{}

// ExtractText returns the payload verbatim for text media types and an
// empty string for anything it cannot decode.
func (PlainText) ExtractText(payload []byte, mediaType string) string {
	switch {
	case mediaType == "" || strings.HasPrefix(mediaType, "text/"):
		return strings.TrimSpace(string(payload))
	default:
		return ""
	}
}
