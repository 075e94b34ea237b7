package index

import (
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	// MaxKeywords is the per-entry cap on extracted keywords.
	MaxKeywords = 15

	// SignatureKeywords is how many top keywords feed the semantic signature.
	SignatureKeywords = 5

	// PreviewMaxChars caps the stored preview length.
	PreviewMaxChars = 300

	// PreviewLines is how many content lines feed the preview.
	PreviewLines = 3

	// MinTokenLength: tokens this short or shorter are dropped.
	MinTokenLength = 3

	// MaxIndexableSize: files larger than this are skipped entirely.
	MaxIndexableSize = 50 << 20
)

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "or": {}, "but": {}, "in": {}, "on": {}, "at": {},
	"to": {}, "for": {}, "of": {}, "with": {}, "by": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"have": {}, "has": {}, "had": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "not": {}, "from": {}, "into": {}, "through": {},
	"during": {}, "before": {}, "after": {}, "above": {}, "below": {},
	"between": {}, "among": {},
}

var tokenPattern = regexp.MustCompile(`[a-z0-9_]+`)

// binaryExtensions are extensions whose content is never read for indexing;
// such files carry metadata only.
var binaryExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".pdf": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".exe": {}, ".bin": {},
}

// IsBinaryPath reports whether content indexing is skipped for this path.
func IsBinaryPath(rel string) bool {
	_, ok := binaryExtensions[strings.ToLower(path.Ext(rel))]
	return ok
}

var mimeTypes = map[string]string{
	".md":   "text/markdown",
	".txt":  "text/plain",
	".json": "application/json",
	".yaml": "application/yaml",
	".yml":  "application/yaml",
	".js":   "application/javascript",
	".ts":   "application/typescript",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".html": "text/html",
	".css":  "text/css",
	".csv":  "text/csv",
	".xml":  "application/xml",
	".sh":   "application/x-sh",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".zip":  "application/zip",
	".tar":  "application/x-tar",
	".gz":   "application/gzip",
	".exe":  "application/octet-stream",
	".bin":  "application/octet-stream",
}

// MimeTypeFor derives a mime type from the path's extension.
func MimeTypeFor(rel string) string {
	if mt, ok := mimeTypes[strings.ToLower(path.Ext(rel))]; ok {
		return mt
	}
	return "text/plain"
}

// ContentHash computes the folded 32-bit digest of content, rendered in
// base 36. Equal digests imply equal content only within this weak hash;
// collisions cost a missed skip-unchanged optimization, never correctness.
func ContentHash(content string) string {
	var h uint32
	for i := 0; i < len(content); i++ {
		h = (h * 33) ^ uint32(content[i])
	}
	return strconv.FormatUint(uint64(h), 36)
}

// ExtractKeywords tokenizes content to lowercase word characters, drops
// short tokens and stop words, and returns up to MaxKeywords tokens ranked
// by frequency. Ties break lexicographically so re-indexing identical
// content yields identical keyword lists.
func ExtractKeywords(content string) []string {
	counts := make(map[string]int)
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(content), -1) {
		if len(tok) <= MinTokenLength {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		counts[tok]++
	}
	if len(counts) == 0 {
		return nil
	}

	tokens := make([]string, 0, len(counts))
	for tok := range counts {
		tokens = append(tokens, tok)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})
	if len(tokens) > MaxKeywords {
		tokens = tokens[:MaxKeywords]
	}
	return tokens
}

// BuildPreview draws the first PreviewLines non-empty lines longer than ten
// characters, joined by newline and truncated to PreviewMaxChars.
func BuildPreview(content string) string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 10 {
			lines = append(lines, trimmed)
			if len(lines) == PreviewLines {
				break
			}
		}
	}
	preview := strings.Join(lines, "\n")
	if len(preview) > PreviewMaxChars {
		preview = preview[:PreviewMaxChars]
	}
	return preview
}

// Signature builds the semantic signature: the first SignatureKeywords
// keywords, sorted and joined by "|". Used for cheap clustering.
func Signature(keywords []string) string {
	n := len(keywords)
	if n > SignatureKeywords {
		n = SignatureKeywords
	}
	top := make([]string, n)
	copy(top, keywords[:n])
	sort.Strings(top)
	return strings.Join(top, "|")
}
