package index

import "strings"

// Chunks splits content into windows of at most maxSize bytes with the
// given overlap between consecutive windows. A window ends at its last line
// break when that break lies in the window's second half.
func Chunks(content string, maxSize, overlap int) []string {
	if maxSize <= 0 || content == "" {
		return nil
	}
	if overlap >= maxSize {
		overlap = maxSize / 2
	}

	var out []string
	for start := 0; start < len(content); {
		end := start + maxSize
		if end >= len(content) {
			out = append(out, content[start:])
			break
		}
		// Prefer ending a chunk at a line break inside its second half.
		if nl := strings.LastIndexByte(content[start:end], '\n'); nl > maxSize/2 {
			end = start + nl
		}
		out = append(out, content[start:end])
		start = end - overlap
		if start < 0 {
			start = 0
		}
	}
	return out
}

// SnippetAround returns the chunk containing the first occurrence of
// needle, or the leading chunk when the needle is absent.
func SnippetAround(content, needle string, maxSize, overlap int) string {
	chunks := Chunks(content, maxSize, overlap)
	if len(chunks) == 0 {
		return ""
	}
	n := strings.ToLower(needle)
	if n != "" {
		for _, ch := range chunks {
			if strings.Contains(strings.ToLower(ch), n) {
				return strings.TrimSpace(ch)
			}
		}
	}
	return strings.TrimSpace(chunks[0])
}
