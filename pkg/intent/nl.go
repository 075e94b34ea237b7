package intent

import (
	"regexp"
	"strings"
)

// The natural-language parser is deliberately rule-based and deterministic:
// the same query always yields the same intent and confidence. Rule order
// matters — the write rule runs before the read rule because
// "create ... with content" is the more specific phrasing.

var (
	namedFilePattern = regexp.MustCompile(`file (?:called|named) ([\w./-]+)`)
	extensionPattern = regexp.MustCompile(`[\w./-]*\w+\.\w+`)
	quotedPattern    = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)
	contentPattern   = regexp.MustCompile(`(?:with|containing|content)\s+"([^"]*)"`)
	rmWordPattern    = regexp.MustCompile(`\brm\b`)
)

// ParseQuery maps a free-text query onto one structured intent with a
// confidence in [0,1]. Queries that match no rule fall back to a low
// confidence read.
func ParseQuery(query string) (Intent, float64) {
	q := strings.ToLower(strings.TrimSpace(query))
	target, content := extractTarget(q)

	switch {
	case containsAny(q, "write", "create", "save"):
		return ContentUpdateIntent{
			Purpose: UpdateCreate,
			Target:  target,
			Content: content,
			Options: Options{CreatePath: true},
		}, 0.7

	case containsAny(q, "read", "show") || (strings.Contains(q, "content") && !strings.Contains(q, "with")):
		return FileAccessIntent{Purpose: AccessRead, Target: target}, 0.8

	case containsAny(q, "find", "search", "look for"):
		return DiscoverIntent{
			Purpose: DiscoverSearchSemantic,
			Target:  FileTarget{SemanticQuery: stripVerbs(q, "find", "search", "look for")},
		}, 0.75

	case containsAny(q, "delete", "remove") || rmWordPattern.MatchString(q):
		return RemoveIntent{Purpose: RemoveDeleteFile, Target: target}, 0.9
	}

	return FileAccessIntent{Purpose: AccessRead, Target: target}, 0.3
}

// extractTarget pulls a file target and optional content payload out of a
// lowercased query. Target resolution order: "file called/named X", then a
// token with an extension, then a quoted filename; otherwise the whole
// query becomes a semantic query. Content is a keyword-marked quoted
// string, or failing that any quoted string that is not the filename.
func extractTarget(q string) (FileTarget, string) {
	marked := ""
	if m := contentPattern.FindStringSubmatch(q); m != nil {
		marked = m[1]
	}

	path := ""
	if m := namedFilePattern.FindStringSubmatch(q); m != nil {
		path = m[1]
	} else if m := extensionPattern.FindString(q); m != "" {
		path = m
	} else {
		path = firstQuoted(q, marked)
	}

	content := marked
	if content == "" {
		content = firstQuoted(q, path)
	}

	if path == "" {
		return FileTarget{SemanticQuery: q}, content
	}
	return FileTarget{Path: path}, content
}

// firstQuoted returns the first quoted string in q that differs from skip.
func firstQuoted(q, skip string) string {
	for _, m := range quotedPattern.FindAllStringSubmatch(q, -1) {
		quoted := m[1]
		if quoted == "" {
			quoted = m[2]
		}
		if quoted != "" && quoted != skip {
			return quoted
		}
	}
	return ""
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func stripVerbs(q string, verbs ...string) string {
	out := q
	for _, v := range verbs {
		out = strings.ReplaceAll(out, v, "")
	}
	return strings.Join(strings.Fields(out), " ")
}
