package llm

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject parses a single JSON object out of untrusted model
// output. It tries, in order: a direct parse of the trimmed text, a parse
// after stripping markdown code fences, and a parse of the first complete
// brace-matched {...} block. ok is false when no object can be recovered.
func ExtractJSONObject(text string) (map[string]any, bool) {
	raw := strings.TrimSpace(text)
	cleaned := stripFences(raw)

	for _, candidate := range []string{cleaned, firstJSONBlock(cleaned), firstJSONBlock(raw)} {
		if candidate == "" {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(candidate), &obj); err == nil {
			return obj, true
		}
	}
	return nil, false
}

// stripFences removes markdown code fences (``` or ```json) and a stray
// leading "json" language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimLeft(s, "`")
		if strings.HasPrefix(strings.ToLower(s), "json") {
			s = strings.TrimSpace(s[4:])
		}
		s = strings.TrimRight(s, "`")
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(strings.ToLower(s), "json\n") {
		s = strings.TrimSpace(s[5:])
	}
	return s
}

// firstJSONBlock returns the first brace-matched {...} block in s, or ""
func firstJSONBlock(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
