// File path: internal/analysis/jsonextract.go
package analysis

import (
	"errors"
	"strings"
)

// ErrNoJSONObject reports that a completion reply contained no complete JSON
// object.
var ErrNoJSONObject = errors.New("no JSON object found in reply")

// ExtractJSONObject pulls the first complete, balanced JSON object out of an
// unstructured completion reply. Code-fence markers and surrounding prose are
// tolerated. The scan is string-aware, so braces inside string values do not
// truncate the span.
func ExtractJSONObject(text string) (string, error) {
	cleaned := stripFences(text)
	start := strings.IndexByte(cleaned, '{')
	if start < 0 {
		return "", ErrNoJSONObject
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		c := cleaned[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1], nil
			}
		}
	}
	return "", ErrNoJSONObject
}

// stripFences removes markdown code-fence lines so a fenced reply parses the
// same as a bare one.
func stripFences(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
