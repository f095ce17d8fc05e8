package rdf

import (
	"encoding/json"
	"regexp"
	"strings"
)

// absoluteURLPattern matches http(s) URLs. It backs both key-based detection and
// the remote context guard.
var absoluteURLPattern = regexp.MustCompile(`^https?://`)

// jsonldKeywords are the top-level keys that mark a JSON object as JSON-LD.
var jsonldKeywords = map[string]struct{}{
	"@context":  {},
	"@id":       {},
	"@type":     {},
	"@graph":    {},
	"@value":    {},
	"@list":     {},
	"@set":      {},
	"@reverse":  {},
	"@language": {},
}

// DetectionStrategy decides whether raw text looks like JSON-LD.
type DetectionStrategy interface {
	Detect(content string) bool
}

// DetectionStrategyFunc adapts a function to a DetectionStrategy.
type DetectionStrategyFunc func(content string) bool

// Detect calls the underlying function.
func (f DetectionStrategyFunc) Detect(content string) bool { return f(content) }

// KeywordKeyStrategy is the default detector. It decodes the input once and
// inspects the keys of the top-level object, or of the first element when the
// top level is an array. Only keys count; text inside values never does.
type KeywordKeyStrategy struct{}

// Detect reports whether content is JSON-LD.
func (KeywordKeyStrategy) Detect(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		return false
	}

	var decoded any
	if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
		return false
	}

	var target map[string]any
	switch value := decoded.(type) {
	case []any:
		if len(value) == 0 {
			return false
		}
		first, ok := value[0].(map[string]any)
		if !ok {
			return false
		}
		target = first
	case map[string]any:
		target = value
	default:
		return false
	}
	return hasJSONLDSignals(target)
}

func hasJSONLDSignals(node map[string]any) bool {
	for key := range node {
		if _, ok := jsonldKeywords[key]; ok {
			return true
		}
	}
	for key := range node {
		if absoluteURLPattern.MatchString(key) {
			return true
		}
	}
	return false
}

// SubstringStrategy is the legacy detector: JSON-looking text that mentions a
// quoted @context, @id or @type anywhere. It accepts keyword text inside
// string values, so it is only meant for inputs that relied on that behavior.
type SubstringStrategy struct{}

// Detect reports whether content mentions a JSON-LD keyword.
func (SubstringStrategy) Detect(content string) bool {
	sample := strings.TrimSpace(content)
	if !strings.HasPrefix(sample, "{") && !strings.HasPrefix(sample, "[") {
		return false
	}
	return strings.Contains(sample, `"@context"`) ||
		strings.Contains(sample, `"@id"`) ||
		strings.Contains(sample, `"@type"`)
}

// Detect reports whether content looks like JSON-LD using the default strategy.
func Detect(content string) bool {
	return KeywordKeyStrategy{}.Detect(content)
}
