package glossa

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FallbackText is printed by callers when a response has no translation field.
const FallbackText = "Translation not found in JSON response."

// ExtractTranslation returns the string at field in a JSON backend response.
// Fenced code blocks and text around the JSON object are tolerated.
func ExtractTranslation(content, field string) (string, error) {
	if field == "" {
		field = DefaultResponseField
	}

	s := unfence(strings.TrimSpace(content))
	if s == "" {
		return "", &ResponseError{Message: "empty response", Reason: ReasonEmptyResponse}
	}

	if !gjson.Valid(s) {
		i, j := strings.Index(s, "{"), strings.LastIndex(s, "}")
		if i < 0 || j <= i || !gjson.Valid(s[i:j+1]) {
			return "", &ResponseError{
				Message: "response is not valid JSON",
				Reason:  ReasonMalformedResponse,
				Content: abbreviate(s, 200),
			}
		}
		s = s[i : j+1]
	}

	root := gjson.Parse(s)
	if !root.IsObject() {
		return "", &ResponseError{
			Message: "response is not a JSON object",
			Reason:  ReasonMalformedResponse,
			Content: abbreviate(s, 200),
		}
	}

	value := root.Get(gjson.Escape(field))
	if !value.Exists() {
		return "", &ResponseError{
			Message: `no "` + field + `" field in response`,
			Reason:  ReasonMissingField,
			Content: abbreviate(s, 200),
		}
	}
	return value.String(), nil
}

// unfence strips a surrounding ``` or ```json block.
func unfence(s string) string {
	idx := strings.Index(s, "```")
	if idx < 0 {
		return s
	}
	rest := strings.TrimPrefix(s[idx+3:], "json")
	if j := strings.Index(rest, "```"); j >= 0 {
		return strings.TrimSpace(rest[:j])
	}
	return strings.TrimSpace(rest)
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
