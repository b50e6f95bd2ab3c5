package llm

import "strings"

// ExtractJSONPayload strips a markdown code fence from around a model
// response, if present, and returns the inner text. Models sometimes
// wrap the requested JSON object in ```json ... ``` despite being told
// not to; the cleaned text is returned as-is for the caller to parse,
// so a non-JSON response still fails with a structured parse error
// rather than being sliced blindly.
func ExtractJSONPayload(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line, which may carry a language tag
	// ("```json").
	if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
		cleaned = cleaned[idx+1:]
	} else {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}

	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}
