package llm

import "testing"

func TestExtractJSONPayload(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare JSON passes through",
			input:    `{"corrected_text": "Yo soy feliz"}`,
			expected: `{"corrected_text": "Yo soy feliz"}`,
		},
		{
			name:     "json fence with language tag",
			input:    "```json\n{\"reply\": \"Hola\"}\n```",
			expected: `{"reply": "Hola"}`,
		},
		{
			name:     "plain fence",
			input:    "```\n{\"reply\": \"Hola\"}\n```",
			expected: `{"reply": "Hola"}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "\n  {\"reply\": \"Hola\"}  \n",
			expected: `{"reply": "Hola"}`,
		},
		{
			name:     "single line fence",
			input:    "```{\"reply\": \"Hola\"}```",
			expected: `{"reply": "Hola"}`,
		},
		{
			name:     "non-JSON stays intact for the parser to reject",
			input:    "Sure! Here is the corrected sentence.",
			expected: "Sure! Here is the corrected sentence.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractJSONPayload(tt.input); got != tt.expected {
				t.Errorf("ExtractJSONPayload(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
