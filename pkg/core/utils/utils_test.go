package utils

import "testing"

func TestSmartParseStrictJSON(t *testing.T) {
	var out map[string]interface{}
	parsed, err := SmartParse(`{"retain_page": true, "type": "A"}`, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != `{"retain_page": true, "type": "A"}` {
		t.Errorf("strict input should be returned verbatim, got %q", parsed)
	}
	if out["type"] != "A" {
		t.Errorf("unexpected binding: %+v", out)
	}
}

func TestSmartParseRepairsMalformed(t *testing.T) {
	// Trailing comma and single quotes: invalid JSON, repairable.
	var out map[string]interface{}
	if _, err := SmartParse(`{'retain_page': true, 'reason': 'income statement',}`, &out); err != nil {
		t.Fatalf("expected repair to succeed: %v", err)
	}
	if out["reason"] != "income statement" {
		t.Errorf("unexpected binding after repair: %+v", out)
	}
}

func TestSmartParseHjsonFallback(t *testing.T) {
	// Unquoted keys with comments is valid Hjson.
	input := "{\n  retain_page: true // keep\n  type: B\n}"
	var out map[string]interface{}
	if _, err := SmartParse(input, &out); err != nil {
		t.Fatalf("expected hjson fallback to succeed: %v", err)
	}
	if out["retain_page"] != true {
		t.Errorf("unexpected binding from hjson: %+v", out)
	}
}

func TestSmartParseFailure(t *testing.T) {
	var out map[string]interface{}
	if _, err := SmartParse("not even close to structured data", &out); err == nil {
		t.Error("expected SMART_PARSE_FAILED for garbage input")
	}
}

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"markdown fence", "```markdown\n# Title\n```", "# Title"},
		{"bare fence", "```\nplain\n```", "plain"},
		{"fence with leading brace kept", "```{\"a\": 1}```", `{"a": 1}`},
		{"no fence passthrough", "  {\"a\": 1}  ", `{"a": 1}`},
		{"table row after bare fence", "```\n| a | b |\n```", "| a | b |"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanMarkdown(tt.input); got != tt.expected {
				t.Errorf("CleanMarkdown(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateMarkdown(t *testing.T) {
	if !ValidateMarkdown("# Heading\n\n| a | b |\n|---|---|\n| 1 | 2 |\n") {
		t.Error("well-formed markdown rejected")
	}
	if !ValidateMarkdown("") {
		t.Error("empty document should still parse")
	}
}
