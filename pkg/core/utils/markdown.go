package utils

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// CleanMarkdown strips outer code-fence wrapping from a model response.
// Handles ```json / ```markdown / bare ``` fences and surrounding whitespace.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)

	if strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "```")
		// Drop a language tag such as "json" or "markdown" on the fence line.
		if idx := strings.IndexByte(cleaned, '\n'); idx >= 0 {
			firstLine := strings.TrimSpace(cleaned[:idx])
			if firstLine != "" && !strings.ContainsAny(firstLine, "{[|") {
				cleaned = cleaned[idx+1:]
			}
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	return cleaned
}

// ValidateMarkdown checks if the string parses as Markdown using Goldmark.
// Goldmark is very permissive, so this is a basic structural sanity check.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	doc := parser.Parse(reader)
	return doc != nil
}
