package prompt

// Convenience functions for common prompt operations

// GetClassificationPrompt returns the page-filter prompt for the given mode.
// The comprehensive mode widens the income-statement header list to include
// comprehensive-income titles for filings that split the two.
func GetClassificationPrompt(comprehensive bool) (string, error) {
	if comprehensive {
		return Get().GetSystemPrompt(PromptIDs.ClassificationComprehensive)
	}
	return Get().GetSystemPrompt(PromptIDs.ClassificationStrict)
}

// GetExtractionPrompt returns the structured-table extraction system prompt.
func GetExtractionPrompt() (string, error) {
	return Get().GetSystemPrompt(PromptIDs.ExtractionStatement)
}

// PromptIDs contains all known prompt identifiers
var PromptIDs = struct {
	ClassificationStrict        string
	ClassificationComprehensive string
	ExtractionStatement         string
	ExtractionRepair            string
}{
	ClassificationStrict:        "classification.page_filter",
	ClassificationComprehensive: "classification.page_filter_comprehensive",
	ExtractionStatement:         "extraction.statement_table",
	ExtractionRepair:            "extraction.repair_retry",
}
