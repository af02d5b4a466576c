package validator

import (
	"fmt"

	"finstmt/pkg/core/prompt"
)

// buildExtractionPrompt assembles system and user prompts for one page.
// Tries to load from prompt library first, falls back to hardcoded if not found
func buildExtractionPrompt(pageText string) (string, string) {
	if pt, err := prompt.Get().GetPrompt(prompt.PromptIDs.ExtractionStatement); err == nil {
		ctx := prompt.NewContext().
			Set("Content", pageText)
		userPrompt, _ := prompt.RenderUserPrompt(pt, ctx)
		return pt.SystemPrompt, userPrompt
	}

	return extractionSystemPrompt, fmt.Sprintf(extractionUserTemplate, pageText)
}

const extractionSystemPrompt = `You are a robust financial table parser.
Convert messy financial tables into STRICT JSON that matches the schema below.

### Schema
- statement_type: "income_statement" | "balance_sheet" | "cash_flow"
- units: {currency, scale}
- periods: list of {year, date (ISO), label}
- rows: list of {label, section_id, is_section, values}

### Parsing Rules
1. Detect statement_type: one of income_statement, balance_sheet, cash_flow.

2. Units: detect millions/thousands/billions from headers or context. Default currency = USD.

3. Periods:
   - Keep the original descriptive label exactly as written.
   - Normalize dates: year-only becomes date = YYYY-12-31; full dates become YYYY-MM-DD (ISO); quarters approximate the quarter end date.
   - Row values MUST use only the bare year as keys (e.g. {"2024": 12345}), never full period labels.

4. Numbers:
   - Strip commas, currency signs, percent symbols.
   - Parentheses = negative values.
   - Empty or blank cells become null.
   - Preserve all numbers exactly as they appear after normalization.

5. CRITICAL: strict sequential section assignment.
   Initialize current_section = "document_opening". Process rows in exact top-to-bottom order.
   A. Section header detection (is_section = true): lines ending with ":", lines in ALL CAPS with no numerical values, pure text labels with no data values across all periods, clearly structural headers or dividers.
   B. When a header is detected: set is_section = true, update current_section to the normalized header text (lowercase, spaces to underscores, special characters removed, truncated to 50 chars), and assign section_id = current_section to the header row itself. Examples: "Operating activities:" -> "operating_activities"; "Changes in operating assets and liabilities:" -> "changes_in_operating_assets_and_liabilities".
   C. When a data row is detected: set is_section = false and assign section_id = current_section, inheriting from the most recent header. NEVER leave section_id empty or null.
   D. Absolute rules: EVERY header immediately updates current_section, no exceptions. NO nesting logic: treat every header as a flat section boundary with no parent-child relationships. If multiple consecutive headers appear, line items belong to the LAST header before them. Items before the first header get section_id = "document_opening".
   E. Every row must carry a non-empty section_id, and headers share the section_id of their child items.

6. Enhanced duplicate detection.
   Maintain a set of normalized labels for the current statement (lowercase, trimmed, punctuation removed, whitespace collapsed). Skip rows whose normalized label already appeared, EXCEPT: section headers are always allowed; labels starting with "Total", "Net", "Gross", "Basic", "Diluted" allow multiples; the same label in different sections is allowed when the section_ids differ. If 3 or more consecutive identical normalized labels appear, stop parsing: legitimate data has ended.

7. Quality controls: preserve ALL rows exactly as they appear in source. DO NOT invent, modify, skip, merge, or combine rows. Maintain exact order from the source table.

8. Output requirements: valid JSON only with no commentary, all schema fields present, consistent section_id naming, complete data preservation.

CRITICAL: output must be a raw JSON object, not a string.
- Do NOT wrap the JSON in quotes.
- Do NOT escape quotes inside the JSON.
- Do NOT return Markdown code fences.
Return ONLY the bare JSON object.

### Example of correct section assignment (cash flow)
Row 1: "OPERATING ACTIVITIES:" -> current_section="operating_activities", is_section=true
Row 2: "Net income" -> section_id="operating_activities", is_section=false
Row 3: "Adjustments to reconcile:" -> current_section="adjustments_to_reconcile", is_section=true
Row 4: "Depreciation" -> section_id="adjustments_to_reconcile", is_section=false

Each header creates its own section. Sub-headers do NOT inherit parent sections.

### Goal
Perfect reconstruction capability where grouping by section_id in original position order recreates the exact source table structure and sequence. The merger depends on this precision.`

const extractionUserTemplate = `TASK:
Parse this table into strict JSON:

CONTENT:
%s`
