package validator

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"finstmt/pkg/core/document"
	"finstmt/pkg/core/llm"
	"finstmt/pkg/core/utils"
	"finstmt/pkg/models"
)

// Config controls repair retries and the extraction fan-out.
type Config struct {
	RepairRetries  int // extra model calls after a schema or parse failure
	MaxConcurrency int // pages extracted at once
}

// DefaultConfig mirrors the production settings.
func DefaultConfig() Config {
	return Config{RepairRetries: 2, MaxConcurrency: 3}
}

// Extractor parses one page of statement text into a normalized Statement.
type Extractor struct {
	provider llm.Provider
	cfg      Config
}

// NewExtractor creates an extractor backed by the given provider.
func NewExtractor(provider llm.Provider, cfg Config) *Extractor {
	if cfg.RepairRetries < 0 {
		cfg.RepairRetries = 2
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 3
	}
	return &Extractor{provider: provider, cfg: cfg}
}

// ExtractPage runs the table parser on one page. A response that fails to
// parse or validate is retried with the previous error appended to the user
// prompt, so the model sees exactly what to fix.
func (e *Extractor) ExtractPage(ctx context.Context, pageText string) (*models.Statement, error) {
	systemPrompt, userPrompt := buildExtractionPrompt(strings.TrimSpace(pageText))

	prompt := userPrompt
	var lastErr error
	for attempt := 0; attempt <= e.cfg.RepairRetries; attempt++ {
		raw, err := e.provider.GenerateResponse(ctx, prompt, systemPrompt, map[string]interface{}{
			"response_format": "json",
		})
		if err != nil {
			return nil, fmt.Errorf("EXTRACTION_API_ERROR: %w", err)
		}

		cleaned := utils.CleanMarkdown(raw)
		var wire wireStatement
		if _, err := utils.SmartParse(cleaned, &wire); err != nil {
			lastErr = err
		} else if err := validateSchema(&wire); err != nil {
			lastErr = err
		} else {
			return Normalize(&wire), nil
		}

		if attempt < e.cfg.RepairRetries {
			fmt.Printf("[validator.Extractor] Repair attempt %d/%d: %v\n",
				attempt+1, e.cfg.RepairRetries, lastErr)
			prompt = userPrompt + "\nPREVIOUS ERROR:" + lastErr.Error() + "\nRe-output ONLY strict JSON."
		}
	}
	return nil, fmt.Errorf("EXTRACTION_VALIDATION_FAILED: %w", lastErr)
}

// PageResult carries one page's extraction outcome. Failures are recorded
// per page so a single bad extraction does not sink the run.
type PageResult struct {
	PageIndex int
	Source    document.PageSource
	Statement *models.Statement
	Err       error
}

// ExtractPages extracts the given pages concurrently, at most
// MaxConcurrency in flight, and returns results in the input order.
func (e *Extractor) ExtractPages(ctx context.Context, pages []document.Page) []PageResult {
	results := make([]PageResult, len(pages))
	sem := make(chan struct{}, e.cfg.MaxConcurrency)
	var wg sync.WaitGroup

	for i, page := range pages {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, p document.Page) {
			defer wg.Done()
			defer func() { <-sem }()

			st, err := e.ExtractPage(ctx, p.Text)
			results[slot] = PageResult{
				PageIndex: p.Index,
				Source: document.PageSource{
					PageNumber: p.Index,
					PageLabel:  p.Label,
				},
				Statement: st,
				Err:       err,
			}
		}(i, page)
	}
	wg.Wait()
	return results
}
