// Package attention classifies candidate pages with a model-backed filter
// and plans the extraction order for the pages that survive.
package attention

import (
	"context"
	"fmt"
	"sync"

	"finstmt/pkg/core/document"
	"finstmt/pkg/core/llm"
	"finstmt/pkg/core/utils"
	"finstmt/pkg/models"
)

// Config controls retry and fan-out behavior.
type Config struct {
	MaxAttempts int // model calls per page before giving up
	MaxWorkers  int // concurrent pages per batch
	BatchSize   int // pages per batch
}

// DefaultConfig mirrors the production settings.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, MaxWorkers: 3, BatchSize: 10}
}

// Classifier screens pages through an LLM with a strict evaluation prompt.
type Classifier struct {
	provider llm.Provider
	cfg      Config
	// Comprehensive widens the income-statement header list to include
	// comprehensive-income titles, for filings that split the two.
	Comprehensive bool
}

// NewClassifier creates a classifier backed by the given provider.
func NewClassifier(provider llm.Provider, cfg Config) *Classifier {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 3
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Classifier{provider: provider, cfg: cfg}
}

// classifierResponse is the model's wire format.
type classifierResponse struct {
	RetainPage bool   `json:"retain_page"`
	Reason     string `json:"reason"`
	Type       string `json:"type"`
}

// ClassifyPage evaluates one page. A page that fails every attempt is
// excluded rather than surfaced as an error: a dropped page costs a retry
// downstream, a false positive poisons the extraction.
func (c *Classifier) ClassifyPage(ctx context.Context, page document.Page) models.ClassificationResult {
	systemPrompt, userPrompt := buildClassifyPrompt(page.Text, c.Comprehensive)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		raw, err := c.provider.GenerateResponse(ctx, userPrompt, systemPrompt, map[string]interface{}{
			"response_format": "json",
		})
		if err != nil {
			lastErr = err
			fmt.Printf("[attention.Classifier] Page %d attempt %d/%d failed: %v\n",
				page.Index, attempt, c.cfg.MaxAttempts, err)
			continue
		}

		var resp classifierResponse
		if _, err := utils.SmartParse(raw, &resp); err != nil {
			lastErr = err
			fmt.Printf("[attention.Classifier] Page %d attempt %d/%d unparseable response: %v\n",
				page.Index, attempt, c.cfg.MaxAttempts, err)
			continue
		}

		result := models.ClassificationResult{
			Included: resp.RetainPage,
			Reason:   resp.Reason,
			PageType: models.ParseStatementType(resp.Type),
			Usage:    estimateUsage(systemPrompt+userPrompt, raw),
		}
		if !result.Included {
			result.PageType = models.NoStatement
		}
		return result
	}

	return models.ClassificationResult{
		Included: false,
		Reason:   fmt.Sprintf("classification failed after %d attempts: %v", c.cfg.MaxAttempts, lastErr),
		PageType: models.NoStatement,
	}
}

// ClassifyPages screens pages in batches with a bounded worker pool and
// returns results keyed by the pages' original indices.
func (c *Classifier) ClassifyPages(ctx context.Context, pages []document.Page) map[int]models.ClassificationResult {
	results := make(map[int]models.ClassificationResult, len(pages))
	var mu sync.Mutex

	totalBatches := (len(pages) + c.cfg.BatchSize - 1) / c.cfg.BatchSize
	for start := 0; start < len(pages); start += c.cfg.BatchSize {
		end := start + c.cfg.BatchSize
		if end > len(pages) {
			end = len(pages)
		}
		batch := pages[start:end]
		fmt.Printf("[attention.Classifier] Batch %d/%d (%d pages)\n",
			start/c.cfg.BatchSize+1, totalBatches, len(batch))

		sem := make(chan struct{}, c.cfg.MaxWorkers)
		var wg sync.WaitGroup
		for _, page := range batch {
			wg.Add(1)
			sem <- struct{}{}
			go func(p document.Page) {
				defer wg.Done()
				defer func() { <-sem }()
				r := c.ClassifyPage(ctx, p)
				mu.Lock()
				results[p.Index] = r
				mu.Unlock()
			}(page)
		}
		wg.Wait()
	}
	return results
}

// estimateUsage approximates token counts at four characters per token.
// The HTTP providers do not surface usage uniformly, so this keeps the
// telemetry comparable across backends.
func estimateUsage(promptText, completion string) models.Usage {
	p := len(promptText) / 4
	c := len(completion) / 4
	return models.Usage{
		PromptTokens:     p,
		CompletionTokens: c,
		TotalTokens:      p + c,
	}
}
