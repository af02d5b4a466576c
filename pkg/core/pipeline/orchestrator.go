// Package pipeline wires the extraction stages end to end: page
// normalization, heuristic prefiltering, model-backed classification,
// extraction ordering, structured extraction, and merge/export preparation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"finstmt/pkg/core/attention"
	"finstmt/pkg/core/convert"
	"finstmt/pkg/core/document"
	"finstmt/pkg/core/exporter"
	"finstmt/pkg/core/llm"
	"finstmt/pkg/core/prefilter"
	"finstmt/pkg/core/validator"
	"finstmt/pkg/models"
)

// TotalSteps is the number of reported pipeline phases.
const TotalSteps = 6

// LogStatus tags a log line for display.
type LogStatus string

const (
	StatusInfo    LogStatus = "info"
	StatusRunning LogStatus = "running"
	StatusSuccess LogStatus = "success"
	StatusWarning LogStatus = "warning"
	StatusError   LogStatus = "error"
)

// LogFunc receives human-readable progress lines.
type LogFunc func(message string, status LogStatus)

// ProgressFunc receives step counters, 0..TotalSteps.
type ProgressFunc func(currentStep, totalSteps int)

// Config bundles the stage configurations.
type Config struct {
	Prefilter  prefilter.Config
	Classifier attention.Config
	Extractor  validator.Config
}

// DefaultConfig returns the production stage settings.
func DefaultConfig() Config {
	return Config{
		Prefilter:  prefilter.DefaultConfig(),
		Classifier: attention.DefaultConfig(),
		Extractor:  validator.DefaultConfig(),
	}
}

// Result is the pipeline's final output plus per-stage telemetry.
type Result struct {
	Organized       map[string]*models.Statement
	Merged          []*models.Statement
	Sources         []document.PageSource
	Classifications map[int]models.ClassificationResult
	PrefilterPassed []int
	PageErrors      map[int]string
	Usage           models.Usage
	Elapsed         time.Duration
}

// Orchestrator manages the end-to-end data flow:
// normalize -> prefilter -> classify -> order -> extract -> finalize.
type Orchestrator struct {
	detector   *prefilter.Detector
	classifier *attention.Classifier
	extractor  *validator.Extractor
	cfg        Config

	log      LogFunc
	progress ProgressFunc
}

// NewOrchestrator creates an orchestrator using one provider for
// classification and another for extraction. The two may be the same.
func NewOrchestrator(classifierProvider, extractorProvider llm.Provider, cfg Config) *Orchestrator {
	return &Orchestrator{
		detector:   prefilter.NewDetector(cfg.Prefilter),
		classifier: attention.NewClassifier(classifierProvider, cfg.Classifier),
		extractor:  validator.NewExtractor(extractorProvider, cfg.Extractor),
		cfg:        cfg,
	}
}

// SetLogFunc installs a log sink. Nil disables logging.
func (o *Orchestrator) SetLogFunc(fn LogFunc) { o.log = fn }

// SetProgressFunc installs a progress sink. Nil disables progress updates.
func (o *Orchestrator) SetProgressFunc(fn ProgressFunc) { o.progress = fn }

func (o *Orchestrator) logf(status LogStatus, format string, args ...interface{}) {
	if o.log != nil {
		o.log(fmt.Sprintf(format, args...), status)
	}
}

func (o *Orchestrator) advance(step int) {
	if o.progress != nil {
		o.progress(step, TotalSteps)
	}
}

// Run executes the full pipeline over the given pages. Stage failures on
// individual pages are collected in Result.PageErrors; only empty input or
// a completely failed extraction is fatal.
func (o *Orchestrator) Run(ctx context.Context, pages []document.Page) (*Result, error) {
	start := time.Now()
	o.advance(0)

	if len(pages) == 0 {
		o.logf(StatusError, "Pipeline error: no pages to process")
		return nil, fmt.Errorf("no pages to process")
	}

	// Step 1: normalize page text and embedded tables.
	o.logf(StatusRunning, "Normalizing %d pages...", len(pages))
	normalized := make([]document.Page, len(pages))
	for i, p := range pages {
		p.Text = convert.NormalizePageTables(p.Text)
		normalized[i] = p
	}
	o.logf(StatusSuccess, "Page normalization complete.")
	o.advance(1)

	// Step 2: heuristic prefilter.
	o.logf(StatusRunning, "Filtering relevant pages...")
	var selected []document.Page
	var passed []int
	for _, p := range normalized {
		res := o.detector.Evaluate(p.Text)
		if res.Pass {
			passed = append(passed, p.Index)
			selected = append(selected, document.Annotate(p, len(normalized)))
		}
	}
	if len(selected) == 0 {
		o.logf(StatusWarning, "Prefilter passed no pages. Including all pages for evaluation.")
		for _, p := range normalized {
			passed = append(passed, p.Index)
			selected = append(selected, document.Annotate(p, len(normalized)))
		}
	}
	o.logf(StatusSuccess, "Relevant pages filtered: %d of %d.", len(selected), len(normalized))
	o.advance(2)

	// Step 3: model-backed classification, with a comprehensive-income
	// retry when no income statement surfaces on the first pass.
	o.logf(StatusRunning, "Detecting financial statement pages...")
	classifications := o.classifier.ClassifyPages(ctx, selected)
	if !attention.IncludedTypes(classifications)[models.IncomeStatement] {
		o.logf(StatusWarning, "No income statement found. Retrying with comprehensive-income headers.")
		o.classifier.Comprehensive = true
		var remaining []document.Page
		for _, p := range selected {
			if !classifications[p.Index].Included {
				remaining = append(remaining, p)
			}
		}
		for idx, r := range o.classifier.ClassifyPages(ctx, remaining) {
			if r.Included {
				classifications[idx] = r
			}
		}
		o.classifier.Comprehensive = false
	}
	var usage models.Usage
	included := 0
	for _, r := range classifications {
		usage.PromptTokens += r.Usage.PromptTokens
		usage.CompletionTokens += r.Usage.CompletionTokens
		usage.TotalTokens += r.Usage.TotalTokens
		usage.TotalCost += r.Usage.TotalCost
		if r.Included {
			included++
		}
	}
	o.logf(StatusSuccess, "Statement pages identified: %d.", included)
	o.advance(3)

	// Step 4: extraction order.
	o.logf(StatusRunning, "Organizing statements and table order...")
	order := attention.PlanOrder(classifications)
	byIndex := make(map[int]document.Page, len(selected))
	for _, p := range selected {
		byIndex[p.Index] = p
	}
	ordered := make([]document.Page, 0, len(order))
	for _, idx := range order {
		ordered = append(ordered, byIndex[idx])
	}
	o.logf(StatusSuccess, "Statements organized.")
	o.advance(4)

	// Step 5: structured extraction.
	o.logf(StatusRunning, "Validating and structuring tables...")
	pageResults := o.extractor.ExtractPages(ctx, ordered)
	pageErrors := make(map[int]string)
	var statements []*models.Statement
	var sources []document.PageSource
	for _, pr := range pageResults {
		if pr.Err != nil {
			pageErrors[pr.PageIndex] = pr.Err.Error()
			o.logf(StatusWarning, "Page %d extraction failed: %v", pr.PageIndex, pr.Err)
			continue
		}
		statements = append(statements, pr.Statement)
		sources = append(sources, pr.Source)
	}
	if len(ordered) > 0 && len(statements) == 0 {
		o.logf(StatusError, "Pipeline error: every page extraction failed")
		o.advance(TotalSteps)
		return nil, fmt.Errorf("every page extraction failed (%d pages)", len(ordered))
	}
	o.logf(StatusSuccess, "Tables validated successfully.")
	o.advance(5)

	// Step 6: merge and organize by statement type.
	o.logf(StatusRunning, "Finalizing structured output...")
	merged := exporter.Merge(statements)
	result := &Result{
		Organized:       exporter.Organize(merged),
		Merged:          merged,
		Sources:         sources,
		Classifications: classifications,
		PrefilterPassed: passed,
		PageErrors:      pageErrors,
		Usage:           usage,
		Elapsed:         time.Since(start),
	}
	o.logf(StatusSuccess, "Financial statement data ready.")
	o.advance(TotalSteps)

	return result, nil
}
