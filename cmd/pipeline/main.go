package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"finstmt/pkg/core/agent"
	"finstmt/pkg/core/document"
	"finstmt/pkg/core/exporter"
	"finstmt/pkg/core/pipeline"
	"finstmt/pkg/core/prompt"
	"finstmt/pkg/core/store"
	"finstmt/pkg/models"
)

var statusIcons = map[pipeline.LogStatus]string{
	pipeline.StatusInfo:    "ℹ️ ",
	pipeline.StatusRunning: "⏳",
	pipeline.StatusSuccess: "✅",
	pipeline.StatusWarning: "⚠️ ",
	pipeline.StatusError:   "❌",
}

func main() {
	input := flag.String("input", "", "pages JSON file or directory of page_NNNN.md files")
	outDir := flag.String("out", "output", "output directory")
	configPath := flag.String("config", "config/models.yaml", "agent model configuration")
	promptDir := flag.String("prompts", "resources", "prompt library directory")
	sourceName := flag.String("source", "", "source document name for persistence (default: input basename)")
	save := flag.Bool("save", false, "persist the run to Postgres (requires DATABASE_URL)")
	noCache := flag.Bool("no-cache", false, "bypass the parsed-page cache")
	flag.Parse()

	if *input == "" {
		log.Fatal("Error: -input is required.")
	}

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	// Prompt library is optional; hardcoded fallbacks cover every prompt.
	if err := prompt.LoadFromDirectory(*promptDir); err != nil {
		fmt.Printf("Warning: prompt library not loaded from %s: %v\n", *promptDir, err)
	}

	manager := agent.NewManager(agent.LoadConfig(*configPath), agent.Credentials{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		DeepSeekAPIKey: os.Getenv("DEEPSEEK_API_KEY"),
	})
	classifierProvider, err := manager.GetProvider("classifier")
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	extractorProvider, err := manager.GetProvider("extractor")
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	pages, err := loadPages(*input, !*noCache)
	if err != nil {
		log.Fatalf("Error loading pages from %s: %v", *input, err)
	}
	fmt.Printf("🚀 Financial statement extraction starting: %d pages\n", len(pages))

	orchestrator := pipeline.NewOrchestrator(classifierProvider, extractorProvider, pipeline.DefaultConfig())
	orchestrator.SetLogFunc(func(msg string, status pipeline.LogStatus) {
		fmt.Printf("%s %s\n", statusIcons[status], msg)
	})
	orchestrator.SetProgressFunc(func(current, total int) {
		fmt.Printf("   [%d/%d]\n", current, total)
	})

	result, err := orchestrator.Run(context.Background(), pages)
	if err != nil {
		log.Fatalf("Pipeline failed: %v", err)
	}

	if err := writeOutputs(*outDir, result); err != nil {
		log.Fatalf("Error writing outputs: %v", err)
	}

	if *save {
		name := *sourceName
		if name == "" {
			name = filepath.Base(*input)
		}
		if err := persistRun(context.Background(), name, result); err != nil {
			log.Fatalf("Error persisting run: %v", err)
		}
	}

	printSummary(result)
}

// loadPages reads pages from a JSON file or a directory of markdown pages,
// consulting the parsed-page cache when enabled.
func loadPages(input string, useCache bool) ([]document.Page, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return document.LoadPagesDir(input)
	}

	if useCache {
		raw, err := os.ReadFile(input)
		if err != nil {
			return nil, err
		}
		cache := document.NewPageCache()
		key := cache.Key(raw)
		if cached := cache.Get(key); cached != nil {
			fmt.Printf("📦 Using cached pages for %s\n", filepath.Base(input))
			return cached, nil
		}
		pages, err := document.LoadPagesJSON(input)
		if err != nil {
			return nil, err
		}
		if err := cache.Set(key, pages); err != nil {
			fmt.Printf("Warning: failed to cache pages: %v\n", err)
		}
		return pages, nil
	}
	return document.LoadPagesJSON(input)
}

// runOutput is the statements.json document.
type runOutput struct {
	Statements map[string]*models.Statement `json:"statements"`
	Sources    []document.PageSource        `json:"sources"`
	PageErrors map[int]string               `json:"page_errors,omitempty"`
	Usage      models.Usage                 `json:"usage"`
	ElapsedMS  int64                        `json:"elapsed_ms"`
}

func writeOutputs(outDir string, result *pipeline.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	out := runOutput{
		Statements: result.Organized,
		Sources:    result.Sources,
		PageErrors: result.PageErrors,
		Usage:      result.Usage,
		ElapsedMS:  result.Elapsed.Milliseconds(),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "statements.json"), data, 0o644); err != nil {
		return err
	}

	report, err := exporter.RenderReport(result.Merged)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "statements.md"), []byte(report), 0o644); err != nil {
		return err
	}

	return exporter.WriteWorkbook(result.Merged, filepath.Join(outDir, "financial_statements.xlsx"))
}

func persistRun(ctx context.Context, sourceName string, result *pipeline.Result) error {
	db, err := store.New(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		return err
	}
	defer db.Close()

	runID, err := store.NewRunRepo(db).Save(ctx, sourceName, result.Organized, result.Sources, result.Usage)
	if err != nil {
		return err
	}
	fmt.Printf("💾 Run persisted: %s\n", runID)
	return nil
}

func printSummary(result *pipeline.Result) {
	fmt.Println("\n=== Extraction Summary ===")
	fmt.Printf("Prefilter passed:     %d pages\n", len(result.PrefilterPassed))
	included := 0
	for _, c := range result.Classifications {
		if c.Included {
			included++
		}
	}
	fmt.Printf("Classifier included:  %d pages\n", included)
	fmt.Printf("Statements extracted: %d\n", len(result.Merged))
	for _, st := range result.Merged {
		fmt.Printf("  - %s: %d rows, %d periods\n", st.StatementType.Title(), len(st.Rows), len(st.Periods))
	}
	if len(result.PageErrors) > 0 {
		fmt.Printf("Failed pages:         %d\n", len(result.PageErrors))
	}
	metrics := exporter.SummaryMetrics(result.Merged)
	if metrics.Year != "" {
		fmt.Printf("Latest period (%s):\n", metrics.Year)
		printMetric("Revenue", metrics.Revenue)
		printMetric("Net income", metrics.NetIncome)
		printMetric("Operating cash flow", metrics.OperatingCash)
	}
	fmt.Printf("Token usage:          %d total (%d prompt / %d completion)\n",
		result.Usage.TotalTokens, result.Usage.PromptTokens, result.Usage.CompletionTokens)
	fmt.Printf("Elapsed:              %s\n", result.Elapsed.Round(time.Millisecond))
}

func printMetric(name string, v *float64) {
	if v == nil {
		fmt.Printf("  %-20s n/a\n", name+":")
		return
	}
	fmt.Printf("  %-20s %.2f\n", name+":", *v)
}
