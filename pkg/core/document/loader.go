package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// LoadPagesJSON reads a pages file produced by the parsing collaborator.
// Accepts either a bare array of pages or an object with a "pages" key.
func LoadPagesJSON(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages file: %w", err)
	}

	var pages []Page
	if err := json.Unmarshal(data, &pages); err == nil && len(pages) > 0 {
		return reindex(pages), nil
	}

	var wrapper struct {
		Pages []Page `json:"pages"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("failed to parse pages file %s: %w", path, err)
	}
	if len(wrapper.Pages) == 0 {
		return nil, fmt.Errorf("pages file %s contains no pages", path)
	}
	return reindex(wrapper.Pages), nil
}

// LoadPagesDir reads per-page markdown files (page_0001.md, page_0002.md, ...)
// from a directory, ordered by the numeric suffix.
func LoadPagesDir(dir string) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read pages directory: %w", err)
	}

	type indexed struct {
		num  int
		name string
	}
	var files []indexed
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".md")
		if i := strings.LastIndex(base, "_"); i >= 0 {
			base = base[i+1:]
		}
		num, err := strconv.Atoi(strings.TrimLeft(base, "0"))
		if err != nil {
			if strings.Trim(base, "0") == "" {
				num = 0
			} else {
				continue
			}
		}
		files = append(files, indexed{num: num, name: e.Name()})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page markdown files found in %s", dir)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].num < files[j].num })

	pages := make([]Page, 0, len(files))
	for i, f := range files {
		data, err := os.ReadFile(filepath.Join(dir, f.name))
		if err != nil {
			return nil, fmt.Errorf("failed to read page file %s: %w", f.name, err)
		}
		pages = append(pages, Page{Index: i, Label: strconv.Itoa(f.num), Text: string(data)})
	}
	return pages, nil
}

func reindex(pages []Page) []Page {
	for i := range pages {
		pages[i].Index = i
		if pages[i].Label == "" {
			pages[i].Label = strconv.Itoa(i + 1)
		}
	}
	return pages
}
