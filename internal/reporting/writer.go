package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BizKey/webaggregator/internal/observability"
)

// Output file names written by WriteFiles.
const (
	StrategyMarkdownFile = "strategy.md"
	StrategyCSVFile      = "strategy.csv"
	BestSMACSVFile       = "sma_best.csv"
)

// WriteFiles renders r into dir, creating it if needed, and returns the written paths.
func WriteFiles(dir string, r *Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name    string
		format  string
		content string
	}{
		{StrategyMarkdownFile, "markdown", RenderMarkdown(r)},
		{StrategyCSVFile, "csv", RenderRankingCSV(r.Ranking)},
		{BestSMACSVFile, "csv", RenderBestSMACSV(r.BestSMA)},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.content), 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", f.name, err)
		}
		observability.RecordReportGenerated(f.format)
		paths = append(paths, path)
	}

	return paths, nil
}
