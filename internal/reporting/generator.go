package reporting

import (
	"context"
	"time"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/simulation"
)

// Source runs the computations a report is built from.
// *simulation.Runner satisfies it.
type Source interface {
	StrategyRanking(ctx context.Context, cfg domain.StrategyConfig) (*simulation.RankingReport, error)
	BestSMA(ctx context.Context, symbol string) (*simulation.BestSMAReport, error)
}

// Generator produces strategy reports from a computation source.
type Generator struct {
	source Source
	now    func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(source Source) *Generator {
	return &Generator{
		source: source,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate ranks every symbol under cfg and looks up the best SMA period of each ranked symbol.
// A symbol whose SMA inputs are unusable gets a row with Error set; other failures abort.
func (g *Generator) Generate(ctx context.Context, cfg domain.StrategyConfig) (*Report, error) {
	ranking, err := g.source.StrategyRanking(ctx, cfg)
	if err != nil {
		return nil, err
	}

	rows := make([]BestSMARow, 0, len(ranking.Rows))
	for _, r := range ranking.Rows {
		row, err := g.bestSMARow(ctx, r.Symbol)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	return &Report{
		GeneratedAt: g.now(),
		StrategyID:  ranking.StrategyID,
		ReportID:    ranking.ReportID,
		Ranking:     ranking.Ranking,
		BestSMA:     rows,
	}, nil
}

func (g *Generator) bestSMARow(ctx context.Context, symbol string) (BestSMARow, error) {
	best, err := g.source.BestSMA(ctx, symbol)
	if err != nil {
		if !simulation.IsDataError(err) {
			return BestSMARow{}, err
		}
		return BestSMARow{Symbol: symbol, Status: "error", Error: err.Error()}, nil
	}
	return BestSMARow{
		Symbol: symbol,
		Status: best.Status,
		Prices: best.Prices,
		Best:   best.Best,
	}, nil
}
