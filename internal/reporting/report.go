package reporting

import (
	"time"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/metrics"
)

// Report represents the scheduled strategy report.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	StrategyID  string
	ReportID    string

	// Ranking by fixed risk:reward net profit, with excluded symbols in Ranking.Failed
	Ranking metrics.Ranking

	// Best SMA period per ranked symbol, in ranking order
	BestSMA []BestSMARow
}

// BestSMARow is the best SMA crossover period of one symbol.
// Best is nil when the symbol lacks history or its sweep failed.
type BestSMARow struct {
	Symbol string
	Status string
	Prices int
	Best   *domain.SMAResult
	Error  string
}
