package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/numeric"
	"github.com/BizKey/webaggregator/internal/reporting"
	"github.com/BizKey/webaggregator/internal/simulation"
	"github.com/BizKey/webaggregator/internal/storage"
	"github.com/BizKey/webaggregator/internal/strategy"
)

// strategyConfig selects the sizing policy from the mode query parameter.
func (s *Server) strategyConfig(r *http.Request) (domain.StrategyConfig, error) {
	mode, err := strategy.ParseSizingMode(r.URL.Query().Get("mode"))
	if err != nil {
		return domain.StrategyConfig{}, err
	}
	if mode == domain.SizingATRScaled {
		return s.cfg.ATRScaled(), nil
	}
	return s.cfg.FixedPercent(), nil
}

// floatParam parses an optional decimal query parameter.
func floatParam(r *http.Request, name string, fallback float64) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := numeric.ParseFloat(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

// fileSymbol extracts the symbol from a "{symbol}{ext}" path segment.
func fileSymbol(r *http.Request, ext string) (string, error) {
	file := r.PathValue("file")
	symbol, ok := strings.CutSuffix(file, ext)
	if !ok || symbol == "" {
		return "", fmt.Errorf("report %q: %w", file, storage.ErrNotFound)
	}
	return symbol, nil
}

func (s *Server) handleCandlesWithATR(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, err := s.computer.CandlesWithATR(r.Context(), r.PathValue("symbol"))
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeReport(w, r, start, report.ReportID, report)
}

func (s *Server) handleStrategyRanking(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg, err := s.strategyConfig(r)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	report, err := s.computer.StrategyRanking(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeReport(w, r, start, report.ReportID, report)
}

func (s *Server) handleSymbolStrategy(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg, err := s.strategyConfig(r)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	report, err := s.computer.SymbolStrategy(r.Context(), r.PathValue("symbol"), cfg)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeReport(w, r, start, report.ReportID, report)
}

func (s *Server) handleSMASweep(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, err := s.computer.SMASweep(r.Context(), r.PathValue("symbol"))
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeReport(w, r, start, report.ReportID, report)
}

// handleBestSMA answers insufficient history with status "insufficient_data".
func (s *Server) handleBestSMA(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, err := s.computer.BestSMA(r.Context(), r.PathValue("symbol"))
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	if notModified(w, r, report.ReportID) {
		return
	}
	writeRaw(w, http.StatusOK, envelope{Status: report.Status, ElapsedMs: elapsedMs(start), Data: report})
}

func (s *Server) handleDVA(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, err := s.dva(r)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeReport(w, r, start, report.ReportID, report)
}

func (s *Server) dva(r *http.Request) (*simulation.DVAReport, error) {
	increment, err := floatParam(r, "increment", s.cfg.DVA.TargetIncrement)
	if err != nil {
		return nil, err
	}
	commission, err := floatParam(r, "commission", s.cfg.DVA.CommissionRate)
	if err != nil {
		return nil, err
	}
	symbol := r.PathValue("symbol")
	if symbol == "" {
		symbol, err = fileSymbol(r, ".md")
		if err != nil {
			return nil, err
		}
	}
	return s.computer.DVA(r.Context(), symbol, increment, commission)
}

func (s *Server) handleStrategyCSV(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg, err := s.strategyConfig(r)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	report, err := s.computer.StrategyRanking(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeText(w, r, contentTypeCSV, report.ReportID, reporting.RenderRankingCSV(report.Ranking))
}

func (s *Server) handleStrategyMarkdown(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	cfg, err := s.strategyConfig(r)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	report, err := reporting.NewGenerator(s.computer).Generate(r.Context(), cfg)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeText(w, r, contentTypeMarkdown, report.ReportID, reporting.RenderMarkdown(report))
}

func (s *Server) handleSymbolStrategyCSV(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	symbol, err := fileSymbol(r, ".csv")
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	cfg, err := s.strategyConfig(r)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	report, err := s.computer.SymbolStrategy(r.Context(), symbol, cfg)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeText(w, r, contentTypeCSV, report.ReportID, reporting.RenderStrategyCSV(report.Records))
}

func (s *Server) handleSMACSV(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	symbol, err := fileSymbol(r, ".csv")
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	report, err := s.computer.SMASweep(r.Context(), symbol)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	writeText(w, r, contentTypeCSV, report.ReportID, reporting.RenderSMACSV(report.Results))
}

func (s *Server) handleDVAMarkdown(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	report, err := s.dva(r)
	if err != nil {
		s.writeError(w, r, start, err)
		return
	}
	body := reporting.RenderDVAMarkdown(report.Symbol, report.TargetIncrement, report.View)
	writeText(w, r, contentTypeMarkdown, report.ReportID, body)
}

const (
	contentTypeCSV      = "text/csv; charset=utf-8"
	contentTypeMarkdown = "text/markdown; charset=utf-8"
)
