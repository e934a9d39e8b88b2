package candlecsv

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BizKey/webaggregator/internal/domain"
)

func TestRead(t *testing.T) {
	input := "timestamp,open,high,low,close,volume\n" +
		"1704067200,100,101,99,100.5,12\n" +
		"1704070800, 100.5,102,100,101.25,7\n"

	candles, err := Read(strings.NewReader(input), "csv", "BTC-USDT", "1hour")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}

	c := candles[1]
	if c.Symbol != "BTC-USDT" || c.Exchange != "csv" || c.Interval != "1hour" {
		t.Errorf("unexpected identity: %+v", c)
	}
	if c.Timestamp != "1704070800" || c.Open != "100.5" || c.Close != "101.25" || c.Volume != "7" {
		t.Errorf("unexpected values: %+v", c)
	}
}

func TestRead_ColumnOrderAndOptionalVolume(t *testing.T) {
	input := "Close,Low,High,Open,Timestamp\n10,9,11,9.5,1\n"

	candles, err := Read(strings.NewReader(input), "csv", "X", "1min")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	c := candles[0]
	if c.Open != "9.5" || c.High != "11" || c.Low != "9" || c.Close != "10" || c.Timestamp != "1" {
		t.Errorf("columns mapped incorrectly: %+v", c)
	}
	if c.Volume != "" {
		t.Errorf("expected empty volume, got %q", c.Volume)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"missing close", "timestamp,open,high,low\n1,1,1,1\n"},
		{"short row", "timestamp,open,high,low,close\n1,1,1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), "csv", "X", "1min")
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candles.csv")
	if err := os.WriteFile(path, []byte("timestamp,open,high,low,close\n1,1,2,0.5,1.5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	candles, err := ReadFile(path, "csv", "X", "1min")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(candles) != 1 {
		t.Fatalf("expected 1 candle, got %d", len(candles))
	}

	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.csv"), "csv", "X", "1min"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSymbol(t *testing.T) {
	s := Symbol("csv", "BTC-USDT", "0.01", "0.001")
	if s.FeeCategory != 1 || s.TakerFeeCoefficient != "0.001" || s.PriceIncrement != "0.01" {
		t.Errorf("unexpected symbol rules: %+v", s)
	}
}
