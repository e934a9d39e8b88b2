// Package candlecsv reads candle files with a header row of
// timestamp,open,high,low,close[,volume] into raw candles.
package candlecsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BizKey/webaggregator/internal/domain"
)

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = fmt.Errorf("%w: missing column", domain.ErrInvalidInput)

var required = []string{"timestamp", "open", "high", "low", "close"}

// Read parses candles for symbol from r. Values are kept textual; they are
// parsed by the computations that consume them.
func Read(r io.Reader, exchange, symbol, interval string) ([]*domain.RawCandle, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}
	volumeCol, hasVolume := cols["volume"]

	var candles []*domain.RawCandle
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		field := func(col int) (string, error) {
			if col >= len(record) {
				return "", fmt.Errorf("%w: line %d has %d fields", domain.ErrInvalidInput, line, len(record))
			}
			return strings.TrimSpace(record[col]), nil
		}

		c := &domain.RawCandle{Exchange: exchange, Symbol: symbol, Interval: interval}
		targets := []*string{&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close}
		for i, name := range required {
			v, err := field(cols[name])
			if err != nil {
				return nil, err
			}
			*targets[i] = v
		}
		if hasVolume {
			if c.Volume, err = field(volumeCol); err != nil {
				return nil, err
			}
		}
		candles = append(candles, c)
	}

	return candles, nil
}

// ReadFile opens path and reads its candles.
func ReadFile(path, exchange, symbol, interval string) ([]*domain.RawCandle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open candles file: %w", err)
	}
	defer f.Close()
	return Read(f, exchange, symbol, interval)
}

// Symbol returns trading rules for a symbol whose candles come from a file.
// The commission rate is expressed as fee category 1 times takerFee.
func Symbol(exchange, symbol, priceIncrement, takerFee string) *domain.Symbol {
	return &domain.Symbol{
		Exchange:            exchange,
		Symbol:              symbol,
		Name:                symbol,
		PriceIncrement:      priceIncrement,
		FeeCategory:         1,
		TakerFeeCoefficient: takerFee,
		MakerFeeCoefficient: takerFee,
		EnableTrading:       true,
	}
}
