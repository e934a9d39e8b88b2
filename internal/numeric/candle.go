package numeric

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BizKey/webaggregator/internal/domain"
)

// FieldError reports a value that could not be converted, with the record and
// field it came from. It matches domain.ErrInvalidInput via errors.Is.
type FieldError struct {
	Index  int    // position in the input series
	Symbol string // empty when unknown
	Field  string
	Value  string
	Err    error
}

func (e *FieldError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("record %d (%s) field %s=%q: %v", e.Index, e.Symbol, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("record %d field %s=%q: %v", e.Index, e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ParseCandle converts one stored candle. index is used for error context only.
func ParseCandle(index int, raw *domain.RawCandle) (domain.Candle, error) {
	c := domain.Candle{Symbol: raw.Symbol}
	fail := func(field, value string, err error) (domain.Candle, error) {
		return domain.Candle{}, &FieldError{Index: index, Symbol: raw.Symbol, Field: field, Value: value, Err: err}
	}

	ts, err := strconv.ParseInt(strings.TrimSpace(raw.Timestamp), 10, 64)
	if err != nil {
		return fail("timestamp", raw.Timestamp, ErrMalformedNumber)
	}
	c.Timestamp = ts

	prices := []struct {
		name  string
		value string
		dst   *float64
	}{
		{"open", raw.Open, &c.Open},
		{"high", raw.High, &c.High},
		{"low", raw.Low, &c.Low},
		{"close", raw.Close, &c.Close},
	}
	for _, p := range prices {
		v, err := ParseFloat(p.value)
		if err != nil {
			return fail(p.name, p.value, err)
		}
		if v <= 0 {
			return fail(p.name, p.value, ErrNonPositive)
		}
		*p.dst = v
	}

	if raw.Volume != "" {
		v, err := ParseFloat(raw.Volume)
		if err != nil {
			return fail("volume", raw.Volume, err)
		}
		c.Volume = v
	}

	if c.Low > c.High {
		return fail("low", raw.Low, ErrInvertedRange)
	}

	return c, nil
}

// ParseCandles converts a stored series, failing on the first bad record.
func ParseCandles(raw []*domain.RawCandle) ([]domain.Candle, error) {
	if len(raw) == 0 {
		return nil, ErrEmptySeries
	}
	out := make([]domain.Candle, len(raw))
	for i, r := range raw {
		c, err := ParseCandle(i, r)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// ParseCloses converts stored close prices, failing on the first bad record.
func ParseCloses(raw []*domain.RawCandle) ([]float64, error) {
	if len(raw) == 0 {
		return nil, ErrEmptySeries
	}
	out := make([]float64, len(raw))
	for i, r := range raw {
		v, err := ParseFloat(r.Close)
		if err != nil {
			return nil, &FieldError{Index: i, Symbol: r.Symbol, Field: "close", Value: r.Close, Err: err}
		}
		if v <= 0 {
			return nil, &FieldError{Index: i, Symbol: r.Symbol, Field: "close", Value: r.Close, Err: ErrNonPositive}
		}
		out[i] = v
	}
	return out, nil
}
