package idhash

import (
	"testing"
)

func TestComputeReportID(t *testing.T) {
	tests := []struct {
		name          string
		kind          string
		symbol        string
		params        string
		lastTimestamp int64
		wantLen       int // hash length should be 64
	}{
		{
			name:          "fixed strategy",
			kind:          "strategy",
			symbol:        "BTC-USDT",
			params:        "FIXED_RR_tp6_sl2_size100",
			lastTimestamp: 1704067200,
			wantLen:       64,
		},
		{
			name:          "ranking has no symbol",
			kind:          "ranking",
			symbol:        "",
			params:        "FIXED_RR_atr20_risk2_reward3_size100",
			lastTimestamp: 1704070800,
			wantLen:       64,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeReportID(tt.kind, tt.symbol, tt.params, tt.lastTimestamp)

			if len(got) != tt.wantLen {
				t.Errorf("ComputeReportID() length = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestComputeReportID_Deterministic(t *testing.T) {
	id1 := ComputeReportID("sma", "ETH-USDT", "limit1000", 1704067200)
	id2 := ComputeReportID("sma", "ETH-USDT", "limit1000", 1704067200)

	if id1 != id2 {
		t.Errorf("ComputeReportID() not deterministic: %s != %s", id1, id2)
	}
}

func TestComputeReportID_ChangesWithNewCandle(t *testing.T) {
	before := ComputeReportID("dva", "ETH-USDT", "inc10_c0.001", 1704067200)
	after := ComputeReportID("dva", "ETH-USDT", "inc10_c0.001", 1704070800)

	if before == after {
		t.Error("ComputeReportID() should change when the last candle changes")
	}
}

func TestComputeReportID_FieldsAreDelimited(t *testing.T) {
	// "ab"+"c" must not collide with "a"+"bc"
	id1 := ComputeReportID("ab", "c", "", 0)
	id2 := ComputeReportID("a", "bc", "", 0)

	if id1 == id2 {
		t.Error("ComputeReportID() collided across field boundaries")
	}
}
