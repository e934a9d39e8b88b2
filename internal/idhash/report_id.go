package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ComputeReportID computes a deterministic report_id using SHA256.
// Formula: SHA256(kind|symbol|params|last_timestamp)
// Returns hex-encoded hash (64 characters).
//
// The same inputs over the same candle history always give the same id,
// so it doubles as an HTTP entity tag.
func ComputeReportID(
	kind string,
	symbol string,
	params string,
	lastTimestamp int64,
) string {
	data := fmt.Sprintf("%s|%s|%s|%d",
		kind,
		symbol,
		params,
		lastTimestamp,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
