package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainJob prefixes job hashes. The version suffix allows a future change
// of the hashed fields without colliding with existing IDs.
const DomainJob = "qcal/job/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// JobID computes the content-addressed ID of the seq-th job of a run's
// table. It is stable across reruns with the same run ID and sequence.
func JobID(runID string, table, seq int, sequence string) (string, error) {
	canonical, err := marshalCanonical(map[string]any{
		"run_id":   runID,
		"table":    table,
		"seq":      seq,
		"sequence": sequence,
	})
	if err != nil {
		return "", fmt.Errorf("JobID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainJob, canonical), nil
}
