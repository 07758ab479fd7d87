package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content hashes.
// Version suffix enables future algorithm migration.
const (
	DomainData   = "autotimer/data/v1"
	DomainRecord = "autotimer/record/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DataHash identifies a set of declarative data sources. Sources are hashed
// in the order given, each followed by a separator.
func DataHash(sources ...[]byte) string {
	var all []byte
	for _, s := range sources {
		all = append(all, s...)
		all = append(all, 0x00)
	}
	return hashWithDomain(DomainData, all)
}

// RecordHash identifies a serialized record by its canonical JSON.
func RecordHash(r Record) (string, error) {
	canonical, err := r.MarshalCanonical()
	if err != nil {
		return "", err
	}
	return hashWithDomain(DomainRecord, canonical), nil
}
