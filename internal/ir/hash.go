package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows the algorithm to change later.
const (
	DomainDefinitions = "keepaway/definitions/v1"
	DomainSnapshot    = "keepaway/snapshot/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null byte prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DefinitionsHash identifies a parsed definition sequence.
// Two inputs that differ only in whitespace or header spelling but parse
// to the same definitions share a hash.
func DefinitionsHash(defs []Definition) (string, error) {
	canonical, err := MarshalCanonical(DefinitionsValue(defs))
	if err != nil {
		return "", fmt.Errorf("DefinitionsHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDefinitions, canonical), nil
}

// SnapshotHash identifies the state of a run: activity counters and queue
// contents in worker order.
func SnapshotHash(activity []int64, queues [][]int64) (string, error) {
	qs := make(List, len(queues))
	for i, q := range queues {
		qs[i] = Ints(q)
	}
	canonical, err := MarshalCanonical(Object{
		"activity": Ints(activity),
		"queues":   qs,
	})
	if err != nil {
		return "", fmt.Errorf("SnapshotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MustDefinitionsHash is like DefinitionsHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustDefinitionsHash(defs []Definition) string {
	h, err := DefinitionsHash(defs)
	if err != nil {
		panic(err)
	}
	return h
}
