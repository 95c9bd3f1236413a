package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainTileset = "tilewave/tileset/v1"
	DomainGrid    = "tilewave/grid/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// TilesetHash identifies a compiled configuration.
// Two tilesets with equal variants, weights and propagator hash equal,
// regardless of how their catalogs were written.
func TilesetHash(ts *Tileset) (string, error) {
	variants := make([]any, len(ts.Variants))
	for i, v := range ts.Variants {
		variants[i] = map[string]any{
			"name":   v.Name,
			"weight": FormatWeight(v.Weight),
		}
	}
	prop := make([]any, 4)
	for d := range ts.Propagator {
		lists := make([]any, len(ts.Propagator[d]))
		for t, l := range ts.Propagator[d] {
			lists[t] = l
		}
		prop[d] = lists
	}

	canonical, err := MarshalCanonical(map[string]any{
		"variants":   variants,
		"propagator": prop,
	})
	if err != nil {
		return "", fmt.Errorf("TilesetHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTileset, canonical), nil
}

// GridHash identifies an observed grid. Unresolved cells are -1.
func GridHash(width, height int, observed []int) (string, error) {
	canonical, err := MarshalCanonical(map[string]any{
		"width":    width,
		"height":   height,
		"observed": observed,
	})
	if err != nil {
		return "", fmt.Errorf("GridHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainGrid, canonical), nil
}

// MustGridHash is like GridHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustGridHash(width, height int, observed []int) string {
	h, err := GridHash(width, height, observed)
	if err != nil {
		panic(err)
	}
	return h
}
