// Package ir provides the intermediate representation shared by the tile
// compiler, the wave engine, the renderers and the attempt log.
//
// This package contains type definitions and canonical serialization only.
// All other internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Variants are addressed by dense indices 0..T-1 in declaration order
//   - A compiled Tileset is immutable once built
//   - Canonical JSON (sorted keys, NFC strings, no floats) is the only
//     serialization used for content hashes
package ir
