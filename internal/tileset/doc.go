// Package tileset loads tile bitmaps for a compiled tileset.
//
// Bitmaps are square PNGs, one per base tile ("<dir>/<name>.png") with the
// other variants derived by rotation and reflection, or one per variant
// ("<dir>/<name> <k>.png") when the catalog is marked unique. Pixels are
// kept as packed ARGB words.
package tileset
