// Package render draws a solver state as a PNG raster, a text grid, or a
// block of coloured terminal cells.
//
// Resolved cells show their tile; unresolved cells show the candidates
// blended by weight, so partial runs (step limit reached, contradiction)
// still render.
package render
