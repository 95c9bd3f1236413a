package render

import "strings"

// Text writes one line per grid row with the tile names of each cell
// separated by ", ". Unresolved cells print as "?".
func Text(snap Snapshot, names []string) string {
	var sb strings.Builder
	observed := snap.Observed()
	width := snap.Width()

	for y := 0; y < snap.Height(); y++ {
		for x := 0; x < width; x++ {
			if x > 0 {
				sb.WriteString(", ")
			}
			if t := resolved(snap, observed, x+y*width); t >= 0 {
				sb.WriteString(names[t])
			} else {
				sb.WriteString("?")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
