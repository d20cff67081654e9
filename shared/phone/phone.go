package phone

import "strings"

// Normalize strips spaces, dashes and parentheses from a phone number so
// the same guest entered with different formatting still matches.
// Normalizing an already normalized number is a no-op.
func Normalize(number string) string {
	var builder strings.Builder

	builder.Grow(len(number))

	for _, r := range number {
		switch r {
		case ' ', '-', '(', ')':
			continue
		default:
			builder.WriteRune(r)
		}
	}

	return builder.String()
}
