// Package trackstatus decodes numeric track status codes.
package trackstatus

import "strings"

// tokens by status code:
// C clear (start of session or end of another status), YF yellow flag,
// SC safety car, RF red flag, VSC virtual safety car deployed,
// "VSC end" virtual safety car ending (status 1 marks the actual end)
var tokens = map[rune]string{
	'1': "C",
	'2': "YF",
	'3': "unknown",
	'4': "SC",
	'5': "RF",
	'6': "VSC",
	'7': "VSC end",
}

// Decode maps each code of the concatenated status string to its token.
// Tokens are separated by a single space, unknown characters are dropped.
func Decode(codes string) string {
	parts := make([]string, 0, len(codes))
	for _, c := range codes {
		if t, ok := tokens[c]; ok {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}
