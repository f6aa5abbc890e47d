package normalization

import (
	"strings"
)

func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// CollapseSpaces additionally squeezes internal runs of whitespace, for keys
// that must match across clients typing the same thing differently.
func CollapseSpaces(input string) string {
	return strings.Join(strings.Fields(ParseInputString(input)), " ")
}
