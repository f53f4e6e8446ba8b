package parse

import (
	"fmt"
	"regexp"
	"strings"
)

// PlateLength is the fixed length of a normalized plate.
const PlateLength = 7

var (
	plateRe      = regexp.MustCompile(`^[A-Z0-9]{7}$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizePlate canonicalizes a raw plate string: whitespace and separator
// hyphens are stripped and letters uppercased, so "abc-1234" and " ABC 1234 "
// both normalize to "ABC1234". Returns an error when the result is not
// exactly PlateLength alphanumeric characters.
func NormalizePlate(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, "-", "")
	s = whitespaceRe.ReplaceAllString(s, "")

	if !plateRe.MatchString(s) {
		return "", fmt.Errorf("invalid plate %q: expected %d alphanumeric characters", raw, PlateLength)
	}
	return s, nil
}
