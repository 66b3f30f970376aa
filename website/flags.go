package website

import (
	"strings"

	"github.com/biter777/countries"
)

// FlagEmoji maps a country name to its flag emoji via the ISO alpha-2 code.
// Multi-country strings ("USA, United Kingdom") use the first entry; an
// unrecognized name yields the empty string so the page renders no flag.
func FlagEmoji(country string) string {
	name := strings.TrimSpace(strings.Split(country, ",")[0])
	if name == "" {
		return ""
	}

	code := countries.ByName(name)
	if code == countries.Unknown {
		return ""
	}

	var b strings.Builder
	for _, r := range code.Alpha2() {
		// Each letter maps to its regional indicator symbol
		b.WriteRune(0x1F1E6 + (r - 'A'))
	}
	return b.String()
}
