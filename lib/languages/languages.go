// Package languages maps the display names the marketing site uses for
// course languages onto IETF language tag codes. The marketing site
// stores languages as free-text taxonomy names, so the mapping is a
// fixed table rather than a parse.
package languages

import "strings"

var nameToCode = map[string]string{
	"English":            "en-us",
	"日本語":                "ja",
	"繁體中文":               "zh-Hant",
	"Indonesian":         "id",
	"Italian":            "it-it",
	"Korean":             "ko",
	"Simplified Chinese": "zh-Hans",
	"Deutsch":            "de-de",
	"Español":            "es-es",
	"Français":           "fr-fr",
	"Nederlands":         "nl-nl",
	"Português":          "pt-pt",
	"Pусский":            "ru",
	"Svenska":            "sv-se",
	"Türkçe":             "tr",
	"العربية":            "ar-sa",
	"हिंदी":              "hi",
	"中文":                 "zh-cmn",
}

// CodeForName resolves a marketing-site language name to a language
// tag code. Unknown names resolve to ("", false).
func CodeForName(name string) (string, bool) {
	code, ok := nameToCode[strings.TrimSpace(name)]
	return code, ok
}

// CodesForNames resolves a list of names, dropping any that do not
// match the table. Order follows the input.
func CodesForNames(names []string) []string {
	var codes []string
	for _, name := range names {
		if code, ok := CodeForName(name); ok {
			codes = append(codes, code)
		}
	}
	return codes
}

// All returns every known code -> name pair, used to seed reference
// rows.
func All() map[string]string {
	out := make(map[string]string, len(nameToCode))
	for name, code := range nameToCode {
		out[code] = name
	}
	return out
}
