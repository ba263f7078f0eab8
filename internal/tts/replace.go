package tts

import "strings"

// umlautReplacer maps the German umlauts to numeric character references.
// Nothing else is escaped: '<', '>' and '&' reach the endpoint untouched.
var umlautReplacer = strings.NewReplacer(
	"ä", "&#228;",
	"ö", "&#246;",
	"ü", "&#252;",
	"Ä", "&#196;",
	"Ö", "&#214;",
	"Ü", "&#220;",
)

// ReplaceUmlauts returns text with ä, ö, ü, Ä, Ö and Ü replaced by their
// numeric character references
func ReplaceUmlauts(text string) string {
	return umlautReplacer.Replace(text)
}
