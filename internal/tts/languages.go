package tts

import "slices"

// supportedLanguages is the locale table accepted by the Microsoft platform.
// Order is significant: it is what SupportedLanguages returns.
var supportedLanguages = []string{
	"ar-eg",
	"ar-sa",
	"ca-es",
	"cs-cz",
	"da-dk",
	"de-at",
	"de-ch",
	"de-de",
	"el-gr",
	"en-au",
	"en-ca",
	"en-gb",
	"en-ie",
	"en-in",
	"en-us",
	"es-es",
	"es-mx",
	"fi-fi",
	"fr-ca",
	"fr-ch",
	"fr-fr",
	"he-il",
	"hi-in",
	"hu-hu",
	"id-id",
	"it-it",
	"ja-jp",
	"ko-kr",
	"nb-no",
	"nl-nl",
	"pl-pl",
	"pt-br",
	"pt-pt",
	"ro-ro",
	"ru-ru",
	"sk-sk",
	"sv-se",
	"th-th",
	"tr-tr",
	"zh-cn",
	"zh-hk",
	"zh-tw",
}

// DefaultLanguage is the language used when none is configured
const DefaultLanguage = "en-us"

// SupportedLanguages returns a copy of the locale table
func SupportedLanguages() []string {
	return slices.Clone(supportedLanguages)
}
