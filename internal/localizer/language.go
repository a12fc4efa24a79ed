package localizer

import (
	"fmt"
	"strings"
)

type Language string

const (
	LANGUAGE_ENGLISH            Language = "english"
	LANGUAGE_ENGLISH_ASIA       Language = "english-asia"
	LANGUAGE_JAPANESE           Language = "japanese"
	LANGUAGE_FRENCH             Language = "french"
	LANGUAGE_CHINESE_HONGKONG   Language = "chinese-hongkong"
	LANGUAGE_CHINESE_SIMPLIFIED Language = "chinese-simplified"
	LANGUAGE_CHINESE_TAIWAN     Language = "chinese-taiwan"
	LANGUAGE_THAI               Language = "thai"
)

var Languages = []Language{
	LANGUAGE_ENGLISH,
	LANGUAGE_ENGLISH_ASIA,
	LANGUAGE_JAPANESE,
	LANGUAGE_FRENCH,
	LANGUAGE_CHINESE_HONGKONG,
	LANGUAGE_CHINESE_SIMPLIFIED,
	LANGUAGE_CHINESE_TAIWAN,
	LANGUAGE_THAI,
}

// locale codes double as file names for the definitions
var languageCodes = map[Language]string{
	LANGUAGE_ENGLISH:            "en",
	LANGUAGE_ENGLISH_ASIA:       "en_asia",
	LANGUAGE_JAPANESE:           "jp",
	LANGUAGE_FRENCH:             "fr",
	LANGUAGE_CHINESE_HONGKONG:   "zh_hk",
	LANGUAGE_CHINESE_SIMPLIFIED: "zh_cn",
	LANGUAGE_CHINESE_TAIWAN:     "zh_tw",
	LANGUAGE_THAI:               "th",
}

var languageAliases = map[string]Language{
	"en-asia": LANGUAGE_ENGLISH_ASIA,
	"ja":      LANGUAGE_JAPANESE,
	"zh-hk":   LANGUAGE_CHINESE_HONGKONG,
	"zh-cn":   LANGUAGE_CHINESE_SIMPLIFIED,
	"zh-tw":   LANGUAGE_CHINESE_TAIWAN,
}

// Code returns the short locale code, e.g. "en_asia".
func (l Language) Code() string {
	return languageCodes[l]
}

// File returns the definition file name, e.g. "en_asia.toml".
func (l Language) File() string {
	return l.Code() + ".toml"
}

func (l Language) String() string {
	return string(l)
}

// ParseLanguage accepts a language name ("french"), its code ("fr") or one
// of the common spellings of the code ("zh-TW").
func ParseLanguage(value string) (Language, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	for _, lang := range Languages {
		if v == string(lang) || v == lang.Code() {
			return lang, nil
		}
	}
	lang, ok := languageAliases[v]
	if ok {
		return lang, nil
	}
	return "", fmt.Errorf("unsupported language `%s`", value)
}
