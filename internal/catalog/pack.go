package catalog

import (
	"regexp"
	"strings"
)

type TitleParts struct {
	Prefix *string `json:"prefix"`
	Title  string  `json:"title"`
	Label  *string `json:"label"`
}

// Pack is one entry of the series selector, ID is the value sent back as the
// `series` query parameter to list its cards.
type Pack struct {
	ID         string     `json:"id"`
	RawTitle   string     `json:"raw_title"`
	TitleParts TitleParts `json:"title_parts"`
}

func NewPack(id, rawTitle string) Pack {
	return Pack{
		ID:         id,
		RawTitle:   rawTitle,
		TitleParts: ParsePackTitle(rawTitle),
	}
}

// trailing [OP-01] or 【OP-01】
var labelRegex = regexp.MustCompile(`\s*(?:\[([^\]]*)\]|【([^】]*)】)\s*$`)

// prefix followed by a -TITLE- block, e.g. "BOOSTER PACK -ROMANCE DAWN-"
var dashedTitleRegex = regexp.MustCompile(`^(.*?)\s*-(.+)-$`)

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ParsePackTitle splits a series option label into its parts:
//
//	BOOSTER PACK -ROMANCE DAWN- [OP-01] -> BOOSTER PACK / ROMANCE DAWN / OP-01
//	Promotion card                      -> nil / Promotion card / nil
func ParsePackTitle(raw string) TitleParts {
	rest := strings.TrimSpace(raw)

	var parts TitleParts
	match := labelRegex.FindStringSubmatchIndex(rest)
	if match != nil {
		label := rest[max(match[2], match[4]):max(match[3], match[5])]
		parts.Label = optional(label)
		rest = strings.TrimSpace(rest[:match[0]])
	}

	titleMatch := dashedTitleRegex.FindStringSubmatch(rest)
	if titleMatch != nil {
		parts.Prefix = optional(titleMatch[1])
		parts.Title = strings.TrimSpace(titleMatch[2])
		return parts
	}

	parts.Title = rest
	return parts
}
