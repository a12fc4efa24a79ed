package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/internal/scrapeerr"
	"github.com/coko7/vegapull/lib/textutil"
)

const (
	STRATEGY_SINGLE_LABEL        = "single-label"
	STRATEGY_GLYPH_DECOMPOSITION = "glyph-decomposition"
	STRATEGY_SLASH_SPLIT         = "slash-split"
	STRATEGY_ICON_FILENAME       = "icon-filename"
	STRATEGY_ALT_TEXT            = "alt-text"
	STRATEGY_NO_ICON             = "no-icon"
)

func unknownLabel(labels *localizer.Localizer, domain localizer.Domain, field, value string) error {
	err := &scrapeerr.DecodeError{
		Field:  field,
		Value:  value,
		Reason: fmt.Sprintf("no %s label matches", domain),
	}
	suggestion, ok := labels.Suggest(domain, value)
	if ok {
		err.Suggestion = suggestion
	}
	return err
}

// resolve maps a displayed label to a closed enum value through the
// localizer. A key the locale file knows but the enum does not is reported
// as a decode error too.
func resolve[T ~string](
	labels *localizer.Localizer,
	domain localizer.Domain,
	field string,
	value string,
	parse func(string) (T, error),
) (T, error) {
	var zero T
	key, ok := labels.Match(domain, value)
	if !ok {
		return zero, unknownLabel(labels, domain, field, value)
	}
	out, err := parse(key)
	if err != nil {
		return zero, &scrapeerr.DecodeError{Field: field, Value: value, Reason: err.Error()}
	}
	return out, nil
}

// DecodeRarity is a direct lookup of the displayed rarity label.
func DecodeRarity(labels *localizer.Localizer, raw string) (Rarity, error) {
	return resolve(labels, localizer.DOMAIN_RARITIES, "rarity", strings.TrimSpace(raw), ParseRarity)
}

// DecodeCategory is a direct lookup of the displayed category label.
func DecodeCategory(labels *localizer.Localizer, raw string) (Category, error) {
	return resolve(labels, localizer.DOMAIN_CATEGORIES, "category", strings.TrimSpace(raw), ParseCategory)
}

func appendUnique[T comparable](list []T, v T) []T {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

func colorStrategies(labels *localizer.Localizer) []strategy[string, []Color] {
	return []strategy[string, []Color]{
		{
			name: STRATEGY_SINGLE_LABEL,
			decode: func(v string) ([]Color, error) {
				if strings.Contains(v, "/") {
					return nil, errNotApplicable
				}
				color, err := resolve(labels, localizer.DOMAIN_COLORS, "colors", v, ParseColor)
				if err != nil {
					return nil, err
				}
				return []Color{color}, nil
			},
		},
		{
			// some locales render multicolor cards as one run of glyphs,
			// e.g. 赤緑
			name: STRATEGY_GLYPH_DECOMPOSITION,
			decode: func(v string) ([]Color, error) {
				if strings.Contains(v, "/") || utf8.RuneCountInString(v) < 2 {
					return nil, errNotApplicable
				}
				var colors []Color
				for _, glyph := range v {
					key, ok := labels.MatchColor(string(glyph))
					if !ok {
						continue
					}
					color, err := ParseColor(key)
					if err != nil {
						return nil, &scrapeerr.DecodeError{Field: "colors", Value: string(glyph), Reason: err.Error()}
					}
					colors = appendUnique(colors, color)
				}
				if len(colors) == 0 {
					return nil, &scrapeerr.DecodeError{Field: "colors", Value: v, Reason: "no glyph matches a color"}
				}
				return colors, nil
			},
		},
		{
			name: STRATEGY_SLASH_SPLIT,
			decode: func(v string) ([]Color, error) {
				var colors []Color
				for _, token := range strings.Split(v, "/") {
					token = strings.TrimSpace(token)
					if token == "" {
						return nil, &scrapeerr.DecodeError{Field: "colors", Value: v, Reason: "empty color segment"}
					}
					color, err := resolve(labels, localizer.DOMAIN_COLORS, "colors", token, ParseColor)
					if err != nil {
						return nil, err
					}
					colors = appendUnique(colors, color)
				}
				return colors, nil
			},
		},
	}
}

// DecodeColors decodes the inner html of the color block, it returns the
// colors in display order and the name of the strategy that decoded them.
func DecodeColors(labels *localizer.Localizer, fragment string) ([]Color, string, error) {
	v := textutil.Normalize(fragment)
	if v == "" {
		return nil, "", &scrapeerr.DecodeError{Field: "colors", Value: fragment, Reason: "a card has at least one color"}
	}
	return firstOf(v, colorStrategies(labels)...)
}

// AttributeIcon is what the attribute block exposes: the icon src and its
// alt text, nil when the attribute is missing altogether.
type AttributeIcon struct {
	Src string
	Alt *string
}

var iconCodes = map[string][]Attribute{
	"01": {ATTRIBUTE_STRIKE},
	"02": {ATTRIBUTE_SLASH},
	"03": {ATTRIBUTE_SPECIAL},
	"04": {ATTRIBUTE_RANGED},
	"05": {ATTRIBUTE_WISDOM},
	"06": {ATTRIBUTE_SLASH, ATTRIBUTE_STRIKE},
	"07": {ATTRIBUTE_SLASH, ATTRIBUTE_SPECIAL},
	"08": {ATTRIBUTE_STRIKE, ATTRIBUTE_RANGED},
	"09": {ATTRIBUTE_STRIKE, ATTRIBUTE_SPECIAL},
	"10": {ATTRIBUTE_STRIKE, ATTRIBUTE_WISDOM},
	"11": {ATTRIBUTE_SLASH, ATTRIBUTE_WISDOM},
	"12": {ATTRIBUTE_UNKNOWN},
}

const iconPrefix = "ico_type"

// FromIconCode maps the numeric code of an attribute icon, e.g. "07".
func FromIconCode(code string) ([]Attribute, error) {
	attributes, ok := iconCodes[code]
	if !ok {
		return nil, &scrapeerr.DecodeError{Field: "attributes", Value: code, Reason: "unsupported icon code"}
	}
	return slices.Clone(attributes), nil
}

// FromIconURL decodes an icon url like
// `../images/cardlist/attribute/ico_type07.png?240920`, the file name alone
// carries the attributes so this works the same in every locale.
func FromIconURL(iconURL string) ([]Attribute, error) {
	file := iconURL
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}
	file, _, _ = strings.Cut(file, "?")

	stem, ok := strings.CutPrefix(file, iconPrefix)
	if !ok {
		return nil, &scrapeerr.DecodeError{
			Field:  "attributes",
			Value:  iconURL,
			Reason: fmt.Sprintf("missing %s prefix", iconPrefix),
		}
	}
	code, _, _ := strings.Cut(stem, ".")
	return FromIconCode(code)
}

func attributeStrategies(labels *localizer.Localizer) []strategy[AttributeIcon, []Attribute] {
	return []strategy[AttributeIcon, []Attribute]{
		{
			name: STRATEGY_ICON_FILENAME,
			decode: func(icon AttributeIcon) ([]Attribute, error) {
				if icon.Src == "" {
					return nil, errNotApplicable
				}
				return FromIconURL(icon.Src)
			},
		},
		{
			name: STRATEGY_ALT_TEXT,
			decode: func(icon AttributeIcon) ([]Attribute, error) {
				if icon.Alt == nil {
					return nil, &scrapeerr.DecodeError{
						Field:  "attributes",
						Value:  icon.Src,
						Reason: "icon not recognized and no alt text to fall back on",
					}
				}
				alt := strings.TrimSpace(*icon.Alt)
				// the site marks "no attribute" with an empty alt
				if alt == "" {
					return []Attribute{}, nil
				}

				var attributes []Attribute
				for _, segment := range strings.Split(alt, "/") {
					attribute, err := resolve(
						labels,
						localizer.DOMAIN_ATTRIBUTES,
						"attributes",
						strings.TrimSpace(segment),
						ParseAttribute,
					)
					if err != nil {
						return nil, err
					}
					attributes = appendUnique(attributes, attribute)
				}
				return attributes, nil
			},
		},
	}
}

// DecodeAttributes decodes the attribute icon of a card, the icon filename
// is preferred and the alt text is the fallback. A card without an icon has
// no attributes.
func DecodeAttributes(labels *localizer.Localizer, icon *AttributeIcon) ([]Attribute, string, error) {
	if icon == nil {
		return []Attribute{}, STRATEGY_NO_ICON, nil
	}
	return firstOf(*icon, attributeStrategies(labels)...)
}

// DecodeNumber decodes cost, power and counter blocks. The unset sentinel,
// an empty block and a block without any digit all decode to nil.
func DecodeNumber(field, fragment string) (*int, error) {
	v := textutil.Normalize(fragment)
	if v == "" || textutil.IsUnsetSentinel(v) {
		return nil, nil
	}

	// some locales put a word next to the value, e.g. カウンター1000
	digits := textutil.Digits(v)
	if digits == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil, &scrapeerr.DecodeError{Field: field, Value: v, Reason: err.Error()}
	}
	return &n, nil
}

// DecodeTypes splits the `/` separated type line, blank entries are dropped.
func DecodeTypes(fragment string) []string {
	types := []string{}
	for _, t := range strings.Split(textutil.PlainText(fragment), "/") {
		t = strings.TrimSpace(t)
		if t != "" {
			types = append(types, t)
		}
	}
	return types
}
