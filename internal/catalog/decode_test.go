package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/internal/scrapeerr"
	"github.com/stretchr/testify/require"
)

func mustLocale(t *testing.T, lang localizer.Language) *localizer.Localizer {
	t.Helper()
	l, err := localizer.Default(lang)
	require.NoError(t, err)
	return l
}

func intPtr(n int) *int {
	return &n
}

func TestFromIconURL(t *testing.T) {
	table := []struct {
		code     string
		expected []Attribute
	}{
		{"01", []Attribute{ATTRIBUTE_STRIKE}},
		{"02", []Attribute{ATTRIBUTE_SLASH}},
		{"03", []Attribute{ATTRIBUTE_SPECIAL}},
		{"04", []Attribute{ATTRIBUTE_RANGED}},
		{"05", []Attribute{ATTRIBUTE_WISDOM}},
		{"06", []Attribute{ATTRIBUTE_SLASH, ATTRIBUTE_STRIKE}},
		{"07", []Attribute{ATTRIBUTE_SLASH, ATTRIBUTE_SPECIAL}},
		{"08", []Attribute{ATTRIBUTE_STRIKE, ATTRIBUTE_RANGED}},
		{"09", []Attribute{ATTRIBUTE_STRIKE, ATTRIBUTE_SPECIAL}},
		{"10", []Attribute{ATTRIBUTE_STRIKE, ATTRIBUTE_WISDOM}},
		{"11", []Attribute{ATTRIBUTE_SLASH, ATTRIBUTE_WISDOM}},
		{"12", []Attribute{ATTRIBUTE_UNKNOWN}},
	}

	for _, row := range table {
		url := "../images/cardlist/attribute/ico_type" + row.code + ".png?240920"
		attributes, err := FromIconURL(url)
		require.NoError(t, err, row.code)
		require.Equal(t, row.expected, attributes, row.code)
	}

	for _, url := range []string{
		"/images/cardlist/attribute/ico_type00.png",
		"/images/cardlist/attribute/ico_type13.png",
		"/images/cardlist/attribute/ico_type1.png",
		"/images/cardlist/attribute/icon02.png",
		"",
	} {
		_, err := FromIconURL(url)
		var decodeErr *scrapeerr.DecodeError
		require.True(t, errors.As(err, &decodeErr), url)
	}
}

func TestFromIconCodeReturnsCopy(t *testing.T) {
	attributes, err := FromIconCode("06")
	require.NoError(t, err)
	attributes[0] = ATTRIBUTE_WISDOM

	again, err := FromIconCode("06")
	require.NoError(t, err)
	require.Equal(t, []Attribute{ATTRIBUTE_SLASH, ATTRIBUTE_STRIKE}, again)
}

func TestDecodeNumber(t *testing.T) {
	table := []struct {
		input    string
		expected *int
	}{
		{input: "<h3>Cost</h3>-", expected: nil},
		{input: "<h3>Cost</h3>–", expected: nil},
		{input: "", expected: nil},
		{input: "<h3>Power</h3>", expected: nil},
		{input: "<h3>Power</h3>1,000", expected: intPtr(1000)},
		{input: "<h3>Power</h3>１２，０００", expected: intPtr(12000)},
		{input: "<h3>Counter</h3>カウンター1000", expected: intPtr(1000)},
		{input: "<h3>Cost</h3>5<span class=\"ruby\">5</span>", expected: intPtr(5)},
		{input: "<h3>Life</h3>vie", expected: nil},
		{input: "0", expected: intPtr(0)},
	}

	for _, row := range table {
		n, err := DecodeNumber("power", row.input)
		require.NoError(t, err, row.input)
		require.Equal(t, row.expected, n, row.input)
	}

	_, err := DecodeNumber("power", strings.Repeat("9", 40))
	var decodeErr *scrapeerr.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "power", decodeErr.Field)
}

func TestDecodeColors(t *testing.T) {
	en := mustLocale(t, localizer.LANGUAGE_ENGLISH)
	jp := mustLocale(t, localizer.LANGUAGE_JAPANESE)

	table := []struct {
		name     string
		labels   *localizer.Localizer
		input    string
		expected []Color
		strategy string
	}{
		{
			name:     "single",
			labels:   en,
			input:    "<h3>Color</h3>Red",
			expected: []Color{COLOR_RED},
			strategy: STRATEGY_SINGLE_LABEL,
		},
		{
			name:     "slash separated",
			labels:   en,
			input:    "<h3>Color</h3>Red/Green",
			expected: []Color{COLOR_RED, COLOR_GREEN},
			strategy: STRATEGY_SLASH_SPLIT,
		},
		{
			name:     "alias",
			labels:   en,
			input:    "<h3>Color</h3>purple / BLACK",
			expected: []Color{COLOR_PURPLE, COLOR_BLACK},
			strategy: STRATEGY_SLASH_SPLIT,
		},
		{
			name:     "glyphs",
			labels:   jp,
			input:    "<h3>色</h3>赤緑",
			expected: []Color{COLOR_RED, COLOR_GREEN},
			strategy: STRATEGY_GLYPH_DECOMPOSITION,
		},
		{
			name:     "glyphs deduplicated in order",
			labels:   jp,
			input:    "<h3>色</h3>黄青黄",
			expected: []Color{COLOR_YELLOW, COLOR_BLUE},
			strategy: STRATEGY_GLYPH_DECOMPOSITION,
		},
		{
			name:     "single glyph",
			labels:   jp,
			input:    "<h3>色</h3>紫",
			expected: []Color{COLOR_PURPLE},
			strategy: STRATEGY_SINGLE_LABEL,
		},
		{
			name:     "slash separated glyphs",
			labels:   jp,
			input:    "<h3>色</h3>赤/黒",
			expected: []Color{COLOR_RED, COLOR_BLACK},
			strategy: STRATEGY_SLASH_SPLIT,
		},
	}

	for _, row := range table {
		colors, strategy, err := DecodeColors(row.labels, row.input)
		require.NoError(t, err, row.name)
		require.Equal(t, row.expected, colors, row.name)
		require.Equal(t, row.strategy, strategy, row.name)
	}
}

func TestDecodeColorsFailures(t *testing.T) {
	en := mustLocale(t, localizer.LANGUAGE_ENGLISH)

	_, _, err := DecodeColors(en, "<h3>Color</h3>Red/Pink")
	var decodeErr *scrapeerr.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "Pink", decodeErr.Value)

	_, _, err = DecodeColors(en, "<h3>Color</h3>Redd")
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "Red", decodeErr.Suggestion)

	_, _, err = DecodeColors(en, "<h3>Color</h3>")
	require.True(t, errors.As(err, &decodeErr))

	_, _, err = DecodeColors(en, "<h3>Color</h3>Red/")
	require.True(t, errors.As(err, &decodeErr))
}

func TestDecodeAttributes(t *testing.T) {
	en := mustLocale(t, localizer.LANGUAGE_ENGLISH)
	fr := mustLocale(t, localizer.LANGUAGE_FRENCH)

	str := func(s string) *string { return &s }

	table := []struct {
		name     string
		labels   *localizer.Localizer
		icon     *AttributeIcon
		expected []Attribute
		strategy string
	}{
		{
			name:     "no icon",
			labels:   en,
			icon:     nil,
			expected: []Attribute{},
			strategy: STRATEGY_NO_ICON,
		},
		{
			name:     "icon",
			labels:   en,
			icon:     &AttributeIcon{Src: "../images/cardlist/attribute/ico_type06.png", Alt: str("Slash/Strike")},
			expected: []Attribute{ATTRIBUTE_SLASH, ATTRIBUTE_STRIKE},
			strategy: STRATEGY_ICON_FILENAME,
		},
		{
			name:     "alt fallback",
			labels:   fr,
			icon:     &AttributeIcon{Src: "../images/cardlist/attribute/attr_new.png", Alt: str("Taille/Sagesse")},
			expected: []Attribute{ATTRIBUTE_SLASH, ATTRIBUTE_WISDOM},
			strategy: STRATEGY_ALT_TEXT,
		},
		{
			name:     "alt fallback without src",
			labels:   en,
			icon:     &AttributeIcon{Alt: str("range")},
			expected: []Attribute{ATTRIBUTE_RANGED},
			strategy: STRATEGY_ALT_TEXT,
		},
		{
			name:     "empty alt",
			labels:   en,
			icon:     &AttributeIcon{Src: "../images/blank.png", Alt: str("")},
			expected: []Attribute{},
			strategy: STRATEGY_ALT_TEXT,
		},
	}

	for _, row := range table {
		attributes, strategy, err := DecodeAttributes(row.labels, row.icon)
		require.NoError(t, err, row.name)
		require.Equal(t, row.expected, attributes, row.name)
		require.Equal(t, row.strategy, strategy, row.name)
	}
}

func TestDecodeAttributesFailures(t *testing.T) {
	en := mustLocale(t, localizer.LANGUAGE_ENGLISH)
	unknown := "Sword"

	_, _, err := DecodeAttributes(en, &AttributeIcon{Src: "../images/blank.png"})
	var decodeErr *scrapeerr.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Contains(t, err.Error(), STRATEGY_ALT_TEXT)

	_, _, err = DecodeAttributes(en, &AttributeIcon{Src: "../images/blank.png", Alt: &unknown})
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "Sword", decodeErr.Value)
}

func TestDecodeRarityAndCategory(t *testing.T) {
	en := mustLocale(t, localizer.LANGUAGE_ENGLISH)

	rarity, err := DecodeRarity(en, " SEC ")
	require.NoError(t, err)
	require.Equal(t, RARITY_SECRET_RARE, rarity)

	rarity, err = DecodeRarity(en, "SP")
	require.NoError(t, err)
	require.Equal(t, RARITY_SPECIAL, rarity)

	category, err := DecodeCategory(en, "DON!!")
	require.NoError(t, err)
	require.Equal(t, CATEGORY_DON, category)

	_, err = DecodeRarity(en, "XR")
	var decodeErr *scrapeerr.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "rarity", decodeErr.Field)

	_, err = DecodeCategory(en, "CHARACTRE")
	require.True(t, errors.As(err, &decodeErr))
	require.Equal(t, "CHARACTER", decodeErr.Suggestion)
}

func TestDecodeLabelWithUnknownKey(t *testing.T) {
	labels := &localizer.Localizer{
		Hostname:   "https://example.com",
		Colors:     map[string]string{"pink": "Pink"},
		Attributes: map[string]string{},
		Categories: map[string]string{},
		Rarities:   map[string]string{},
	}

	_, _, err := DecodeColors(labels, "Pink")
	var decodeErr *scrapeerr.DecodeError
	require.True(t, errors.As(err, &decodeErr))
	require.Contains(t, decodeErr.Reason, "unsupported color")
}

func TestDecodeTypes(t *testing.T) {
	require.Equal(
		t,
		[]string{"Straw Hat Crew", "Supernovas"},
		DecodeTypes("<h3>Type</h3>Straw Hat Crew/Supernovas"),
	)
	require.Equal(t, []string{"Navy"}, DecodeTypes(" Navy / "))
	require.Equal(t, []string{}, DecodeTypes("<h3>Type</h3>"))
}
