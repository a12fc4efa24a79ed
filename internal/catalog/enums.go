package catalog

import (
	"fmt"
	"strings"
)

type Color string

const (
	COLOR_RED    Color = "red"
	COLOR_GREEN  Color = "green"
	COLOR_BLUE   Color = "blue"
	COLOR_PURPLE Color = "purple"
	COLOR_BLACK  Color = "black"
	COLOR_YELLOW Color = "yellow"
)

var Colors = []Color{
	COLOR_RED,
	COLOR_GREEN,
	COLOR_BLUE,
	COLOR_PURPLE,
	COLOR_BLACK,
	COLOR_YELLOW,
}

type Attribute string

const (
	ATTRIBUTE_SLASH   Attribute = "slash"
	ATTRIBUTE_STRIKE  Attribute = "strike"
	ATTRIBUTE_RANGED  Attribute = "ranged"
	ATTRIBUTE_SPECIAL Attribute = "special"
	ATTRIBUTE_WISDOM  Attribute = "wisdom"
	// only ever decoded from the icon, no locale has a label for it
	ATTRIBUTE_UNKNOWN Attribute = "unknown"
)

var Attributes = []Attribute{
	ATTRIBUTE_SLASH,
	ATTRIBUTE_STRIKE,
	ATTRIBUTE_RANGED,
	ATTRIBUTE_SPECIAL,
	ATTRIBUTE_WISDOM,
	ATTRIBUTE_UNKNOWN,
}

type Rarity string

const (
	RARITY_COMMON        Rarity = "common"
	RARITY_UNCOMMON      Rarity = "uncommon"
	RARITY_RARE          Rarity = "rare"
	RARITY_SUPER_RARE    Rarity = "super_rare"
	RARITY_SECRET_RARE   Rarity = "secret_rare"
	RARITY_LEADER        Rarity = "leader"
	RARITY_SPECIAL       Rarity = "special"
	RARITY_TREASURE_RARE Rarity = "treasure_rare"
	RARITY_PROMO         Rarity = "promo"
)

var Rarities = []Rarity{
	RARITY_COMMON,
	RARITY_UNCOMMON,
	RARITY_RARE,
	RARITY_SUPER_RARE,
	RARITY_SECRET_RARE,
	RARITY_LEADER,
	RARITY_SPECIAL,
	RARITY_TREASURE_RARE,
	RARITY_PROMO,
}

type Category string

const (
	CATEGORY_LEADER    Category = "leader"
	CATEGORY_CHARACTER Category = "character"
	CATEGORY_EVENT     Category = "event"
	CATEGORY_STAGE     Category = "stage"
	CATEGORY_DON       Category = "don"
)

var Categories = []Category{
	CATEGORY_LEADER,
	CATEGORY_CHARACTER,
	CATEGORY_EVENT,
	CATEGORY_STAGE,
	CATEGORY_DON,
}

func parseClosed[T ~string](kind string, set []T, key string) (T, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, v := range set {
		if string(v) == k {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unsupported %s `%s`", kind, key)
}

// ParseColor converts a canonical key into a Color, case-insensitively.
func ParseColor(key string) (Color, error) {
	return parseClosed("color", Colors, key)
}

func ParseAttribute(key string) (Attribute, error) {
	return parseClosed("attribute", Attributes, key)
}

func ParseRarity(key string) (Rarity, error) {
	return parseClosed("rarity", Rarities, key)
}

func ParseCategory(key string) (Category, error) {
	return parseClosed("category", Categories, key)
}
