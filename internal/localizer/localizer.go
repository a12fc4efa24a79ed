// Package localizer resolves the labels a locale's catalog displays (e.g.
// "Slash", "斬", "Taille") back to canonical keys (e.g. "slash").
//
// Every locale ships a TOML definition holding the site hostname, one
// key -> label table per domain, and optional key -> aliases tables that
// absorb label drift between site releases without rewriting the primary
// tables.
package localizer

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/antzucaro/matchr"
	"github.com/coko7/vegapull/internal/scrapeerr"
)

type Domain string

const (
	DOMAIN_COLORS     Domain = "colors"
	DOMAIN_ATTRIBUTES Domain = "attributes"
	DOMAIN_CATEGORIES Domain = "categories"
	DOMAIN_RARITIES   Domain = "rarities"
)

var Domains = []Domain{
	DOMAIN_COLORS,
	DOMAIN_ATTRIBUTES,
	DOMAIN_CATEGORIES,
	DOMAIN_RARITIES,
}

type Aliases struct {
	Colors     map[string][]string `toml:"colors"`
	Attributes map[string][]string `toml:"attributes"`
	Categories map[string][]string `toml:"categories"`
	Rarities   map[string][]string `toml:"rarities"`
}

// Localizer is read-only once loaded and safe to share between goroutines.
type Localizer struct {
	Hostname string `toml:"hostname"`

	Colors     map[string]string `toml:"colors"`
	Attributes map[string]string `toml:"attributes"`
	Categories map[string]string `toml:"categories"`
	Rarities   map[string]string `toml:"rarities"`

	Aliases Aliases `toml:"aliases"`
}

func (l *Localizer) tables(domain Domain) (map[string]string, map[string][]string) {
	switch domain {
	case DOMAIN_COLORS:
		return l.Colors, l.Aliases.Colors
	case DOMAIN_ATTRIBUTES:
		return l.Attributes, l.Aliases.Attributes
	case DOMAIN_CATEGORIES:
		return l.Categories, l.Aliases.Categories
	case DOMAIN_RARITIES:
		return l.Rarities, l.Aliases.Rarities
	}
	return nil, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// matchWithAlias looks the trimmed value up in the primary table first
// (exact), then in the alias lists (exact or case-insensitive). Keys are
// visited in sorted order so that overlapping labels resolve the same way
// on every run.
func matchWithAlias(primary map[string]string, aliases map[string][]string, value string) (string, bool) {
	v := strings.TrimSpace(value)

	for _, key := range sortedKeys(primary) {
		if primary[key] == v {
			return key, true
		}
	}

	// EqualFold only folds scripts that have case, everything else
	// degrades to an exact comparison.
	for _, key := range sortedKeys(aliases) {
		for _, alias := range aliases[key] {
			if alias == v || strings.EqualFold(alias, v) {
				return key, true
			}
		}
	}

	return "", false
}

// Match resolves a displayed label of the given domain to its canonical key.
func (l *Localizer) Match(domain Domain, value string) (string, bool) {
	primary, aliases := l.tables(domain)
	return matchWithAlias(primary, aliases, value)
}

func (l *Localizer) MatchColor(value string) (string, bool) {
	return l.Match(DOMAIN_COLORS, value)
}

func (l *Localizer) MatchAttribute(value string) (string, bool) {
	return l.Match(DOMAIN_ATTRIBUTES, value)
}

func (l *Localizer) MatchCategory(value string) (string, bool) {
	return l.Match(DOMAIN_CATEGORIES, value)
}

func (l *Localizer) MatchRarity(value string) (string, bool) {
	return l.Match(DOMAIN_RARITIES, value)
}

const suggestionThreshold = 0.7

// Suggest returns the known label closest to value, it only serves to make
// decode errors easier to act on.
func (l *Localizer) Suggest(domain Domain, value string) (string, bool) {
	primary, aliases := l.tables(domain)
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}

	var best string
	var bestScore float64
	consider := func(label string) {
		score := matchr.JaroWinkler(v, label, false)
		if score > bestScore {
			best = label
			bestScore = score
		}
	}
	for _, key := range sortedKeys(primary) {
		consider(primary[key])
	}
	for _, key := range sortedKeys(aliases) {
		for _, alias := range aliases[key] {
			consider(alias)
		}
	}

	if bestScore < suggestionThreshold {
		return "", false
	}
	return best, true
}

func (l *Localizer) validate() error {
	var errs []error
	if l.Hostname == "" {
		errs = append(errs, fmt.Errorf("missing hostname"))
	}
	for _, domain := range Domains {
		primary, _ := l.tables(domain)
		if len(primary) == 0 {
			errs = append(errs, fmt.Errorf("missing [%s] table", domain))
		}
	}
	return errors.Join(errs...)
}

// Parse decodes a locale definition, `path` is only used for error context.
func Parse(path string, data []byte) (*Localizer, error) {
	var out Localizer
	_, err := toml.Decode(string(data), &out)
	if err != nil {
		return nil, &scrapeerr.ConfigError{Path: path, Err: err}
	}
	err = out.validate()
	if err != nil {
		return nil, &scrapeerr.ConfigError{Path: path, Err: err}
	}
	out.Hostname = strings.TrimRight(out.Hostname, "/")
	return &out, nil
}
