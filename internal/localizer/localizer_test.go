package localizer

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coko7/vegapull/internal/scrapeerr"
	"github.com/stretchr/testify/require"
)

func toyLocalizer() *Localizer {
	return &Localizer{
		Hostname: "https://example.com",
		Colors: map[string]string{
			"toto": "Toto",
			"tata": "Tata",
			"tutu": "Tutu",
		},
		Attributes: map[string]string{"slash": "Slash"},
		Categories: map[string]string{"leader": "LEADER"},
		Rarities:   map[string]string{"common": "C"},
		Aliases: Aliases{
			Colors: map[string][]string{
				"toto": {"tOtO", "トト"},
			},
		},
	}
}

func TestMatch(t *testing.T) {
	l := toyLocalizer()

	cases := []struct {
		value string
		key   string
		found bool
	}{
		{"Toto", "toto", true},
		{"  Tata ", "tata", true},
		{"Tutu", "tutu", true},
		{"tOtO", "toto", true},
		{"TOTO", "toto", true},
		{"toto", "toto", true},
		{"トト", "toto", true},
		{"Titi", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		key, found := l.MatchColor(c.value)
		require.Equal(t, c.found, found, c.value)
		require.Equal(t, c.key, key, c.value)
	}
}

func TestMatchPrimaryIsExact(t *testing.T) {
	l := toyLocalizer()
	l.Aliases.Colors = nil

	_, found := l.MatchColor("TOTO")
	require.False(t, found)
}

func TestMatchPrefersPrimaryTable(t *testing.T) {
	l := toyLocalizer()
	l.Aliases.Colors = map[string][]string{
		"tata": {"Toto"},
	}

	key, found := l.MatchColor("Toto")
	require.True(t, found)
	require.Equal(t, "toto", key)
}

func TestSuggest(t *testing.T) {
	l := &Localizer{
		Rarities: map[string]string{
			"common":      "C",
			"super_rare":  "SR",
			"secret_rare": "SEC",
			"special":     "SP CARD",
		},
	}

	label, found := l.Suggest(DOMAIN_RARITIES, "SP CRAD")
	require.True(t, found)
	require.Equal(t, "SP CARD", label)

	_, found = l.Suggest(DOMAIN_RARITIES, "")
	require.False(t, found)

	_, found = l.Suggest(DOMAIN_RARITIES, "zzzzzzzzzz")
	require.False(t, found)
}

func TestEmbeddedLocales(t *testing.T) {
	for _, lang := range Languages {
		l, err := Default(lang)
		require.NoError(t, err, lang)
		require.NotEmpty(t, l.Hostname, lang)

		for _, domain := range Domains {
			primary, aliases := l.tables(domain)
			for key, label := range primary {
				got, found := l.Match(domain, label)
				require.True(t, found, "%s %s %s", lang, domain, label)
				require.Equal(t, key, got, "%s %s %s", lang, domain, label)
			}
			for key, list := range aliases {
				_, known := primary[key]
				require.True(t, known, "%s: alias for unknown key %s.%s", lang, domain, key)
				for _, alias := range list {
					// case folded spellings must land on the same key,
					// scripts without case leave the alias unchanged
					for _, variant := range []string{alias, strings.ToUpper(alias), strings.ToLower(alias)} {
						got, found := l.Match(domain, variant)
						require.True(t, found, "%s %s alias %s", lang, domain, variant)
						require.Equal(t, key, got, "%s %s alias %s", lang, domain, variant)
					}
				}
			}
		}
	}
}

func TestEmbeddedLocalesCoverCanonicalKeys(t *testing.T) {
	keys := map[Domain][]string{
		DOMAIN_COLORS:     {"red", "green", "blue", "purple", "black", "yellow"},
		DOMAIN_ATTRIBUTES: {"slash", "strike", "ranged", "special", "wisdom"},
		DOMAIN_CATEGORIES: {"leader", "character", "event", "stage", "don"},
		DOMAIN_RARITIES: {
			"common", "uncommon", "rare", "super_rare", "secret_rare",
			"leader", "special", "treasure_rare", "promo",
		},
	}

	for _, lang := range Languages {
		l, err := Default(lang)
		require.NoError(t, err)
		for domain, expected := range keys {
			primary, _ := l.tables(domain)
			for _, key := range expected {
				require.Contains(t, primary, key, "%s %s", lang, domain)
			}
		}
	}
}

func TestParse(t *testing.T) {
	valid := `
hostname = "https://example.com/"
[colors]
red = "Red"
[attributes]
slash = "Slash"
[categories]
leader = "LEADER"
[rarities]
common = "C"
[aliases.colors]
red = ["RED"]
`
	l, err := Parse("valid.toml", []byte(valid))
	require.NoError(t, err)
	require.Equal(t, "https://example.com", l.Hostname)
	require.Equal(t, []string{"RED"}, l.Aliases.Colors["red"])

	cases := []struct {
		name string
		data string
	}{
		{"malformed", `hostname = `},
		{"no hostname", "[colors]\nred = \"Red\"\n[attributes]\nslash = \"Slash\"\n[categories]\nleader = \"L\"\n[rarities]\ncommon = \"C\"\n"},
		{"missing table", "hostname = \"https://example.com\"\n[colors]\nred = \"Red\"\n"},
	}
	for _, c := range cases {
		_, err := Parse(c.name, []byte(c.data))
		var cfgErr *scrapeerr.ConfigError
		require.True(t, errors.As(err, &cfgErr), c.name)
		require.Equal(t, c.name, cfgErr.Path)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(LANGUAGE_FRENCH, dir)
	var cfgErr *scrapeerr.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	require.Equal(t, filepath.Join(dir, "fr.toml"), cfgErr.Path)

	written, err := InstallDefaults(dir, false)
	require.NoError(t, err)
	require.Len(t, written, len(Languages))

	l, err := Load(LANGUAGE_FRENCH, dir)
	require.NoError(t, err)
	key, found := l.MatchColor("Rouge")
	require.True(t, found)
	require.Equal(t, "red", key)

	_, err = Load(Language("klingon"), dir)
	require.True(t, errors.As(err, &cfgErr))
}

func TestInstallDefaultsKeepsExistingFiles(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "en.toml")
	require.NoError(t, os.WriteFile(custom, []byte("custom"), 0644))

	written, err := InstallDefaults(dir, false)
	require.NoError(t, err)
	require.NotContains(t, written, "en.toml")

	data, err := os.ReadFile(custom)
	require.NoError(t, err)
	require.Equal(t, "custom", string(data))

	written, err = InstallDefaults(dir, true)
	require.NoError(t, err)
	require.Contains(t, written, "en.toml")

	installed, err := ListInstalled(dir)
	require.NoError(t, err)
	require.Equal(t, []string{
		"en.toml", "en_asia.toml", "fr.toml", "jp.toml",
		"th.toml", "zh_cn.toml", "zh_hk.toml", "zh_tw.toml",
	}, installed)
}

func TestParseLanguage(t *testing.T) {
	cases := []struct {
		value    string
		expected Language
	}{
		{"english", LANGUAGE_ENGLISH},
		{"en", LANGUAGE_ENGLISH},
		{"EN_ASIA", LANGUAGE_ENGLISH_ASIA},
		{"en-asia", LANGUAGE_ENGLISH_ASIA},
		{"ja", LANGUAGE_JAPANESE},
		{"jp", LANGUAGE_JAPANESE},
		{"French", LANGUAGE_FRENCH},
		{"zh-TW", LANGUAGE_CHINESE_TAIWAN},
		{"zh_cn", LANGUAGE_CHINESE_SIMPLIFIED},
		{"chinese-hongkong", LANGUAGE_CHINESE_HONGKONG},
		{"th", LANGUAGE_THAI},
	}
	for _, c := range cases {
		lang, err := ParseLanguage(c.value)
		require.NoError(t, err, c.value)
		require.Equal(t, c.expected, lang)
	}

	_, err := ParseLanguage("klingon")
	require.Error(t, err)
}
