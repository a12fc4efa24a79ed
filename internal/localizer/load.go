package localizer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/coko7/vegapull/internal/scrapeerr"
)

//go:embed locales/*.toml
var defaultLocales embed.FS

// GetXDGConfigHome returns XDG_CONFIG_HOME or its default path.
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// DefaultConfigDir is where locale definitions are installed and read from
// unless the user points somewhere else.
func DefaultConfigDir() string {
	return filepath.Join(GetXDGConfigHome(), "vegapull")
}

// Default returns the embedded definition of a language.
func Default(lang Language) (*Localizer, error) {
	name := path.Join("locales", lang.File())
	data, err := defaultLocales.ReadFile(name)
	if err != nil {
		return nil, &scrapeerr.ConfigError{Path: name, Err: err}
	}
	return Parse(name, data)
}

// Load reads `<dir>/<code>.toml`. An empty dir reads the embedded definition
// instead.
func Load(lang Language, dir string) (*Localizer, error) {
	if lang.Code() == "" {
		return nil, &scrapeerr.ConfigError{
			Path: string(lang),
			Err:  fmt.Errorf("unsupported language"),
		}
	}
	if dir == "" {
		return Default(lang)
	}

	localePath := filepath.Join(dir, lang.File())
	data, err := os.ReadFile(localePath)
	if err != nil {
		return nil, &scrapeerr.ConfigError{Path: localePath, Err: err}
	}
	return Parse(localePath, data)
}

// InstallDefaults writes the embedded definitions into dir, files already
// present are only replaced when overwrite is set. It returns the names of
// the files written.
func InstallDefaults(dir string, overwrite bool) ([]string, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, &scrapeerr.ConfigError{Path: dir, Err: err}
	}

	entries, err := defaultLocales.ReadDir("locales")
	if err != nil {
		return nil, err
	}

	var written []string
	for _, entry := range entries {
		target := filepath.Join(dir, entry.Name())
		if !overwrite {
			_, err := os.Stat(target)
			if err == nil {
				continue
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return written, &scrapeerr.ConfigError{Path: target, Err: err}
			}
		}

		data, err := defaultLocales.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return written, err
		}
		err = os.WriteFile(target, data, 0644)
		if err != nil {
			return written, &scrapeerr.ConfigError{Path: target, Err: err}
		}
		written = append(written, entry.Name())
	}

	return written, nil
}

// ListInstalled returns the locale definition files found in dir, sorted.
func ListInstalled(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &scrapeerr.ConfigError{Path: dir, Err: err}
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		out = append(out, entry.Name())
	}
	slices.Sort(out)
	return out, nil
}
