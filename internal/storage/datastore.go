// Package storage persists the records of a pull: a directory of JSON files
// and images, a run metadata file and optionally a sqlite/libsql mirror.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/localizer"
)

const (
	JSON_DIR    = "json"
	IMAGES_DIR  = "images"
	PACKS_FILE  = "packs.json"
	META_FILE   = "vega.meta.toml"
	DIR_PERM    = 0755
	FILE_PERM   = 0644
	DATA_PREFIX = "data-"
)

// DefaultDataDir is the directory name used when no output directory is
// given, e.g. data-250131_142501.
func DefaultDataDir(now time.Time) string {
	return DATA_PREFIX + now.Format("060102_150405")
}

// DataStore lays a pull out under one root directory:
//
//	<root>/json/packs.json
//	<root>/json/cards_<pack id>.json
//	<root>/images/<image file name>
//	<root>/vega.meta.toml
//
// Writes of distinct files are safe to run concurrently.
type DataStore struct {
	root     string
	language localizer.Language
}

func NewDataStore(root string, language localizer.Language) DataStore {
	return DataStore{root: root, language: language}
}

func (s DataStore) Root() string {
	return s.root
}

func (s DataStore) Language() localizer.Language {
	return s.language
}

func (s DataStore) PacksPath() string {
	return filepath.Join(s.root, JSON_DIR, PACKS_FILE)
}

func (s DataStore) CardsPath(packID string) (string, error) {
	if packID == "" || strings.ContainsAny(packID, `/\`) || packID == ".." {
		return "", fmt.Errorf("invalid pack id `%s`", packID)
	}
	return filepath.Join(s.root, JSON_DIR, fmt.Sprintf("cards_%s.json", packID)), nil
}

func (s DataStore) ImagePath(card catalog.Card) (string, error) {
	filename, err := ImageFilename(card.ImgURL)
	if err != nil {
		return "", fmt.Errorf("card `%s`: %w", card.ID, err)
	}
	return filepath.Join(s.root, IMAGES_DIR, filename), nil
}

func (s DataStore) MetaPath() string {
	return filepath.Join(s.root, META_FILE)
}

// ImageFilename is the last path segment of an image url without its query
// string, `../images/OP01-001.png?240920` -> `OP01-001.png`.
func ImageFilename(imgURL string) (string, error) {
	slash := strings.LastIndex(imgURL, "/")
	if slash < 0 {
		return "", fmt.Errorf("image url `%s` has no path separator", imgURL)
	}
	name := imgURL[slash+1:]
	name, _, _ = strings.Cut(name, "?")
	if name == "" || name == "." || name == ".." {
		return "", fmt.Errorf("image url `%s` has no file name", imgURL)
	}
	return name, nil
}

func writeFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), DIR_PERM)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, FILE_PERM)
}

func writeJSON(path string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	err = writeFile(path, data)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WritePacks writes the pack list sorted by id.
func (s DataStore) WritePacks(packs []catalog.Pack) error {
	sorted := slices.Clone(packs)
	slices.SortStableFunc(sorted, func(a, b catalog.Pack) int {
		return strings.Compare(a.ID, b.ID)
	})
	if sorted == nil {
		sorted = []catalog.Pack{}
	}
	return writeJSON(s.PacksPath(), sorted)
}

// WriteCards writes the cards of one pack in page order.
func (s DataStore) WriteCards(packID string, cards []catalog.Card) error {
	path, err := s.CardsPath(packID)
	if err != nil {
		return err
	}
	if cards == nil {
		cards = []catalog.Card{}
	}
	return writeJSON(path, cards)
}

// WriteImage stores image bytes under the image file name of the card, it
// is the image sink of a pull.
func (s DataStore) WriteImage(card catalog.Card, data []byte) error {
	path, err := s.ImagePath(card)
	if err != nil {
		return err
	}
	err = writeFile(path, data)
	if err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

// LoadPacks reads a packs.json file.
func LoadPacks(path string) ([]catalog.Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var packs []catalog.Pack
	err = json.Unmarshal(data, &packs)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return packs, nil
}

// LoadCards reads the cards file of one pack.
func (s DataStore) LoadCards(packID string) ([]catalog.Card, error) {
	path, err := s.CardsPath(packID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cards []catalog.Card
	err = json.Unmarshal(data, &cards)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return cards, nil
}
