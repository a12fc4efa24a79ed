package storage

import (
	"bytes"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

type PullMode string

const (
	MODE_ALL   PullMode = "all"
	MODE_PACKS PullMode = "packs"
	MODE_CARDS PullMode = "cards"
)

// MetaStats describes one pull, it is written next to the data it produced.
type MetaStats struct {
	RunID          string    `toml:"run_id"`
	Language       string    `toml:"language"`
	PullStart      time.Time `toml:"pull_start"`
	PullDurationMS int64     `toml:"pull_duration_ms"`
	ImagesIncluded bool      `toml:"images_included"`
	Mode           PullMode  `toml:"mode"`
	Packs          []string  `toml:"packs"`
	Failures       int       `toml:"failures"`
}

// NewMetaStats starts the stats of a pull beginning now with a fresh run id.
func NewMetaStats(language string, mode PullMode, start time.Time) MetaStats {
	return MetaStats{
		RunID:     uuid.NewString(),
		Language:  language,
		PullStart: start,
		Mode:      mode,
	}
}

// Finish records the duration of the pull, the packs it covered and how many
// units failed.
func (m *MetaStats) Finish(end time.Time, packs []string, failures int) {
	m.PullDurationMS = end.Sub(m.PullStart).Milliseconds()
	m.Packs = slices.Clone(packs)
	slices.Sort(m.Packs)
	m.Packs = slices.Compact(m.Packs)
	m.Failures = failures
}

func (s DataStore) WriteMeta(stats MetaStats) error {
	if stats.Packs == nil {
		stats.Packs = []string{}
	}

	buf := bytes.NewBuffer(nil)
	err := toml.NewEncoder(buf).Encode(stats)
	if err != nil {
		return fmt.Errorf("encode %s: %w", META_FILE, err)
	}
	err = writeFile(s.MetaPath(), buf.Bytes())
	if err != nil {
		return fmt.Errorf("write %s: %w", META_FILE, err)
	}
	return nil
}

func (s DataStore) LoadMeta() (MetaStats, error) {
	var stats MetaStats
	data, err := os.ReadFile(s.MetaPath())
	if err != nil {
		return stats, err
	}
	_, err = toml.Decode(string(data), &stats)
	if err != nil {
		return stats, fmt.Errorf("decode %s: %w", META_FILE, err)
	}
	return stats, nil
}
