package pipeline

import (
	"errors"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/scrapeerr"
)

type Result struct {
	Packs []catalog.Pack
	// Cards holds one outcome per pack, keyed by pack id.
	Cards []Outcome[[]catalog.Card]
	// Images holds one outcome per downloaded card image, keyed by card id,
	// the value is the size of the image.
	Images []Outcome[int]
}

// AllCards flattens the cards of every pack in pack id order, partially
// failed packs contribute the cards that did extract.
func (r Result) AllCards() []catalog.Card {
	var out []catalog.Card
	for _, outcome := range r.Cards {
		out = append(out, outcome.Value...)
	}
	return out
}

// Failures lists every failed unit in stage then key order. A pack with
// several broken cards is a single failure whose error joins all of them.
func (r Result) Failures() []*scrapeerr.UnitError {
	var out []*scrapeerr.UnitError
	for _, outcome := range r.Cards {
		if outcome.Failed() {
			out = append(out, asUnitError(STAGE_CARDS, outcome.Key, outcome.Err))
		}
	}
	for _, outcome := range r.Images {
		if outcome.Failed() {
			out = append(out, asUnitError(STAGE_IMAGES, outcome.Key, outcome.Err))
		}
	}
	return out
}

func (r Result) Failed() bool {
	return len(r.Failures()) > 0
}

func asUnitError(stage, key string, err error) *scrapeerr.UnitError {
	var unitErr *scrapeerr.UnitError
	if errors.As(err, &unitErr) && unitErr.Stage == stage && unitErr.Key == key {
		return unitErr
	}
	return &scrapeerr.UnitError{Stage: stage, Key: key, Err: err}
}
