// Package pipeline drives a pull: it discovers packs, extracts the cards of
// every pack and downloads card images, spreading the network work over a
// bounded pool of workers.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/components/assert"
	"github.com/coko7/vegapull/internal/components/telemetry"
	"github.com/coko7/vegapull/internal/scrapeerr"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_pipeline_discover_packs  = "pipeline.discover-packs"
	report_pipeline_extract_cards   = "pipeline.extract-cards"
	report_pipeline_download_images = "pipeline.download-images"
)

const (
	STAGE_PACKS  = "packs"
	STAGE_CARDS  = "cards"
	STAGE_IMAGES = "images"
)

const DEFAULT_WORKERS = 8

var tracer = otel.Tracer("vegapull.pipeline")
var meter = otel.Meter("vegapull.pipeline")

var unitCounter, _ = meter.Int64Counter(
	"pipeline_units_total",
	metric.WithDescription("The total amount of units of work completed, by stage and outcome."),
)

// Fetcher is the network side of a pull, *optcg.Client implements it.
type Fetcher interface {
	Packs(ctx context.Context) ([]catalog.Pack, error)
	Cards(ctx context.Context, packID string) ([]catalog.Card, error)
	DownloadImage(ctx context.Context, card catalog.Card) ([]byte, error)
}

// ImageSink receives every downloaded image as soon as it arrives so that
// images are never all held in memory. It is called from many workers.
type ImageSink interface {
	WriteImage(card catalog.Card, data []byte) error
}

type Options struct {
	Workers    int
	OnProgress ProgressFunc
}

type Pipeline struct {
	fetcher Fetcher
	opts    Options
	tel     telemetry.API
}

func New(fetcher Fetcher, opts Options, tel telemetry.API) Pipeline {
	assert.NotNil(fetcher)
	assert.NotNil(tel)

	if opts.Workers <= 0 {
		opts.Workers = DEFAULT_WORKERS
	}
	return Pipeline{
		fetcher: fetcher,
		opts:    opts,
		tel:     telemetry.NewScopedAPI("pipeline", tel),
	}
}

func (p Pipeline) count(ctx context.Context, stage string, err error) {
	unitCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.Bool("failed", err != nil),
	))
}

// DiscoverPacks lists the packs of the locale. Without it there is nothing
// to distribute, so its failure is the one error that aborts a run.
func (p Pipeline) DiscoverPacks(ctx context.Context) ([]catalog.Pack, error) {
	progress := newProgress(STAGE_PACKS, 1, p.opts.OnProgress)

	packs, err := p.fetcher.Packs(ctx)
	p.count(ctx, STAGE_PACKS, err)
	progress.record("", err)
	if err != nil {
		p.tel.ReportBroken(report_pipeline_discover_packs, err)
		return nil, &scrapeerr.UnitError{Stage: STAGE_PACKS, Key: "*", Err: err}
	}

	p.tel.ReportCount(report_pipeline_discover_packs, int64(len(packs)))
	return packs, nil
}

// ExtractCards fetches the card list of every pack concurrently. Each pack
// is one unit, its outcome keeps the cards that extracted even when some of
// the others did not.
func (p Pipeline) ExtractCards(ctx context.Context, packIDs []string) []Outcome[[]catalog.Card] {
	progress := newProgress(STAGE_CARDS, len(packIDs), p.opts.OnProgress)

	outcomes := RunPool(
		ctx,
		p.opts.Workers,
		packIDs,
		func(id string) string { return id },
		func(ctx context.Context, packID string) ([]catalog.Card, error) {
			cards, err := p.fetcher.Cards(ctx, packID)
			p.count(ctx, STAGE_CARDS, err)
			progress.record(packID, err)
			if err != nil {
				p.tel.ReportBroken(report_pipeline_extract_cards, err, packID)
				return cards, &scrapeerr.UnitError{Stage: STAGE_CARDS, Key: packID, Err: err}
			}
			return cards, nil
		},
	)

	var total int64
	for _, outcome := range outcomes {
		total += int64(len(outcome.Value))
	}
	p.tel.ReportCount(report_pipeline_extract_cards, total)
	return outcomes
}

// DownloadImages downloads the image of every card and hands it to sink.
// Cards sharing an id across packs are downloaded once.
func (p Pipeline) DownloadImages(ctx context.Context, cards []catalog.Card, sink ImageSink) []Outcome[int] {
	assert.NotNil(sink)

	var unique []catalog.Card
	seen := map[string]bool{}
	for _, card := range cards {
		if seen[card.ID] {
			continue
		}
		seen[card.ID] = true
		unique = append(unique, card)
	}

	progress := newProgress(STAGE_IMAGES, len(unique), p.opts.OnProgress)

	outcomes := RunPool(
		ctx,
		p.opts.Workers,
		unique,
		func(card catalog.Card) string { return card.ID },
		func(ctx context.Context, card catalog.Card) (int, error) {
			size, err := p.downloadImage(ctx, card, sink)
			p.count(ctx, STAGE_IMAGES, err)
			progress.record(card.ID, err)
			if err != nil {
				p.tel.ReportBroken(report_pipeline_download_images, err, card.ID)
				return 0, &scrapeerr.UnitError{Stage: STAGE_IMAGES, Key: card.ID, Err: err}
			}
			return size, nil
		},
	)

	snapshot := progress.Snapshot()
	p.tel.ReportCount(report_pipeline_download_images, snapshot.Done-snapshot.Failed)
	return outcomes
}

func (p Pipeline) downloadImage(ctx context.Context, card catalog.Card, sink ImageSink) (int, error) {
	data, err := p.fetcher.DownloadImage(ctx, card)
	if err != nil {
		return 0, err
	}
	err = sink.WriteImage(card, data)
	if err != nil {
		return 0, fmt.Errorf("write image: %w", err)
	}
	return len(data), nil
}

type RunOptions struct {
	// PackIDs restricts the run to these packs, empty means every pack.
	PackIDs []string
	// Images downloads the image of every extracted card into Sink.
	Images bool
	Sink   ImageSink
}

// Run is a full pull: discover, extract, then optionally download images.
// The returned error is only set when pack discovery failed, every other
// failure is part of the result.
func (p Pipeline) Run(ctx context.Context, opts RunOptions) (Result, error) {
	ctx, span := tracer.Start(ctx, "pipeline:run")
	defer span.End()

	packs, err := p.DiscoverPacks(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to discover packs")
		return Result{}, err
	}

	result := Result{Packs: packs}

	packIDs, unlisted := selectPacks(packs, opts.PackIDs)
	result.Cards = p.ExtractCards(ctx, packIDs)
	for _, id := range unlisted {
		err := fmt.Errorf("pack is not listed by the site")
		p.tel.ReportWarning(report_pipeline_extract_cards, err, id)
		result.Cards = append(result.Cards, Outcome[[]catalog.Card]{
			Key: id,
			Err: &scrapeerr.UnitError{Stage: STAGE_CARDS, Key: id, Err: err},
		})
	}
	slices.SortStableFunc(result.Cards, func(a, b Outcome[[]catalog.Card]) int {
		return strings.Compare(a.Key, b.Key)
	})

	if opts.Images {
		result.Images = p.DownloadImages(ctx, result.AllCards(), opts.Sink)
	}

	if result.Failed() {
		span.SetStatus(codes.Error, fmt.Sprintf("%d units failed", len(result.Failures())))
	}
	return result, nil
}

func selectPacks(packs []catalog.Pack, requested []string) (selected []string, unlisted []string) {
	listed := make(map[string]bool, len(packs))
	for _, pack := range packs {
		listed[pack.ID] = true
	}

	if len(requested) == 0 {
		for _, pack := range packs {
			selected = append(selected, pack.ID)
		}
		return selected, nil
	}

	seen := map[string]bool{}
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true
		if listed[id] {
			selected = append(selected, id)
		} else {
			unlisted = append(unlisted, id)
		}
	}
	return selected, unlisted
}
