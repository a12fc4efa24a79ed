// Package optcg scrapes the card list pages of the official One Piece card
// game sites. One Client talks to one locale.
package optcg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/components/assert"
	"github.com/coko7/vegapull/internal/components/telemetry"
	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/internal/scrapeerr"
	"github.com/coko7/vegapull/lib/htmlutil"
	"github.com/coko7/vegapull/lib/restyutil"
	libtelemetry "github.com/coko7/vegapull/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_fetch_document = "client.fetch-document"
	report_client_packs          = "client.packs"
	report_client_cards          = "client.cards"
	report_client_download_image = "client.download-image"
)

const (
	CARDLIST_ENDPOINT = "/cardlist/"

	SERIES_SELECTOR      = "div.seriesCol>select#series>option"
	CARD_ANCHOR_SELECTOR = "div.resultCol>a"
)

const (
	DEFAULT_TIMEOUT           = 30 * time.Second
	DEFAULT_IMAGE_ATTEMPTS    = 3
	DEFAULT_IMAGE_RETRY_DELAY = 100 * time.Millisecond
)

type Options struct {
	UserAgent string
	// Timeout bounds every single request, including each image attempt.
	Timeout time.Duration
	// RequestRate is a fixed number of requests per second, 0 means
	// unlimited.
	RequestRate float64

	ImageAttempts   int
	ImageRetryDelay time.Duration

	// Dump receives a transcript of every request when debug logging is
	// enabled, it may be nil.
	Dump restyutil.InstrumentOutput
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = "vegapull"
	}
	if o.Timeout <= 0 {
		o.Timeout = DEFAULT_TIMEOUT
	}
	if o.ImageAttempts <= 0 {
		o.ImageAttempts = DEFAULT_IMAGE_ATTEMPTS
	}
	if o.ImageRetryDelay < 0 {
		o.ImageRetryDelay = 0
	}
	return o
}

// Client is read-only once created and safe to share between workers.
type Client struct {
	hostname string
	http     *resty.Client
	// images retries failed downloads, http never retries
	images    *resty.Client
	extractor CardExtractor
	opts      Options

	tel telemetry.API
}

func NewClient(labels *localizer.Localizer, opts Options, tel telemetry.API) (*Client, error) {
	assert.NotNil(labels)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("optcg_scraper", tel)
	opts = opts.withDefaults()

	parsedHostname, err := url.Parse(labels.Hostname)
	if err != nil {
		return nil, &scrapeerr.ConfigError{Path: "hostname", Err: err}
	}

	var limiter *rate.Limiter
	if opts.RequestRate > 0 {
		// burst >= 1 so that a single request never waits on an empty bucket
		limiter = rate.NewLimiter(rate.Limit(opts.RequestRate), max(1, int(opts.RequestRate)))
	}

	pages := newHTTPClient(labels.Hostname, parsedHostname.Hostname(), opts, limiter, tel)

	images := newHTTPClient(labels.Hostname, parsedHostname.Hostname(), opts, limiter, tel)
	images.SetRetryCount(opts.ImageAttempts - 1)
	images.SetRetryWaitTime(opts.ImageRetryDelay)
	images.SetRetryMaxWaitTime(opts.ImageRetryDelay)
	// middleware errors (rate limiter, cancelled context) come without a
	// response and are final
	images.AddRetryCondition(func(res *resty.Response, err error) bool {
		return res != nil && (err != nil || !res.IsSuccess())
	})
	images.AddRetryHook(func(res *resty.Response, err error) {
		if err != nil {
			tel.ReportDebug("image download failed, retrying", res.Request.URL, res.Request.Attempt, err)
			return
		}
		tel.ReportDebug("image download failed, retrying", res.Request.URL, res.Request.Attempt, res.StatusCode())
	})

	return &Client{
		hostname:  labels.Hostname,
		http:      pages,
		images:    images,
		extractor: NewCardExtractor(labels, tel),
		opts:      opts,
		tel:       tel,
	}, nil
}

func newHTTPClient(baseURL, hostname string, opts Options, limiter *rate.Limiter, tel telemetry.API) *resty.Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(hostname))
	client.SetTimeout(opts.Timeout)
	client.SetLogger(restyLogger{tel: tel})

	if limiter != nil {
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(client, tel)
	libtelemetry.InstrumentResty(client, "optcg_scraper")
	restyutil.InstrumentClient(client, opts.Dump)
	return client
}

// restyLogger keeps resty's own retry chatter out of stderr.
type restyLogger struct {
	tel telemetry.API
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.tel.ReportDebug("resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.tel.ReportDebug("resty", fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.tel.ReportDebug("resty", fmt.Sprintf(format, v...))
}

func (c *Client) Hostname() string {
	return c.hostname
}

// FetchDocument GETs the card list endpoint with the given query and parses
// the page. Page fetches are never retried.
func (c *Client) FetchDocument(ctx context.Context, query url.Values) (*goquery.Document, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(CARDLIST_ENDPOINT)
	if err != nil {
		err = &scrapeerr.TransportError{URL: c.endpointURL(query), Attempts: 1, Err: err}
		c.tel.ReportBroken(report_client_fetch_document, fmt.Errorf("fetch: %w", err))
		return nil, err
	}
	if !res.IsSuccess() {
		err = &scrapeerr.TransportError{URL: c.endpointURL(query), Status: res.StatusCode(), Attempts: 1}
		c.tel.ReportBroken(report_client_fetch_document, err)
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
	if err != nil {
		c.tel.ReportBroken(report_client_fetch_document, fmt.Errorf("parse html: %w", err))
		return nil, err
	}
	return doc, nil
}

func (c *Client) endpointURL(query url.Values) string {
	out := c.hostname + CARDLIST_ENDPOINT
	if len(query) > 0 {
		out += "?" + query.Encode()
	}
	return out
}

// Packs lists the packs offered by the series selector in page order, the
// placeholder option without a value is skipped.
func (c *Client) Packs(ctx context.Context) ([]catalog.Pack, error) {
	doc, err := c.FetchDocument(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch packs: %w", err)
	}
	return c.ParsePacks(doc.Selection)
}

// ParsePacks reads the series selector of an already fetched page.
func (c *Client) ParsePacks(doc *goquery.Selection) ([]catalog.Pack, error) {
	options := doc.Find(SERIES_SELECTOR)
	if options.Length() == 0 {
		err := &scrapeerr.SelectorError{Selector: SERIES_SELECTOR}
		c.tel.ReportBroken(report_client_packs, err)
		return nil, err
	}

	var packs []catalog.Pack
	seen := map[string]bool{}
	options.Each(func(_ int, option *goquery.Selection) {
		id := strings.TrimSpace(option.AttrOr("value", ""))
		if id == "" {
			return
		}
		if seen[id] {
			c.tel.ReportWarning(report_client_packs, fmt.Errorf("duplicate pack option"), id)
			return
		}
		seen[id] = true
		packs = append(packs, catalog.NewPack(id, htmlutil.CleanText(option.Nodes[0])))
	})

	c.tel.ReportDebug("packs found", len(packs))
	return packs, nil
}

// Cards fetches the card list of one pack and extracts every card on it.
// Cards that fail to extract are left out and their errors joined, so the
// returned slice may be partial when err != nil.
func (c *Client) Cards(ctx context.Context, packID string) ([]catalog.Card, error) {
	query := url.Values{}
	query.Set("series", packID)

	doc, err := c.FetchDocument(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch cards of pack `%s`: %w", packID, err)
	}
	return c.ExtractCards(doc.Selection, packID)
}

// ExtractCards extracts every card referenced by the result list of a pack
// page, in page order.
func (c *Client) ExtractCards(doc *goquery.Selection, packID string) ([]catalog.Card, error) {
	anchors := doc.Find(CARD_ANCHOR_SELECTOR)

	var cardIDs []string
	seen := map[string]bool{}
	var errs []error
	anchors.Each(func(_ int, anchor *goquery.Selection) {
		ref, err := htmlutil.RequireAttr(anchor, CARD_ANCHOR_SELECTOR, "data-src")
		if err != nil {
			errs = append(errs, err)
			return
		}
		id := strings.TrimPrefix(strings.TrimSpace(ref), "#")
		if id == "" {
			errs = append(errs, &scrapeerr.SelectorError{Selector: CARD_ANCHOR_SELECTOR, Found: 1, Attr: "data-src"})
			return
		}
		if seen[id] {
			// the site lists some cards twice, the detail block is the same
			c.tel.ReportWarning(report_client_cards, fmt.Errorf("duplicate card anchor"), packID, id)
			return
		}
		seen[id] = true
		cardIDs = append(cardIDs, id)
	})

	cards := make([]catalog.Card, 0, len(cardIDs))
	for _, id := range cardIDs {
		card, err := c.extractor.Extract(doc, id, packID)
		if err != nil {
			c.tel.ReportBroken(report_client_cards, err, packID)
			errs = append(errs, err)
			continue
		}
		cards = append(cards, card.WithFullImageURL(c.hostname))
	}

	c.tel.ReportDebug("cards extracted", packID, len(cards))
	return cards, errors.Join(errs...)
}
