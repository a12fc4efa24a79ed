package optcg

import (
	"context"
	"fmt"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/scrapeerr"
)

// ImageURL is the absolute url of a card image.
func (c *Client) ImageURL(card catalog.Card) string {
	if card.ImgFullURL != nil && *card.ImgFullURL != "" {
		return *card.ImgFullURL
	}
	return catalog.FullImageURL(c.hostname, card.ImgURL)
}

// DownloadImage downloads the full image of a card. Any transport error or
// non 2xx status is retried the same way, up to the configured number of
// attempts with a fixed delay in between.
func (c *Client) DownloadImage(ctx context.Context, card catalog.Card) ([]byte, error) {
	return c.Download(ctx, c.ImageURL(card))
}

// Download is DownloadImage for an arbitrary url.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	req := c.images.R().SetContext(ctx)
	res, err := req.Get(imageURL)
	if err == nil && res.IsSuccess() {
		c.tel.ReportDebug("image downloaded", imageURL, req.Attempt, len(res.Body()))
		return res.Body(), nil
	}

	transportErr := &scrapeerr.TransportError{
		URL:      imageURL,
		Attempts: max(1, req.Attempt),
		Err:      err,
	}
	if err == nil {
		transportErr.Status = res.StatusCode()
	}
	c.tel.ReportBroken(report_client_download_image, fmt.Errorf("download: %w", transportErr))
	return nil, transportErr
}
