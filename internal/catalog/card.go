// Package catalog defines the records produced by the scraper and the
// locale-aware decoders turning raw catalog text into them.
//
// Nothing past this package ever sees a locale label: every enum field holds
// a canonical key.
package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

type Card struct {
	ID     string `json:"id"`
	PackID string `json:"pack_id"`
	Name   string `json:"name"`

	Rarity   Rarity   `json:"rarity"`
	Category Category `json:"category"`

	ImgURL string `json:"img_url"`
	// ImgFullURL is derived from the locale hostname once the card has been
	// extracted, it is never scraped.
	ImgFullURL *string `json:"img_full_url"`

	Colors     []Color     `json:"colors"`
	Cost       *int        `json:"cost"`
	Attributes []Attribute `json:"attributes"`
	Power      *int        `json:"power"`
	Counter    *int        `json:"counter"`
	Types      []string    `json:"types"`
	Effect     string      `json:"effect"`
	Trigger    *string     `json:"trigger"`
}

func (c Card) String() string {
	return fmt.Sprintf("%s (%s) %s", c.ID, c.PackID, c.Name)
}

// WithFullImageURL returns a copy of the card with ImgFullURL derived from
// hostname.
func (c Card) WithFullImageURL(hostname string) Card {
	full := FullImageURL(hostname, c.ImgURL)
	c.ImgFullURL = &full
	return c
}

// FullImageURL joins the locale hostname with a card image URL. The site
// serves image paths relative to the card list page (`../images/...`) so the
// leading segment is dropped. Absolute URLs are returned unchanged and root
// relative paths are joined as is.
func FullImageURL(hostname, imgURL string) string {
	parsed, err := url.Parse(imgURL)
	if err == nil && parsed.IsAbs() {
		return imgURL
	}

	host := strings.TrimRight(hostname, "/")
	if strings.HasPrefix(imgURL, "/") {
		return host + imgURL
	}

	rest := imgURL
	_, after, found := strings.Cut(rest, "/")
	if found {
		rest = after
	}
	return host + "/" + rest
}
