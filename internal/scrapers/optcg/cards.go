package optcg

import (
	"fmt"
	"strings"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/components/telemetry"
	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/internal/scrapeerr"
	"github.com/coko7/vegapull/lib/htmlutil"
	"github.com/coko7/vegapull/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	report_extractor_colors     = "extractor.colors"
	report_extractor_attributes = "extractor.attributes"
)

// selectors relative to the <dl> block of a card
const (
	NAME_SELECTOR       = "dt>div.cardName"
	RARITY_SELECTOR     = "dt>div.infoCol>span:nth-child(2)"
	CATEGORY_SELECTOR   = "dt>div.infoCol>span:nth-child(3)"
	IMAGE_SELECTOR      = "dd>div.frontCol>img"
	COLORS_SELECTOR     = "dd>div.backCol div.color"
	COST_SELECTOR       = "dd>div.backCol>div.col2>div.cost"
	ATTRIBUTES_SELECTOR = "dd>div.backCol>div.col2>div.attribute>img"
	POWER_SELECTOR      = "dd>div.backCol>div.col2>div.power"
	COUNTER_SELECTOR    = "dd>div.backCol>div.col2>div.counter"
	TYPES_SELECTOR      = "dd>div.backCol>div.feature"
	EFFECT_SELECTOR     = "dd>div.backCol>div.text"
	TRIGGER_SELECTOR    = "dd>div.backCol>div.trigger"
)

// CardExtractor turns the detail block of one card into a catalog.Card. It
// holds no mutable state.
type CardExtractor struct {
	labels *localizer.Localizer
	tel    telemetry.API
}

func NewCardExtractor(labels *localizer.Localizer, tel telemetry.API) CardExtractor {
	return CardExtractor{labels: labels, tel: tel}
}

// cardRoot finds the <dl> whose id is the card id. Ids are compared as plain
// strings since some of them are not valid css identifiers.
func cardRoot(doc *goquery.Selection, cardID string) (*goquery.Selection, error) {
	root := doc.Find("dl").FilterFunction(func(_ int, dl *goquery.Selection) bool {
		return dl.AttrOr("id", "") == cardID
	})
	if root.Length() != 1 {
		return nil, &scrapeerr.SelectorError{Selector: "dl#" + cardID, Found: root.Length()}
	}
	return root, nil
}

func innerHtml(sel *goquery.Selection, selector string) (string, error) {
	node, err := htmlutil.FindOne(sel, selector)
	if err != nil {
		return "", err
	}
	return node.Html()
}

func text(sel *goquery.Selection, selector string) (string, error) {
	node, err := htmlutil.FindOne(sel, selector)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(node.Text()), nil
}

// Extract reads every field of a card in a fixed order, the first field that
// fails aborts the whole card.
func (e CardExtractor) Extract(doc *goquery.Selection, cardID, packID string) (catalog.Card, error) {
	fail := func(field string, err error) (catalog.Card, error) {
		return catalog.Card{}, &scrapeerr.FieldError{CardID: cardID, Field: field, Err: err}
	}

	root, err := cardRoot(doc, cardID)
	if err != nil {
		return fail("id", err)
	}

	card := catalog.Card{
		ID:     root.AttrOr("id", cardID),
		PackID: packID,
	}

	name, err := innerHtml(root, NAME_SELECTOR)
	if err != nil {
		return fail("name", err)
	}
	card.Name = strings.TrimSpace(textutil.PlainText(name))

	rawRarity, err := text(root, RARITY_SELECTOR)
	if err != nil {
		return fail("rarity", err)
	}
	card.Rarity, err = catalog.DecodeRarity(e.labels, rawRarity)
	if err != nil {
		return fail("rarity", err)
	}

	rawCategory, err := text(root, CATEGORY_SELECTOR)
	if err != nil {
		return fail("category", err)
	}
	card.Category, err = catalog.DecodeCategory(e.labels, rawCategory)
	if err != nil {
		return fail("category", err)
	}

	img, err := htmlutil.FindOne(root, IMAGE_SELECTOR)
	if err != nil {
		return fail("img_url", err)
	}
	card.ImgURL, err = htmlutil.RequireAttr(img, IMAGE_SELECTOR, "data-src")
	if err != nil {
		return fail("img_url", err)
	}

	rawColors, err := innerHtml(root, COLORS_SELECTOR)
	if err != nil {
		return fail("colors", err)
	}
	colors, strategy, err := catalog.DecodeColors(e.labels, rawColors)
	if err != nil {
		return fail("colors", err)
	}
	e.tel.ReportDebug(report_extractor_colors, cardID, strategy)
	card.Colors = colors

	rawCost, err := innerHtml(root, COST_SELECTOR)
	if err != nil {
		return fail("cost", err)
	}
	card.Cost, err = catalog.DecodeNumber("cost", rawCost)
	if err != nil {
		return fail("cost", err)
	}

	attributes, err := e.attributes(root, cardID)
	if err != nil {
		return fail("attributes", err)
	}
	card.Attributes = attributes

	rawPower, err := innerHtml(root, POWER_SELECTOR)
	if err != nil {
		return fail("power", err)
	}
	card.Power, err = catalog.DecodeNumber("power", rawPower)
	if err != nil {
		return fail("power", err)
	}

	rawCounter, err := innerHtml(root, COUNTER_SELECTOR)
	if err != nil {
		return fail("counter", err)
	}
	card.Counter, err = catalog.DecodeNumber("counter", rawCounter)
	if err != nil {
		return fail("counter", err)
	}

	rawTypes, err := innerHtml(root, TYPES_SELECTOR)
	if err != nil {
		return fail("types", err)
	}
	card.Types = catalog.DecodeTypes(rawTypes)

	rawEffect, err := innerHtml(root, EFFECT_SELECTOR)
	if err != nil {
		return fail("effect", err)
	}
	card.Effect = strings.TrimSpace(textutil.PlainText(rawEffect))

	triggerNode, err := htmlutil.FindOptional(root, TRIGGER_SELECTOR)
	if err != nil {
		return fail("trigger", err)
	}
	if triggerNode != nil {
		rawTrigger, err := triggerNode.Html()
		if err != nil {
			return fail("trigger", err)
		}
		trigger := strings.TrimSpace(textutil.PlainText(rawTrigger))
		card.Trigger = &trigger
	}

	return card, nil
}

func (e CardExtractor) attributes(root *goquery.Selection, cardID string) ([]catalog.Attribute, error) {
	img, err := htmlutil.FindOptional(root, ATTRIBUTES_SELECTOR)
	if err != nil {
		return nil, err
	}

	var icon *catalog.AttributeIcon
	if img != nil {
		icon = &catalog.AttributeIcon{Src: img.AttrOr("src", "")}
		alt, ok := img.Attr("alt")
		if ok {
			icon.Alt = &alt
		}
	}

	attributes, strategy, err := catalog.DecodeAttributes(e.labels, icon)
	if err != nil {
		return nil, err
	}
	if strategy == catalog.STRATEGY_ALT_TEXT && icon.Src != "" && len(attributes) > 0 {
		e.tel.ReportWarning(
			report_extractor_attributes,
			fmt.Errorf("icon `%s` not recognized, decoded from alt text", icon.Src),
			cardID,
		)
	}
	e.tel.ReportDebug(report_extractor_attributes, cardID, strategy)
	return attributes, nil
}
