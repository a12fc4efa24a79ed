package htmlutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/coko7/vegapull/internal/scrapeerr"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText returns the text of a node with non printable characters removed
// and runs of whitespace collapsed.
func CleanText(node *html.Node) string {
	text := GetText(node)
	text = strings.ReplaceAll(text, "\n", " ")
	text = removeNonPrintable(text)
	text = strings.Trim(text, " \t")
	return innerWhitespace.ReplaceAllString(text, " ")
}

// FindOne finds the single descendant of sel matching selector. Zero or many
// matches are both an error, markup is never guessed at.
func FindOne(sel *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := sel.Find(selector)
	if found.Length() != 1 {
		return nil, &scrapeerr.SelectorError{Selector: selector, Found: found.Length()}
	}
	return found, nil
}

// FindOptional is FindOne for elements that may be absent, it returns nil
// when nothing matched and still fails on ambiguous matches.
func FindOptional(sel *goquery.Selection, selector string) (*goquery.Selection, error) {
	found := sel.Find(selector)
	switch found.Length() {
	case 0:
		return nil, nil
	case 1:
		return found, nil
	}
	return nil, &scrapeerr.SelectorError{Selector: selector, Found: found.Length()}
}

// RequireAttr returns the value of a required attribute.
func RequireAttr(sel *goquery.Selection, selector, attr string) (string, error) {
	value, exists := sel.Attr(attr)
	if !exists {
		return "", &scrapeerr.SelectorError{Selector: selector, Found: sel.Length(), Attr: attr}
	}
	return value, nil
}
