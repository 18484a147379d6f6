// Package metascraper implements preview.Parser on top of goquery, with
// OpenGraph fallbacks for the fields pages commonly publish only as og:*
// tags.
package metascraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dyatlov/go-opengraph/opengraph"

	"previewd/internal/preview"
)

// Parser extracts page metadata from HTML text.
type Parser struct{}

// New constructs a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse extracts MetaData from the document. Parsing is best-effort: a
// truncated or malformed document yields whatever metadata was found, with
// the remaining fields nil.
func (p *Parser) Parse(text string) (preview.MetaData, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return preview.MetaData{}, fmt.Errorf("parse html: %w", err)
	}

	meta := preview.MetaData{
		Title:       textOf(doc.Find("title").First()),
		Description: attrOf(doc.Find(`meta[name="description"]`).First(), "content"),
		Canonical:   attrOf(doc.Find(`link[rel="canonical"]`).First(), "href"),
		Language:    attrOf(doc.Find("html").First(), "lang"),
		RSS:         attrOf(doc.Find(`link[type="application/rss+xml"]`).First(), "href"),
		Image:       attrOf(doc.Find(`meta[property="og:image"]`).First(), "content"),
		AMP:         attrOf(doc.Find(`link[rel="amphtml"]`).First(), "href"),
		Author:      attrOf(doc.Find(`meta[name="author"]`).First(), "content"),
		Date:        attrOf(doc.Find(`meta[name="date"]`).First(), "content"),
		Metatags:    collectMetatags(doc),
	}
	applyOpenGraph(text, &meta)
	return meta, nil
}

// collectMetatags gathers every <meta> carrying both name and content, in
// document order, duplicates preserved.
func collectMetatags(doc *goquery.Document) []preview.Metatag {
	var tags []preview.Metatag
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name, hasName := sel.Attr("name")
		content, hasContent := sel.Attr("content")
		if hasName && hasContent {
			tags = append(tags, preview.Metatag{Name: name, Content: content})
		}
	})
	return tags
}

// applyOpenGraph fills title, description and image from og:* tags when the
// plain HTML equivalents are missing.
func applyOpenGraph(text string, meta *preview.MetaData) {
	og := opengraph.NewOpenGraph()
	if err := og.ProcessHTML(strings.NewReader(text)); err != nil {
		return
	}
	if meta.Title == nil && og.Title != "" {
		meta.Title = &og.Title
	}
	if meta.Description == nil && og.Description != "" {
		meta.Description = &og.Description
	}
	if meta.Image == nil && len(og.Images) > 0 && og.Images[0].URL != "" {
		meta.Image = &og.Images[0].URL
	}
}

func textOf(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	t := strings.TrimSpace(sel.Text())
	if t == "" {
		return nil
	}
	return &t
}

func attrOf(sel *goquery.Selection, name string) *string {
	v, ok := sel.Attr(name)
	if !ok {
		return nil
	}
	return &v
}
