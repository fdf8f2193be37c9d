// Package parser extracts structured recall fields from FDA recall detail
// pages.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrMissingDescriptionList reports a page without the expected
	// field/value definition list.
	ErrMissingDescriptionList = errors.New("description list not found")
	// ErrUnknownLabel reports a field label outside the closed label set,
	// which indicates a page format change or an extraction bug.
	ErrUnknownLabel = errors.New("field label not recognized")
	// ErrValueShape reports a field value whose internal structure matches
	// none of the known layouts.
	ErrValueShape = errors.New("description format not recognized")
)

// timeLayout matches the machine-readable datetime attribute on the page's
// <time> elements.
const timeLayout = "2006-01-02T15:04:05-07:00"

// Field names the extractor produces for each recognized label.
const (
	FieldCompanyAnnounceDttm = "company_announce_dttm"
	FieldNotificationDttm    = "notification_dttm"
	FieldProductType         = "product_type"
	FieldRecallReason        = "recall_reason"
	FieldCompanyName         = "company_name"
	FieldBrandName           = "brand_name"
	FieldProductDescription  = "product_description"
)

// labelFields is the closed mapping from page labels to field names. The
// label taxonomy is assumed complete; anything else fails the record.
var labelFields = map[string]string{
	"Company Announcement Date:": FieldCompanyAnnounceDttm,
	"FDA Publish Date:":          FieldNotificationDttm,
	"Product Type:":              FieldProductType,
	"Reason for Announcement:":   FieldRecallReason,
	"Company Name:":              FieldCompanyName,
	"Brand Name:":                FieldBrandName,
	"Product Description:":       FieldProductDescription,
}

// FieldValue is one extracted field: either text (single entry or an ordered
// sequence) or a parsed timestamp.
type FieldValue struct {
	Text []string
	Time *time.Time
}

// Page is the intermediate record extracted from one recall detail page.
type Page struct {
	Fields     map[string]FieldValue
	Paragraphs []string
}

// ParsePage extracts the definition-list fields and the visible paragraph
// text from raw recall page HTML.
func ParsePage(html []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}

	dl := doc.Find("dl.lcds-description-list--grid").First()
	if dl.Length() == 0 {
		return nil, ErrMissingDescriptionList
	}

	fields := map[string]FieldValue{}
	var current string
	var walkErr error

	dl.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		switch {
		case child.Is("dt"):
			label := strings.TrimSpace(child.Text())
			name, ok := labelFields[label]
			if !ok {
				walkErr = fmt.Errorf("%w: %q", ErrUnknownLabel, label)
				return false
			}
			current = name
		case child.Is("dd"):
			if current == "" {
				walkErr = fmt.Errorf("%w: value without preceding label", ErrValueShape)
				return false
			}
			value, err := parseValue(child)
			if err != nil {
				walkErr = fmt.Errorf("field %s: %w", current, err)
				return false
			}
			fields[current] = value
			current = ""
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	return &Page{Fields: fields, Paragraphs: paragraphs}, nil
}

// parseValue branches on the internal structure of a dd element: a single
// plain value, a machine-readable timestamp, same-styled sub-items, or
// line-break-delimited text. Anything else fails.
func parseValue(dd *goquery.Selection) (FieldValue, error) {
	if dd.Children().Length() == 0 {
		return FieldValue{Text: []string{strings.TrimSpace(dd.Text())}}, nil
	}

	if timeTag := dd.ChildrenFiltered("time").First(); timeTag.Length() > 0 {
		attr, ok := timeTag.Attr("datetime")
		if !ok {
			return FieldValue{}, fmt.Errorf("%w: time element without datetime attribute", ErrValueShape)
		}
		parsed, err := time.Parse(timeLayout, attr)
		if err != nil {
			return FieldValue{}, fmt.Errorf("parse datetime %q: %w", attr, err)
		}
		return FieldValue{Time: &parsed}, nil
	}

	if dd.ChildrenFiltered("div").Length() > 0 {
		var items []string
		dd.Find("div.field--item").Each(func(_ int, item *goquery.Selection) {
			items = append(items, strings.TrimSpace(item.Text()))
		})
		if len(items) == 0 {
			return FieldValue{}, fmt.Errorf("%w: div structure without field items", ErrValueShape)
		}
		return FieldValue{Text: items}, nil
	}

	if dd.ChildrenFiltered("br").Length() > 0 {
		var lines []string
		dd.Contents().Each(func(_ int, node *goquery.Selection) {
			if node.Is("br") {
				return
			}
			if text := strings.TrimSpace(node.Text()); text != "" {
				lines = append(lines, text)
			}
		})
		return FieldValue{Text: lines}, nil
	}

	return FieldValue{}, ErrValueShape
}
