// Package feed parses the raw agency feed documents: RSS/XML listings for
// both agencies and the USDA recall API JSON.
package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

// ListingItem is one entry of an RSS listing: the recall headline and its
// canonical URL taken from the entry guid.
type ListingItem struct {
	Title string
	URL   string
}

// Listing is an ordered RSS listing, newest entries first as published.
type Listing []ListingItem

// ParseListing reads an RSS/XML document into a Listing. Entries without a
// guid fall back to their link.
func ParseListing(raw []byte) (Listing, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse rss listing: %w", err)
	}

	listing := make(Listing, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		url := strings.TrimSpace(item.GUID)
		if url == "" {
			url = strings.TrimSpace(item.Link)
		}
		listing = append(listing, ListingItem{
			Title: strings.TrimSpace(item.Title),
			URL:   url,
		})
	}

	return listing, nil
}

// URLForTitle cross-references a recall title against the listing and returns
// its canonical URL. When the same title appears more than once the last
// occurrence wins.
func (l Listing) URLForTitle(title string) (string, bool) {
	var url string
	var found bool
	for _, item := range l {
		if item.Title == title {
			url = item.URL
			found = true
		}
	}
	return url, found
}

// USDAEntry is one flat object of the USDA recall API feed.
type USDAEntry struct {
	Title          string `json:"field_title"`
	RecallDate     string `json:"field_recall_date"`
	RecallReason   string `json:"field_recall_reason"`
	Establishment  string `json:"field_establishment"`
	ProductItems   string `json:"field_product_items"`
	States         string `json:"field_states"`
	RecallNumber   string `json:"field_recall_number"`
	RecallType     string `json:"field_recall_type"`
	RiskLevel      string `json:"field_risk_level"`
	Classification string `json:"field_recall_classification"`
}

// ParseUSDAFeed decodes the USDA recall API JSON array.
func ParseUSDAFeed(raw []byte) ([]USDAEntry, error) {
	var entries []USDAEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode usda feed: %w", err)
	}
	return entries, nil
}
