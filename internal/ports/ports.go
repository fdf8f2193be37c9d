package ports

import (
	"context"

	"RecallScanner/internal/domain"
)

// Fetcher retrieves one upstream document by URL.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Classifier assigns a severity class to recall body text. The reply is one
// of the fixed taxonomy classes; anything else is an error.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// RecallStore persists the canonical record set and per-agency staged batches.
type RecallStore interface {
	LoadCanonical() ([]domain.Recall, error)
	SaveCanonical(records []domain.Recall) error
	LoadStaged(agency domain.Agency) ([]domain.Recall, error)
	SaveStaged(agency domain.Agency, records []domain.Recall) error
}

// RawStore keeps the raw feed documents written by the extract stage and read
// back by the transform stage.
type RawStore interface {
	ReadRaw(name string) ([]byte, error)
	WriteRaw(name string, data []byte) error
}

// Raw document names exchanged between the extract and transform stages.
const (
	RawFDAListing  = "fda_food_safety_recalls.xml"
	RawUSDAFeed    = "usda_food_safety_recalls.json"
	RawUSDAListing = "usda_food_safety_recalls.xml"
)
