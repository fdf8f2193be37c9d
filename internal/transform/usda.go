package transform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"RecallScanner/internal/domain"
	"RecallScanner/internal/infrastructure/feed"
	"RecallScanner/internal/ports"
	"RecallScanner/internal/states"
)

// recallDateLayout is the date-only format of the USDA feed's
// field_recall_date.
const recallDateLayout = "2006-01-02"

// USDASource stages USDA/FSIS recalls from the cached recall API JSON,
// cross-referencing recall URLs against the cached RSS listing.
type USDASource struct {
	store  ports.RawStore
	logger *slog.Logger
}

// NewUSDASource wires the USDA staging strategy.
func NewUSDASource(store ports.RawStore, logger *slog.Logger) *USDASource {
	return &USDASource{store: store, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *USDASource) Name() string { return "usda" }

// Agency reports which agency's records this source stages.
func (s *USDASource) Agency() domain.Agency { return domain.AgencyUSDA }

// Stage canonicalizes every entry of the cached USDA feed.
func (s *USDASource) Stage(_ context.Context) ([]domain.Recall, error) {
	rawFeed, err := s.store.ReadRaw(ports.RawUSDAFeed)
	if err != nil {
		return nil, fmt.Errorf("usda feed: %w", err)
	}
	entries, err := feed.ParseUSDAFeed(rawFeed)
	if err != nil {
		return nil, fmt.Errorf("usda feed: %w", err)
	}

	rawListing, err := s.store.ReadRaw(ports.RawUSDAListing)
	if err != nil {
		return nil, fmt.Errorf("usda listing: %w", err)
	}
	listing, err := feed.ParseListing(rawListing)
	if err != nil {
		return nil, fmt.Errorf("usda listing: %w", err)
	}

	records := make([]domain.Recall, 0, len(entries))
	for _, entry := range entries {
		record, err := s.canonicalize(entry, listing)
		if err != nil {
			return nil, fmt.Errorf("usda recall %q: %w", entry.Title, err)
		}
		s.logger.Info("staged recall", "agency", domain.AgencyUSDA, "title", record.Title)
		records = append(records, record)
	}

	return records, nil
}

func (s *USDASource) canonicalize(entry feed.USDAEntry, listing feed.Listing) (domain.Recall, error) {
	parsed, err := time.Parse(recallDateLayout, entry.RecallDate)
	if err != nil {
		return domain.Recall{}, fmt.Errorf("parse recall date %q: %w", entry.RecallDate, err)
	}

	// Title drift between the JSON feed and the RSS listing is expected;
	// a miss is non-fatal and leaves the URL empty.
	var recallURL *string
	if url, ok := listing.URLForTitle(entry.Title); ok {
		recallURL = &url
	} else {
		s.logger.Warn("no listing url found for recall, leaving value empty", "title", entry.Title)
	}

	var description domain.TextValue
	if entry.ProductItems != "" {
		description = domain.TextValue{entry.ProductItems}
	}

	return domain.Recall{
		Title:                entry.Title,
		CompanyAnnounceDttm:  nil,
		NotificationDttm:     parsed.UTC(),
		RecallReason:         domain.String(entry.RecallReason),
		CompanyName:          domain.String(entry.Establishment),
		BrandName:            nil,
		ProductDescription:   description,
		ImpactedStates:       states.ResolveFreeText(entry.States),
		Agency:               domain.AgencyUSDA,
		UID:                  uuid.NewString(),
		RecallURL:            recallURL,
		NoticeIDNumber:       domain.String(entry.RecallNumber),
		RecallType:           domain.String(entry.RecallType),
		RiskLevel:            domain.String(entry.RiskLevel),
		RecallClassification: domain.String(entry.Classification),
	}, nil
}
