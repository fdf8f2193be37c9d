// Package transform canonicalizes agency-specific source records into the
// unified recall schema.
package transform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"RecallScanner/internal/domain"
	"RecallScanner/internal/infrastructure/feed"
	"RecallScanner/internal/infrastructure/parser"
	"RecallScanner/internal/ports"
	"RecallScanner/internal/states"
)

// FDASource stages FDA recalls: it walks the cached RSS listing, fetches
// each recall detail page, extracts its fields, classifies severity, and
// canonicalizes the result.
type FDASource struct {
	store      ports.RawStore
	fetcher    ports.Fetcher
	classifier ports.Classifier
	logger     *slog.Logger
	pageDelay  time.Duration
	sleep      func(time.Duration)
}

// NewFDASource wires the FDA staging strategy. pageDelay is the mandatory
// minimum gap between successive page fetches.
func NewFDASource(store ports.RawStore, fetcher ports.Fetcher, classifier ports.Classifier, pageDelay time.Duration, logger *slog.Logger) *FDASource {
	return &FDASource{
		store:      store,
		fetcher:    fetcher,
		classifier: classifier,
		logger:     logger,
		pageDelay:  pageDelay,
		sleep:      time.Sleep,
	}
}

// Name identifies the strategy inside the registry.
func (s *FDASource) Name() string { return "fda" }

// Agency reports which agency's records this source stages.
func (s *FDASource) Agency() domain.Agency { return domain.AgencyFDA }

// Stage produces the staged batch for the current FDA listing. Page fetch
// failures skip that recall with a warning; extraction and classification
// failures abort the run.
func (s *FDASource) Stage(ctx context.Context) ([]domain.Recall, error) {
	raw, err := s.store.ReadRaw(ports.RawFDAListing)
	if err != nil {
		return nil, fmt.Errorf("fda listing: %w", err)
	}

	listing, err := feed.ParseListing(raw)
	if err != nil {
		return nil, fmt.Errorf("fda listing: %w", err)
	}

	records := make([]domain.Recall, 0, len(listing))
	for i, item := range listing {
		if i > 0 {
			s.sleep(s.pageDelay)
		}

		body, err := s.fetcher.Get(ctx, item.URL)
		if err != nil {
			s.logger.Warn("page fetch failed, skipping recall",
				"url", item.URL, "title", item.Title, "error", err)
			continue
		}

		page, err := parser.ParsePage(body)
		if err != nil {
			return nil, fmt.Errorf("recall page %s: %w", item.URL, err)
		}

		record, err := s.canonicalize(ctx, item, page)
		if err != nil {
			return nil, fmt.Errorf("recall page %s: %w", item.URL, err)
		}

		s.logger.Info("staged recall", "agency", domain.AgencyFDA, "title", record.Title, "url", item.URL)
		records = append(records, record)
	}

	return records, nil
}

func (s *FDASource) canonicalize(ctx context.Context, item feed.ListingItem, page *parser.Page) (domain.Recall, error) {
	notification, ok := page.Fields[parser.FieldNotificationDttm]
	if !ok || notification.Time == nil {
		return domain.Recall{}, fmt.Errorf("missing publish date")
	}

	var companyAnnounce *time.Time
	if v, ok := page.Fields[parser.FieldCompanyAnnounceDttm]; ok && v.Time != nil {
		companyAnnounce = v.Time
	}

	class, err := s.classifier.Classify(ctx, strings.Join(page.Paragraphs, "\n"))
	if err != nil {
		return domain.Recall{}, err
	}
	severity, ok := domain.SeverityFromClass(class)
	if !ok {
		return domain.Recall{}, fmt.Errorf("%q is not a known class", class)
	}

	url := item.URL
	return domain.Recall{
		Title:                item.Title,
		CompanyAnnounceDttm:  companyAnnounce,
		NotificationDttm:     notification.Time.UTC(),
		RecallReason:         domain.String(firstText(page.Fields[parser.FieldRecallReason])),
		CompanyName:          domain.String(firstText(page.Fields[parser.FieldCompanyName])),
		BrandName:            domain.String(firstText(page.Fields[parser.FieldBrandName])),
		ProductDescription:   domain.TextValue(page.Fields[parser.FieldProductDescription].Text),
		ImpactedStates:       states.ResolveParagraphs(page.Paragraphs),
		Agency:               domain.AgencyFDA,
		UID:                  uuid.NewString(),
		RecallURL:            &url,
		NoticeIDNumber:       nil,
		RecallType:           nil,
		RiskLevel:            domain.String(severity.RiskLevel),
		RecallClassification: domain.String(severity.Classification),
	}, nil
}

func firstText(v parser.FieldValue) string {
	if len(v.Text) == 0 {
		return ""
	}
	return v.Text[0]
}
