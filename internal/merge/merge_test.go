package merge

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RecallScanner/internal/domain"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fdaRecall(url string, dttm time.Time) domain.Recall {
	return domain.Recall{
		Title:            "recall at " + url,
		NotificationDttm: dttm,
		ImpactedStates:   []string{},
		Agency:           domain.AgencyFDA,
		UID:              "uid-" + url,
		RecallURL:        domain.String(url),
	}
}

func usdaRecall(notice string, dttm time.Time) domain.Recall {
	return domain.Recall{
		Title:            "notice " + notice,
		NotificationDttm: dttm,
		ImpactedStates:   []string{},
		Agency:           domain.AgencyUSDA,
		UID:              "uid-" + notice,
		NoticeIDNumber:   domain.String(notice),
	}
}

func TestWatermark(t *testing.T) {
	t.Parallel()

	older := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []domain.Recall{
		fdaRecall("https://x/a", newer),
		fdaRecall("https://x/b", older),
		usdaRecall("999-2024", older),
	}

	assert.Equal(t, newer, Watermark(records, domain.AgencyFDA))
	assert.Equal(t, older, Watermark(records, domain.AgencyUSDA))
	assert.True(t, Watermark(nil, domain.AgencyFDA).IsZero())
}

func TestMergePrependsInBatchOrder(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	existing := []domain.Recall{fdaRecall("https://x/old", base)}
	staged := []domain.Recall{
		fdaRecall("https://x/first", base.Add(time.Hour)),
		fdaRecall("https://x/second", base.Add(2*time.Hour)),
	}

	merged, added := Merge(existing, staged, domain.AgencyFDA, discard())

	require.Equal(t, 2, added)
	require.Len(t, merged, 3)
	// The earliest-processed staged record ends up deepest.
	assert.Equal(t, "https://x/second", *merged[0].RecallURL)
	assert.Equal(t, "https://x/first", *merged[1].RecallURL)
	assert.Equal(t, "https://x/old", *merged[2].RecallURL)
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	staged := []domain.Recall{
		fdaRecall("https://x/a", base),
		fdaRecall("https://x/b", base.Add(time.Hour)),
	}

	once, addedOnce := Merge(nil, staged, domain.AgencyFDA, discard())
	twice, addedTwice := Merge(once, staged, domain.AgencyFDA, discard())

	assert.Equal(t, 2, addedOnce)
	assert.Equal(t, 0, addedTwice)
	assert.Equal(t, once, twice)
}

func TestMergeDropsDuplicateWithinBatch(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	staged := []domain.Recall{
		fdaRecall("https://x/a", base),
		fdaRecall("https://x/a", base),
	}

	merged, added := Merge(nil, staged, domain.AgencyFDA, discard())

	assert.Equal(t, 1, added)
	assert.Len(t, merged, 1)
}

func TestMergeDropsSeenUSDANotice(t *testing.T) {
	t.Parallel()

	dttm := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	existing := []domain.Recall{usdaRecall("123-2024", dttm)}
	staged := []domain.Recall{usdaRecall("123-2024", dttm)}

	merged, added := Merge(existing, staged, domain.AgencyUSDA, discard())

	assert.Equal(t, 0, added)
	assert.Len(t, merged, 1)
}

func TestMergeAcceptsUnseenRecordAtWatermark(t *testing.T) {
	t.Parallel()

	// A never-seen record sharing the watermark timestamp is genuinely new;
	// the watermark alone must not reject it.
	dttm := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	existing := []domain.Recall{usdaRecall("123-2024", dttm)}
	staged := []domain.Recall{usdaRecall("124-2024", dttm)}

	merged, added := Merge(existing, staged, domain.AgencyUSDA, discard())

	assert.Equal(t, 1, added)
	assert.Len(t, merged, 2)
}

func TestMergeDropsRecordBehindWatermark(t *testing.T) {
	t.Parallel()

	watermark := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	existing := []domain.Recall{fdaRecall("https://x/new", watermark)}
	staged := []domain.Recall{fdaRecall("https://x/stale", watermark.Add(-time.Hour))}

	merged, added := Merge(existing, staged, domain.AgencyFDA, discard())

	assert.Equal(t, 0, added)
	assert.Len(t, merged, 1)
}

func TestMergeAgenciesAreIndependent(t *testing.T) {
	t.Parallel()

	fdaTime := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	usdaTime := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	existing := []domain.Recall{fdaRecall("https://x/a", fdaTime)}

	// An FDA watermark in June must not block an April USDA record.
	merged, added := Merge(existing, []domain.Recall{usdaRecall("321-2024", usdaTime)}, domain.AgencyUSDA, discard())

	assert.Equal(t, 1, added)
	assert.Len(t, merged, 2)
}

func TestIdentityKeyIgnoresUID(t *testing.T) {
	t.Parallel()

	dttm := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	a := fdaRecall("https://x/a", dttm)
	b := fdaRecall("https://x/a", dttm)
	b.UID = "a-completely-different-uid"

	assert.Equal(t, IdentityKey(a), IdentityKey(b))
}
