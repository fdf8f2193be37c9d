// Package merge decides which staged records are genuinely new and inserts
// them into the canonical record set.
package merge

import (
	"log/slog"
	"time"

	"RecallScanner/internal/domain"
)

// Watermark returns the most recent notification time among records of the
// given agency, or the zero time when none exist.
func Watermark(records []domain.Recall, agency domain.Agency) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.Agency == agency && r.NotificationDttm.After(latest) {
			latest = r.NotificationDttm
		}
	}
	return latest
}

// IdentityKey returns the stable identity of a recall across pipeline runs.
// UIDs are regenerated on every extraction, so identity rests on the
// per-agency natural keys: FDA on the recall URL, USDA on the notice id
// number combined with the notification time.
func IdentityKey(r domain.Recall) string {
	switch r.Agency {
	case domain.AgencyUSDA:
		var notice string
		if r.NoticeIDNumber != nil {
			notice = *r.NoticeIDNumber
		}
		return string(r.Agency) + "|" + notice + "|" + r.NotificationDttm.UTC().Format(time.RFC3339)
	default:
		var url string
		if r.RecallURL != nil {
			url = *r.RecallURL
		}
		return string(r.Agency) + "|" + url
	}
}

// Merge inserts the staged batch into the canonical set. A staged record is
// accepted only when its identity key has not been seen before and its
// notification time is at or after the agency watermark; both checks must
// pass, since the watermark alone cannot tell a late-arriving new record from
// a re-delivered old one. Accepted records are prepended in batch order, so
// the earliest-processed ends up deepest. Returns the updated set and the
// number of records added.
func Merge(existing, staged []domain.Recall, agency domain.Agency, logger *slog.Logger) ([]domain.Recall, int) {
	watermark := Watermark(existing, agency)

	seen := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		seen[IdentityKey(r)] = struct{}{}
	}

	merged := existing
	added := 0
	for _, r := range staged {
		key := IdentityKey(r)
		if _, dup := seen[key]; dup {
			logger.Info("dropping already-merged recall", "agency", agency, "title", r.Title, "key", key)
			continue
		}
		if r.NotificationDttm.Before(watermark) {
			logger.Info("dropping recall behind watermark",
				"agency", agency, "title", r.Title,
				"notification_dttm", r.NotificationDttm, "watermark", watermark)
			continue
		}

		seen[key] = struct{}{}
		merged = append([]domain.Recall{r}, merged...)
		added++
		logger.Info("adding recall", "agency", agency, "title", r.Title)
	}

	return merged, added
}
