package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Agency identifies which government body issued a recall notice.
type Agency string

const (
	AgencyFDA  Agency = "FDA"
	AgencyUSDA Agency = "USDA"
)

// TextValue holds a value that serializes as either a single JSON string or an
// ordered array of strings, matching how multi-item recall descriptions appear
// in the source data. A nil TextValue serializes as null.
type TextValue []string

func (t TextValue) MarshalJSON() ([]byte, error) {
	switch len(t) {
	case 0:
		return []byte("null"), nil
	case 1:
		return json.Marshal(t[0])
	default:
		return json.Marshal([]string(t))
	}
}

func (t *TextValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TextValue{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("text value is neither string nor string array: %w", err)
	}
	*t = TextValue(many)
	return nil
}

// Recall is the canonical record for one issued recall notice. Both agencies
// share the same shape; fields exclusive to the other agency are explicit
// nulls, never absent attributes.
type Recall struct {
	Title                string     `json:"title"`
	CompanyAnnounceDttm  *time.Time `json:"company_announce_dttm"`
	NotificationDttm     time.Time  `json:"notification_dttm"`
	RecallReason         *string    `json:"recall_reason"`
	CompanyName          *string    `json:"company_name"`
	BrandName            *string    `json:"brand_name"`
	ProductDescription   TextValue  `json:"product_description"`
	ImpactedStates       []string   `json:"impacted_states"`
	Agency               Agency     `json:"agency"`
	UID                  string     `json:"uid"`
	RecallURL            *string    `json:"recall_url"`
	NoticeIDNumber       *string    `json:"notice_id_number"`
	RecallType           *string    `json:"recall_type"`
	RiskLevel            *string    `json:"risk_level"`
	RecallClassification *string    `json:"recall_classification"`
}

// String returns s as an explicit-null-capable pointer; an empty string maps
// to nil, mirroring how the source feeds encode absent values.
func String(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
