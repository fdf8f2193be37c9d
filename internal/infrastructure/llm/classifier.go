// Package llm implements the severity classification oracle backed by
// OpenAI-compatible chat APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"RecallScanner/internal/config"
	"RecallScanner/internal/domain"
	"RecallScanner/internal/ports"
	"RecallScanner/internal/retry"

	"log/slog"
)

// ErrUnexpectedClass reports an oracle reply outside the fixed class set.
var ErrUnexpectedClass = errors.New("classifier reply outside known class set")

// classifyPrompt is the fixed few-shot instruction sent as the system
// message: nine worked examples covering the four outcome classes.
const classifyPrompt = `You classify U.S. FDA food recall announcements by severity. Reply with exactly one of: Class I, Class II, Class III, Unknown. No other words.

Example: "The product may be contaminated with Listeria monocytogenes, an organism which can cause serious and sometimes fatal infections in young children and the elderly." -> Class I
Example: "The recalled snack mix contains almonds, an allergen not declared on the label. People with an allergy to almonds run the risk of serious or life-threatening reaction." -> Class I
Example: "Testing revealed the presence of Salmonella in the sprouted seeds. Salmonella can cause serious and sometimes fatal infections." -> Class I
Example: "The cheese may contain small fragments of soft plastic from packaging film. Consumption is unlikely to cause serious injury, though consumers may experience temporary discomfort." -> Class II
Example: "The supplement contains an amount of vitamin D above the declared level, which over long-term daily use may lead to adverse health consequences that are reversible." -> Class II
Example: "The drink was distributed with a label that overstates the juice content. The mislabeling does not involve any allergen or pathogen and poses remote risk of illness." -> Class II
Example: "The bottled water was sold with an incorrect net-weight statement. The defect violates labeling regulations but is not likely to cause any adverse health consequence." -> Class III
Example: "The flour was packaged in bags printed with the wrong lot code, a labeling defect with no health hazard." -> Class III
Example: "The firm announced a voluntary market withdrawal of the product; the announcement does not state a reason." -> Unknown`

// OracleClient implements ports.Classifier backed by OpenAI-compatible APIs.
type OracleClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.Classifier = (*OracleClient)(nil)

// NewOracleClient builds a client from configuration. A missing API key is a
// configuration error, never a silent skip.
func NewOracleClient(cfg config.ClassifierConfig) (*OracleClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("classifier api key is not configured")
	}
	if cfg.Endpoint == "" || cfg.Model == "" {
		return nil, fmt.Errorf("classifier endpoint/model is not configured")
	}
	return &OracleClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}, nil
}

// Classify posts the recall body text and returns the oracle's class. A
// reply outside the fixed class set is an error.
func (c *OracleClient) Classify(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": classifyPrompt},
			{"role": "user", "content": text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal classify payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("classifier error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode classifier response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("classifier response has no choices")
	}

	reply := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if !domain.KnownClass(reply) {
		return "", fmt.Errorf("%w: %q", ErrUnexpectedClass, reply)
	}
	return reply, nil
}

// RetryingClassifier wraps a classifier with the fixed-attempt, fixed-delay
// retry policy. Exhausting the attempts fails the whole run.
type RetryingClassifier struct {
	inner  ports.Classifier
	config retry.Config
	logger *slog.Logger
}

var _ ports.Classifier = (*RetryingClassifier)(nil)

// NewRetryingClassifier wraps inner with the configured retry policy.
func NewRetryingClassifier(inner ports.Classifier, cfg config.ClassifierConfig, logger *slog.Logger) *RetryingClassifier {
	return &RetryingClassifier{
		inner:  inner,
		config: retry.Config{MaxAttempts: cfg.MaxAttempts, Delay: cfg.RetryDelay()},
		logger: logger,
	}
}

// Classify delegates to the wrapped classifier, retrying on any error.
func (r *RetryingClassifier) Classify(ctx context.Context, text string) (string, error) {
	var class string
	err := retry.Do(ctx, r.config, r.logger, func() error {
		var opErr error
		class, opErr = r.inner.Classify(ctx, text)
		return opErr
	})
	if err != nil {
		return "", fmt.Errorf("classify recall text: %w", err)
	}
	return class, nil
}
