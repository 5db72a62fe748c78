package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/skinlens/backend/internal/domain"
)

const maxAttempts = 3

// defaultLabels are reported by Labels until the first successful response
var defaultLabels = []string{domain.LabelComedogenic, domain.LabelIrritant, domain.LabelSafe}

// RemoteClient calls an HTTP inference service hosting the pretrained model.
//
//	POST {baseURL}/predict  {"text": "aqua, glycerin"}
//	200 {"label": "Safe for Sensitive Skin", "probabilities": {"Safe for Sensitive Skin": 0.91, ...}}
type RemoteClient struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
	backoff     func(attempt int) time.Duration

	mu     sync.RWMutex
	labels []string
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// NewRemoteClient creates a client for the inference service at baseURL.
// requestsPerSecond limits outgoing calls; zero or less disables limiting.
func NewRemoteClient(baseURL string, timeout time.Duration, requestsPerSecond float64, logger *zap.Logger) *RemoteClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limit := rate.Inf
	burst := 1
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
		burst = int(requestsPerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	return &RemoteClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(limit, burst),
		logger:      logger,
		backoff:     exponentialBackoff,
		labels:      append([]string(nil), defaultLabels...),
	}
}

// SetDebug enables logging of every request and response
func (c *RemoteClient) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns 500ms, 1s, 2s, ... for attempts 1, 2, 3, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// Labels returns the labels reported by the most recent response, sorted
func (c *RemoteClient) Labels() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.labels...)
}

// Predict returns the most likely label for canonical text
func (c *RemoteClient) Predict(ctx context.Context, canonical string) (string, error) {
	resp, err := c.predict(ctx, canonical)
	if err != nil {
		return "", err
	}
	return resp.Label, nil
}

// PredictProba returns the probability of every label, sorted by label
func (c *RemoteClient) PredictProba(ctx context.Context, canonical string) ([]domain.ClassProbability, error) {
	resp, err := c.predict(ctx, canonical)
	if err != nil {
		return nil, err
	}
	return sortedProbabilities(resp), nil
}

// Classify returns the label and probabilities of a single response
func (c *RemoteClient) Classify(ctx context.Context, canonical string) (string, []domain.ClassProbability, error) {
	resp, err := c.predict(ctx, canonical)
	if err != nil {
		return "", nil, err
	}
	return resp.Label, sortedProbabilities(resp), nil
}

func sortedProbabilities(resp *predictResponse) []domain.ClassProbability {
	labels := make([]string, 0, len(resp.Probabilities))
	for label := range resp.Probabilities {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]domain.ClassProbability, len(labels))
	for i, label := range labels {
		out[i] = domain.ClassProbability{Label: label, Probability: resp.Probabilities[label]}
	}
	return out
}

// predict posts the text to the inference service, retrying transient failures
func (c *RemoteClient) predict(ctx context.Context, text string) (*predictResponse, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := c.baseURL + "/predict"

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrClassifierFailure, err)
		}

		resp, retry, err := c.doRequest(ctx, endpoint, body)
		if err == nil {
			c.rememberLabels(resp)
			return resp, nil
		}

		lastErr = err
		c.logger.Warn("remote classifier request failed",
			zap.Int("attempt", attempt),
			zap.Bool("retry", retry),
			zap.Error(err))

		if !retry || attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", domain.ErrClassifierFailure, ctx.Err())
		case <-time.After(c.backoff(attempt)):
		}
	}

	return nil, lastErr
}

// doRequest executes one POST and reports whether a failure is worth retrying
func (c *RemoteClient) doRequest(ctx context.Context, endpoint string, body []byte) (*predictResponse, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "SkinLens/1.0")

	if c.debug {
		c.logger.Debug("remote classifier request", zap.String("url", endpoint), zap.ByteString("body", body))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		retry := !errors.Is(err, context.Canceled)
		return nil, retry, fmt.Errorf("%w: %v", domain.ErrClassifierFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: read body: %v", domain.ErrClassifierFailure, err)
	}

	if c.debug {
		c.logger.Debug("remote classifier response", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody))
	}

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("%w: status %d", domain.ErrClassifierFailure, resp.StatusCode)
	}

	var out predictResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, false, fmt.Errorf("%w: decode response: %v", domain.ErrClassifierFailure, err)
	}
	if out.Label == "" || len(out.Probabilities) == 0 {
		return nil, false, fmt.Errorf("%w: response missing label or probabilities", domain.ErrClassifierFailure)
	}

	return &out, false, nil
}

func (c *RemoteClient) rememberLabels(resp *predictResponse) {
	labels := make([]string, 0, len(resp.Probabilities))
	for label := range resp.Probabilities {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	c.mu.Lock()
	c.labels = labels
	c.mu.Unlock()
}
