package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// ErrCounterpartUnavailable is returned when the counterpart cannot be
// reached or does not answer within the send timeout. The orchestrator
// treats it identically to a silent counterpart.
var ErrCounterpartUnavailable = errors.New("gateway: counterpart unavailable")

// SendResult carries the counterpart's synchronous reply, when it sent one.
type SendResult struct {
	StatusCode int
	Body       []byte
}

// Sender delivers a payload to a counterpart endpoint.
type Sender interface {
	Send(ctx context.Context, path string, payload []byte) (*SendResult, error)
}

// HTTPSenderConfig parameterizes an HTTPSender.
type HTTPSenderConfig struct {
	// BaseURL is the counterpart root, e.g. "http://npci.local:9000".
	BaseURL string
	// ContentType of outbound payloads: XML toward NPCI, octet-stream
	// toward the bank switch.
	ContentType string
	// Timeout bounds each send; expiry counts as no response.
	Timeout time.Duration
	// MaxInflight caps concurrent outbound requests. Zero disables the cap.
	MaxInflight int64
}

// HTTPSender posts payloads to a counterpart over HTTP, bounding both the
// per-call timeout and the number of in-flight requests.
type HTTPSender struct {
	baseURL     string
	contentType string
	timeout     time.Duration
	client      *http.Client
	inflight    *semaphore.Weighted
	logger      zerolog.Logger
}

// NewHTTPSender constructs an HTTPSender from the supplied configuration.
func NewHTTPSender(cfg HTTPSenderConfig, logger zerolog.Logger) (*HTTPSender, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway: sender base url is required")
	}
	if cfg.Timeout <= 0 {
		return nil, errors.New("gateway: sender timeout must be positive")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	contentType := cfg.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	var inflight *semaphore.Weighted
	if cfg.MaxInflight > 0 {
		inflight = semaphore.NewWeighted(cfg.MaxInflight)
	}
	return &HTTPSender{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		contentType: contentType,
		timeout:     cfg.Timeout,
		client:      &http.Client{Timeout: cfg.Timeout},
		inflight:    inflight,
		logger:      logger.With().Str("component", "http_sender").Logger(),
	}, nil
}

// Send implements Sender. Transport failures and timeouts are folded into
// ErrCounterpartUnavailable so the orchestrator has a single silence signal.
func (s *HTTPSender) Send(ctx context.Context, path string, payload []byte) (*SendResult, error) {
	if s.inflight != nil {
		if err := s.inflight.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("gateway: acquire inflight slot: %w", err)
		}
		defer s.inflight.Release(1)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	url := s.baseURL + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", s.contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn().Str("url", url).Err(err).Msg("counterpart send failed")
		return nil, fmt.Errorf("%w: %v", ErrCounterpartUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gateway: read counterpart reply: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		s.logger.Warn().Str("url", url).Int("status", resp.StatusCode).Msg("counterpart returned server error")
		return nil, fmt.Errorf("%w: status %d", ErrCounterpartUnavailable, resp.StatusCode)
	}
	return &SendResult{StatusCode: resp.StatusCode, Body: body}, nil
}
