package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"vlive-notify/internal/domain/entity"
	"vlive-notify/internal/observability/logging"
	"vlive-notify/internal/resilience/circuitbreaker"
	"vlive-notify/internal/resilience/retry"
)

// SlackConfig contains configuration for Slack webhook notifications.
type SlackConfig struct {
	// Enabled indicates whether Slack notifications are enabled
	Enabled bool

	// WebhookURL is the Slack incoming-webhook URL
	WebhookURL string

	// Timeout is the HTTP request timeout for Slack API calls
	Timeout time.Duration
}

// SlackNotifier sends new-video notifications to Slack via incoming webhook.
// It implements the watch.Callback contract.
type SlackNotifier struct {
	config      SlackConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
	retryConfig retry.Config
	breaker     *circuitbreaker.CircuitBreaker
}

// NewSlackNotifier creates a SlackNotifier with the given configuration.
// Slack tolerates roughly one message per second per webhook. Sustained
// delivery failures trip a circuit breaker.
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	return &SlackNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(1.0, 3),
		retryConfig: retry.WebhookConfig(),
		breaker:     circuitbreaker.New(circuitbreaker.WebhookConfig("slack-webhook")),
	}
}

// Name returns the channel identifier used in logs.
func (s *SlackNotifier) Name() string {
	return "slack"
}

// IsEnabled reports whether this channel should receive notifications.
func (s *SlackNotifier) IsEnabled() bool {
	return s.config.Enabled && s.config.WebhookURL != ""
}

// slackPayload is the minimal incoming-webhook message format.
type slackPayload struct {
	Text string `json:"text"`
}

// OnNewVideo implements watch.Callback. Delivery failures are logged and
// swallowed.
func (s *SlackNotifier) OnNewVideo(ctx context.Context, video *entity.Video) {
	if !s.IsEnabled() {
		return
	}
	if err := s.send(ctx, video); err != nil {
		logging.FromContext(ctx).Error("slack notification failed",
			slog.String("channel", s.Name()),
			slog.Uint64("video_seq", video.VideoSeq),
			slog.Any("error", err))
	}
}

func (s *SlackNotifier) send(ctx context.Context, video *entity.Video) error {
	if err := s.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	verb := "uploaded"
	if video.VideoType == entity.VideoTypeLive {
		verb = "is live:"
	}
	payload := slackPayload{
		Text: fmt.Sprintf("%s %s <%s|%s>", video.ChannelName, verb, videoURL(video), video.Title),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = s.breaker.Execute(func() (interface{}, error) {
		return nil, retry.WithBackoff(ctx, s.retryConfig, func() error {
			return s.post(ctx, body)
		})
	})
	return err
}

func (s *SlackNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("slack webhook returned %s", resp.Status),
		}
	}

	return nil
}
