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

// DiscordConfig contains configuration for Discord webhook notifications.
type DiscordConfig struct {
	// Enabled indicates whether Discord notifications are enabled
	Enabled bool

	// WebhookURL is the Discord webhook URL (includes authentication token)
	WebhookURL string

	// Timeout is the HTTP request timeout for Discord API calls
	Timeout time.Duration
}

// DiscordNotifier sends new-video notifications to Discord via webhook.
// It implements the watch.Callback contract.
type DiscordNotifier struct {
	config      DiscordConfig
	httpClient  *http.Client
	rateLimiter *RateLimiter
	retryConfig retry.Config
	breaker     *circuitbreaker.CircuitBreaker
}

// NewDiscordNotifier creates a DiscordNotifier with the given configuration.
// The rate limiter is set to 0.5 req/s with a burst of 3, matching the
// Discord webhook limit of 30 requests per minute. Sustained delivery
// failures trip a circuit breaker so a dead webhook stops costing retries.
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	return &DiscordNotifier{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		rateLimiter: NewRateLimiter(0.5, 3),
		retryConfig: retry.WebhookConfig(),
		breaker:     circuitbreaker.New(circuitbreaker.WebhookConfig("discord-webhook")),
	}
}

// Name returns the channel identifier used in logs.
func (d *DiscordNotifier) Name() string {
	return "discord"
}

// IsEnabled reports whether this channel should receive notifications.
func (d *DiscordNotifier) IsEnabled() bool {
	return d.config.Enabled && d.config.WebhookURL != ""
}

// discordWebhookPayload represents the JSON payload sent to the Discord webhook.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	URL         string              `json:"url"`
	Color       int                 `json:"color"`
	Image       *discordEmbedImage  `json:"image,omitempty"`
	Footer      discordEmbedFooter  `json:"footer"`
}

type discordEmbedImage struct {
	URL string `json:"url"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	maxTitleLength   = 256
	truncationSuffix = "..."

	// VLive teal (#54f7ce)
	discordEmbedColor = 5568462
)

// OnNewVideo implements watch.Callback. Delivery failures are logged and
// swallowed; the poll loop must never see them.
func (d *DiscordNotifier) OnNewVideo(ctx context.Context, video *entity.Video) {
	if !d.IsEnabled() {
		return
	}
	if err := d.send(ctx, video); err != nil {
		logging.FromContext(ctx).Error("discord notification failed",
			slog.String("channel", d.Name()),
			slog.Uint64("video_seq", video.VideoSeq),
			slog.Any("error", err))
	}
}

// send posts the webhook payload: rate limit, then retry transient failures
// inside the circuit breaker so repeated dead-webhook sends fail fast.
func (d *DiscordNotifier) send(ctx context.Context, video *entity.Video) error {
	if err := d.rateLimiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	payload := d.buildEmbedPayload(video)
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	_, err = d.breaker.Execute(func() (interface{}, error) {
		return nil, retry.WithBackoff(ctx, d.retryConfig, func() error {
			return d.post(ctx, body)
		})
	})
	return err
}

// buildEmbedPayload creates a Discord embed from a video.
func (d *DiscordNotifier) buildEmbedPayload(video *entity.Video) discordWebhookPayload {
	title := truncate(video.Title, maxTitleLength, truncationSuffix)
	if title == "" {
		title = "New video"
	}

	description := fmt.Sprintf("%s uploaded a new %s", video.ChannelName, video.VideoType)
	if video.VideoType == entity.VideoTypeLive {
		description = fmt.Sprintf("%s is live now", video.ChannelName)
	}

	embed := discordEmbed{
		Title:       title,
		Description: description,
		URL:         videoURL(video),
		Color:       discordEmbedColor,
		Footer: discordEmbedFooter{
			Text: fmt.Sprintf("%s (%s)", video.ChannelName, video.ChannelType),
		},
	}
	if video.Thumbnail != "" {
		embed.Image = &discordEmbedImage{URL: video.Thumbnail}
	}

	return discordWebhookPayload{Embeds: []discordEmbed{embed}}
}

// post performs one webhook request. Non-2xx responses become HTTPError so
// the retry layer can tell transient failures from permanent ones.
func (d *DiscordNotifier) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("discord webhook returned %s", resp.Status),
		}
	}

	return nil
}
