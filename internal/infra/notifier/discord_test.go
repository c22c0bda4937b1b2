package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"vlive-notify/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVideo() *entity.Video {
	return &entity.Video{
		VideoID:     "/video/12345",
		VideoSeq:    12345,
		Title:       "Comeback Stage",
		VideoType:   entity.VideoTypeVOD,
		Thumbnail:   "http://img.example.com/thumb.jpg",
		ChannelID:   "/channels/ABC",
		ChannelSeq:  7,
		ChannelName: "Test Channel",
		ChannelType: entity.ChannelTypeBasic,
	}
}

func TestDiscordNotifier_OnNewVideo_SendsEmbed(t *testing.T) {
	var calls atomic.Int32
	var payload discordWebhookPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(DiscordConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Timeout:    5 * time.Second,
	})

	n.OnNewVideo(context.Background(), testVideo())

	assert.Equal(t, int32(1), calls.Load())
	require.Len(t, payload.Embeds, 1)
	embed := payload.Embeds[0]
	assert.Equal(t, "Comeback Stage", embed.Title)
	assert.Equal(t, "https://www.vlive.tv/video/12345", embed.URL)
	require.NotNil(t, embed.Image)
	assert.Equal(t, "http://img.example.com/thumb.jpg", embed.Image.URL)
	assert.Contains(t, embed.Footer.Text, "Test Channel")
}

func TestDiscordNotifier_OnNewVideo_LiveDescription(t *testing.T) {
	var payload discordWebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	n := NewDiscordNotifier(DiscordConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Timeout:    5 * time.Second,
	})

	video := testVideo()
	video.VideoType = entity.VideoTypeLive
	video.Thumbnail = ""
	n.OnNewVideo(context.Background(), video)

	require.Len(t, payload.Embeds, 1)
	assert.Equal(t, "Test Channel is live now", payload.Embeds[0].Description)
	assert.Nil(t, payload.Embeds[0].Image)
}

func TestDiscordNotifier_Disabled_NoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	n := NewDiscordNotifier(DiscordConfig{
		Enabled:    false,
		WebhookURL: server.URL,
		Timeout:    5 * time.Second,
	})

	n.OnNewVideo(context.Background(), testVideo())

	assert.Zero(t, calls.Load())
}

func TestDiscordNotifier_ClientError_NoRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewDiscordNotifier(DiscordConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Timeout:    5 * time.Second,
	})

	// Errors are swallowed; a 4xx must not be retried.
	n.OnNewVideo(context.Background(), testVideo())

	assert.Equal(t, int32(1), calls.Load())
}

func TestDiscordNotifier_BreakerOpensAfterSustainedFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	n := NewDiscordNotifier(DiscordConfig{
		Enabled:    true,
		WebhookURL: server.URL,
		Timeout:    5 * time.Second,
	})
	// Generous limiter so the test exercises the breaker, not the rate limit.
	n.rateLimiter = NewRateLimiter(1000, 1000)

	for i := 0; i < 5; i++ {
		n.OnNewVideo(context.Background(), testVideo())
	}
	require.Equal(t, int32(5), calls.Load())
	assert.True(t, n.breaker.IsOpen())

	n.OnNewVideo(context.Background(), testVideo())
	assert.Equal(t, int32(5), calls.Load(), "open breaker must not reach the webhook")
}

func TestDiscordNotifier_IsEnabled(t *testing.T) {
	assert.False(t, NewDiscordNotifier(DiscordConfig{Enabled: true}).IsEnabled(),
		"enabled without webhook URL must stay disabled")
	assert.True(t, NewDiscordNotifier(DiscordConfig{
		Enabled:    true,
		WebhookURL: "https://discord.com/api/webhooks/x",
	}).IsEnabled())
}
