// Package notifier provides webhook-backed callback sinks for the polling
// engine. Each sink implements the watch.Callback contract: delivery
// failures are retried where transient, then logged and swallowed, so a
// broken webhook never disturbs the poll loop.
package notifier

import "vlive-notify/internal/domain/entity"

const vliveBaseURL = "https://www.vlive.tv"

// videoURL builds the public watch URL for a video.
// VideoID is a site-relative path like "/video/12345".
func videoURL(video *entity.Video) string {
	if video.VideoID == "" {
		return vliveBaseURL
	}
	return vliveBaseURL + video.VideoID
}

// channelURL builds the public URL for a video's channel.
func channelURL(video *entity.Video) string {
	if video.ChannelID == "" {
		return vliveBaseURL
	}
	return vliveBaseURL + video.ChannelID
}

// truncate shortens s to at most max runes, appending the suffix when
// something was cut. Counting runes keeps multibyte titles from being split
// mid-character.
func truncate(s string, max int, suffix string) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	suffixRunes := []rune(suffix)
	if max <= len(suffixRunes) {
		return string(runes[:max])
	}
	return string(runes[:max-len(suffixRunes)]) + suffix
}
