// Package resilience provides fault tolerance patterns for outbound calls:
// a circuit breaker around the feed fetch and retry with exponential backoff
// for webhook delivery.
//
// Usage Example:
//
//	cb := circuitbreaker.New(circuitbreaker.FeedWatchConfig())
//	result, err := cb.Execute(func() (interface{}, error) {
//	    return fetchFeed()
//	})
//
//	err := retry.WithBackoff(ctx, retry.WebhookConfig(), func() error {
//	    return postWebhook()
//	})
package resilience
