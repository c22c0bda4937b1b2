// Package scraper implements the SnapshotFetcher contract against the VLive
// recent-videos page. It fetches the page over HTTP, parses it with goquery
// and extracts one Video per candidate node, skipping nodes that cannot be
// parsed.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vlive-notify/internal/domain/entity"
	"vlive-notify/internal/resilience/circuitbreaker"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
)

const (
	maxBodySize = 10 * 1024 * 1024 // 10MB

	// videoNodeSelector matches one candidate node per video entry.
	videoNodeSelector = ".video_list_cont"

	userAgent = "VLiveNotifyBot/1.0"
)

// Page size bounds for the recents endpoint. The upstream serves 5-15
// entries per page; a larger page shrinks the window in which the cursor
// video can rotate out between polls.
const (
	DefaultPageSize = 10
	MinPageSize     = 5
	MaxPageSize     = 15
)

const recentsEndpoint = "https://www.vlive.tv/home/video/more"

// RecentsURL builds the recent-videos feed URL for the given page size.
// Page sizes outside [MinPageSize, MaxPageSize] are clamped.
func RecentsURL(pageSize int) string {
	if pageSize < MinPageSize {
		pageSize = MinPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	q := url.Values{}
	q.Set("pageNo", "1")
	q.Set("pageSize", strconv.Itoa(pageSize))
	q.Set("viewType", "recent")
	return recentsEndpoint + "?" + q.Encode()
}

// RecentsScraper fetches and parses the recent-videos page.
// It implements the watch.SnapshotFetcher contract: any network or HTTP
// failure is returned as an error the engine treats as transient, and
// unparseable entries are skipped individually.
type RecentsScraper struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewRecentsScraper creates a RecentsScraper with the given HTTP client.
// The fetch runs through a circuit breaker so a dead upstream fails fast
// instead of costing a full round trip on every tick.
func NewRecentsScraper(client *http.Client) *RecentsScraper {
	return &RecentsScraper{
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedWatchConfig()),
	}
}

// Fetch retrieves one freshest-first snapshot of the recent-videos page.
func (s *RecentsScraper) Fetch(ctx context.Context, feedURL string) ([]*entity.Video, error) {
	result, err := s.circuitBreaker.Execute(func() (interface{}, error) {
		return s.doFetch(ctx, feedURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("feed watch circuit breaker open, fetch rejected",
				slog.String("url", feedURL),
				slog.String("state", s.circuitBreaker.State().String()))
		}
		return nil, err
	}

	return result.([]*entity.Video), nil
}

// doFetch performs the actual fetch and parse without the circuit breaker.
func (s *RecentsScraper) doFetch(ctx context.Context, feedURL string) ([]*entity.Video, error) {
	doc, err := s.fetchHTML(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch HTML failed: %w", err)
	}

	return s.extractSnapshot(doc), nil
}

// fetchHTML fetches and parses HTML from the given URL.
func (s *RecentsScraper) fetchHTML(ctx context.Context, urlStr string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	// Limit body size to prevent memory exhaustion
	limitedReader := io.LimitReader(resp.Body, maxBodySize)

	doc, err := goquery.NewDocumentFromReader(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	return doc, nil
}

// extractSnapshot runs the extractor over every candidate node, preserving
// the page's freshest-first order. Nodes that fail extraction are logged and
// skipped; they are never fatal for the snapshot.
func (s *RecentsScraper) extractSnapshot(doc *goquery.Document) []*entity.Video {
	var snapshot []*entity.Video

	doc.Find(videoNodeSelector).Each(func(i int, node *goquery.Selection) {
		video, err := ExtractVideo(node)
		if err != nil {
			slog.Warn("skipping unparseable video node",
				slog.Int("index", i),
				slog.Any("error", err))
			return
		}
		snapshot = append(snapshot, video)
	})

	return snapshot
}

// newHTTPClient returns an HTTP client suitable for polling the feed.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// NewDefaultScraper creates a RecentsScraper with a default HTTP client.
func NewDefaultScraper(timeout time.Duration) *RecentsScraper {
	return NewRecentsScraper(newHTTPClient(timeout))
}
