// Package youtube fetches video metadata from the YouTube Data API v3.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"ytnote/internal/contextutil"
	"ytnote/internal/retry"
)

// maxThumbnailBytes caps thumbnail downloads; maxres JPEGs are well below it.
const maxThumbnailBytes = 10 << 20

var (
	// ErrMissingAPIKey is returned when no Google Cloud API key is configured.
	ErrMissingAPIKey = errors.New("youtube api key is not configured")
	// ErrVideoNotFound is returned when the API knows no video with the given ID.
	ErrVideoNotFound = errors.New("video not found")
)

// APIError wraps a failed YouTube API operation.
type APIError struct {
	Op      string
	VideoID string
	Err     error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("youtube %s %s: %v", e.Op, e.VideoID, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Thumbnail is the best available preview image of a video.
type Thumbnail struct {
	URL  string
	Data []byte
}

// Video holds the metadata a note is rendered from.
type Video struct {
	ID           string
	Title        string
	Description  string
	ChannelID    string
	ChannelTitle string
	Subscribers  uint64
	// Duration is the raw ISO-8601 duration, e.g. PT4M13S.
	Duration    string
	PublishedAt time.Time
	Tags        []string
	Thumbnail   Thumbnail
}

// URL returns the canonical watch URL of the video.
func (v *Video) URL() string {
	return "https://www.youtube.com/watch?v=" + v.ID
}

// Options configures a Client.
type Options struct {
	// Endpoint overrides the API base URL. Empty uses Google's endpoint.
	Endpoint string
	// Retry controls retries of API calls.
	Retry retry.Config
	// HTTPClient downloads thumbnails. Defaults to a client with a 30s timeout.
	HTTPClient *http.Client
}

// Client fetches video metadata. The API key is supplied per call because it
// is a user setting that can change while the process runs.
type Client struct {
	endpoint   string
	retry      retry.Config
	httpClient *http.Client

	mu       sync.Mutex
	services map[string]*yt.Service
}

// NewClient creates a new YouTube client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		endpoint:   opts.Endpoint,
		retry:      opts.Retry,
		httpClient: httpClient,
		services:   make(map[string]*yt.Service),
	}
}

// service returns the API service for apiKey, creating it on first use.
func (c *Client) service(ctx context.Context, apiKey string) (*yt.Service, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if svc, ok := c.services[apiKey]; ok {
		return svc, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimSuffix(c.endpoint, "/")+"/"))
	}

	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}
	c.services[apiKey] = svc
	return svc, nil
}

// FetchVideo loads the snippet and content details of a video, then fetches
// the channel's subscriber count and the thumbnail image in parallel.
// A thumbnail that cannot be downloaded is logged and left empty.
func (c *Client) FetchVideo(ctx context.Context, apiKey, videoID string) (*Video, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	svc, err := c.service(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	var item *yt.Video
	err = retry.Do(ctx, c.retry, classifyAPIError, func(ctx context.Context) error {
		resp, err := svc.Videos.List([]string{"snippet", "contentDetails"}).
			Id(videoID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			return ErrVideoNotFound
		}
		item = resp.Items[0]
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrVideoNotFound) {
			return nil, ErrVideoNotFound
		}
		return nil, &APIError{Op: "videos.list", VideoID: videoID, Err: err}
	}

	video := newVideo(item)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		subs, err := c.subscribers(gctx, svc, video.ChannelID)
		if err != nil {
			return &APIError{Op: "channels.list", VideoID: videoID, Err: err}
		}
		video.Subscribers = subs
		return nil
	})
	if video.Thumbnail.URL != "" {
		g.Go(func() error {
			data, err := c.download(gctx, video.Thumbnail.URL)
			if err != nil {
				logger.WarnContext(ctx, "thumbnail download failed", "video_id", videoID, "url", video.Thumbnail.URL, "error", err)
				return nil
			}
			video.Thumbnail.Data = data
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.DebugContext(ctx, "fetched video metadata",
		"video_id", videoID,
		"channel", video.ChannelTitle,
		"thumbnail_bytes", len(video.Thumbnail.Data),
	)
	return video, nil
}

// subscribers returns the channel's public subscriber count, 0 when hidden.
func (c *Client) subscribers(ctx context.Context, svc *yt.Service, channelID string) (uint64, error) {
	if channelID == "" {
		return 0, nil
	}

	var count uint64
	err := retry.Do(ctx, c.retry, classifyAPIError, func(ctx context.Context) error {
		resp, err := svc.Channels.List([]string{"statistics"}).
			Id(channelID).
			Context(ctx).
			Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 || resp.Items[0].Statistics == nil {
			return nil
		}
		stats := resp.Items[0].Statistics
		if !stats.HiddenSubscriberCount {
			count = stats.SubscriberCount
		}
		return nil
	})
	return count, err
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxThumbnailBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > maxThumbnailBytes {
		return nil, fmt.Errorf("thumbnail exceeds %d bytes", maxThumbnailBytes)
	}
	return data, nil
}

func newVideo(item *yt.Video) *Video {
	v := &Video{ID: item.Id}
	if s := item.Snippet; s != nil {
		v.Title = s.Title
		v.Description = s.Description
		v.ChannelID = s.ChannelId
		v.ChannelTitle = s.ChannelTitle
		v.Tags = s.Tags
		if t, err := time.Parse(time.RFC3339, s.PublishedAt); err == nil {
			v.PublishedAt = t
		}
		v.Thumbnail.URL = bestThumbnail(s.Thumbnails)
	}
	if item.ContentDetails != nil {
		v.Duration = item.ContentDetails.Duration
	}
	return v
}

// bestThumbnail picks the highest resolution thumbnail available.
func bestThumbnail(d *yt.ThumbnailDetails) string {
	if d == nil {
		return ""
	}
	for _, t := range []*yt.Thumbnail{d.Maxres, d.Standard, d.High, d.Medium, d.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

// classifyAPIError retries server errors and rate limiting only.
func classifyAPIError(err error) bool {
	if err == nil || errors.Is(err, ErrVideoNotFound) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500
	}

	return true
}
