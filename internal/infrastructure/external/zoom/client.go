// Package zoom integrates with the Zoom cloud recording API using
// Server-to-Server OAuth. It lists recordings, fetches per-meeting recording
// files, and downloads VTT transcripts.
package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	apperrors "github.com/snapshotdev/snapshot-server/errors"
	"github.com/snapshotdev/snapshot-server/pkg/config"
)

const (
	zoomAPIBaseURL = "https://api.zoom.us/v2"
	zoomTokenURL   = "https://zoom.us/oauth/token"

	maxAPIRetries = 3
)

// RecordingFile is one file attached to a cloud recording.
type RecordingFile struct {
	ID            string `json:"id"`
	FileType      string `json:"file_type"`
	FileExtension string `json:"file_extension"`
	DownloadURL   string `json:"download_url"`
	RecordingType string `json:"recording_type"`
}

// Meeting is one recorded meeting with its files.
type Meeting struct {
	UUID           string          `json:"uuid"`
	ID             int64           `json:"id"`
	Topic          string          `json:"topic"`
	StartTime      time.Time       `json:"start_time"`
	Duration       int             `json:"duration"`
	RecordingFiles []RecordingFile `json:"recording_files"`
}

// RecordingList is the result of a recordings listing.
type RecordingList struct {
	Meetings   []Meeting `json:"meetings"`
	FromDate   string    `json:"from_date"`
	ToDate     string    `json:"to_date"`
	TotalCount int       `json:"total_count"`
}

// Client calls the Zoom API with Server-to-Server OAuth credentials.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cfg        *config.Config
	logger     *zap.Logger

	mu        sync.Mutex
	listCache map[string]cachedList
	cacheTTL  time.Duration
	userID    string
}

type cachedList struct {
	list       *RecordingList
	expireTime time.Time
}

// NewClient creates a Zoom API client. The OAuth token is requested with the
// account_credentials grant and refreshed automatically.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return newClient(cfg, logger, zoomTokenURL, zoomAPIBaseURL)
}

func newClient(cfg *config.Config, logger *zap.Logger, tokenURL, baseURL string) *Client {
	cc := &clientcredentials.Config{
		ClientID:     cfg.Zoom.ClientID,
		ClientSecret: cfg.Zoom.ClientSecret,
		TokenURL:     tokenURL,
		EndpointParams: url.Values{
			"grant_type": {"account_credentials"},
			"account_id": {cfg.Zoom.AccountID},
		},
	}

	httpClient := cc.Client(context.Background())
	httpClient.Timeout = cfg.Zoom.APITimeout

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		cfg:        cfg,
		logger:     logger,
		listCache:  map[string]cachedList{},
		cacheTTL:   cfg.Zoom.CacheTTL,
		userID:     "me",
	}
}

// ListRecordings lists cloud recordings in the date range, optionally
// filtered to meetings that have a VTT transcript. Results are cached for
// the configured TTL.
func (c *Client) ListRecordings(ctx context.Context, fromDate, toDate string, pageSize int, hasTranscript bool) (*RecordingList, error) {
	if toDate == "" {
		toDate = time.Now().Format("2006-01-02")
	}
	if fromDate == "" {
		fromDate = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}
	if pageSize <= 0 {
		pageSize = 30
	}

	cacheKey := fmt.Sprintf("recordings_%s_%s_%s_%v", c.userID, fromDate, toDate, hasTranscript)
	if cached, ok := c.cachedList(cacheKey); ok {
		c.logger.Info("returning cached recordings list", zap.String("cache_key", cacheKey))
		return cached, nil
	}

	c.logger.Info("listing Zoom recordings",
		zap.String("from_date", fromDate),
		zap.String("to_date", toDate),
		zap.Int("page_size", pageSize),
	)

	endpoint := fmt.Sprintf("/users/%s/recordings", c.userID)
	params := url.Values{
		"from":      {fromDate},
		"to":        {toDate},
		"page_size": {strconv.Itoa(pageSize)},
	}

	var payload struct {
		Meetings []Meeting `json:"meetings"`
	}
	if err := c.apiRequest(ctx, http.MethodGet, endpoint, params, &payload); err != nil {
		return nil, err
	}

	meetings := payload.Meetings
	if hasTranscript {
		meetings = FilterWithTranscripts(meetings)
	}

	list := &RecordingList{
		Meetings:   meetings,
		FromDate:   fromDate,
		ToDate:     toDate,
		TotalCount: len(meetings),
	}

	c.storeList(cacheKey, list)
	return list, nil
}

// GetMeetingRecordings fetches the recording files for one meeting.
func (c *Client) GetMeetingRecordings(ctx context.Context, meetingID string) (*Meeting, error) {
	c.logger.Info("fetching meeting recordings", zap.String("meeting_id", meetingID))

	var meeting Meeting
	endpoint := fmt.Sprintf("/meetings/%s/recordings", url.PathEscape(meetingID))
	if err := c.apiRequest(ctx, http.MethodGet, endpoint, nil, &meeting); err != nil {
		return nil, err
	}
	return &meeting, nil
}

// DownloadTranscript downloads VTT transcript content from a recording
// file's download URL.
func (c *Client) DownloadTranscript(ctx context.Context, downloadURL string) (string, error) {
	var content string

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("HTTP %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		content = string(body)
		return nil
	}

	if err := c.retry(ctx, operation); err != nil {
		return "", apperrors.ErrZoomAPIFailed("transcript download", err)
	}

	c.logger.Info("transcript downloaded", zap.Int("content_length", len(content)))
	return content, nil
}

// apiRequest performs one authenticated API call with retry and decodes the
// JSON response into out.
func (c *Client) apiRequest(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	if !c.cfg.ZoomConfigured() {
		return apperrors.ErrZoomAuthFailed(fmt.Errorf("credentials not configured"))
	}

	reqURL := c.baseURL + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if strings.Contains(err.Error(), "oauth2") {
				return backoff.Permanent(err)
			}
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err := fmt.Errorf("HTTP %d", resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}

		return json.NewDecoder(resp.Body).Decode(out)
	}

	if err := c.retry(ctx, operation); err != nil {
		c.logger.Error("Zoom API request failed",
			zap.String("endpoint", endpoint), zap.Error(err))
		return apperrors.ErrZoomAPIFailed(endpoint, err)
	}
	return nil
}

func (c *Client) retry(ctx context.Context, operation func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	return backoff.Retry(operation, backoff.WithMaxRetries(backoff.WithContext(bo, ctx), maxAPIRetries))
}

func (c *Client) cachedList(key string) (*RecordingList, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cached, ok := c.listCache[key]
	if !ok || time.Now().After(cached.expireTime) {
		return nil, false
	}
	return cached.list, true
}

func (c *Client) storeList(key string, list *RecordingList) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.listCache[key] = cachedList{list: list, expireTime: time.Now().Add(c.cacheTTL)}
}

// FilterWithTranscripts keeps only meetings that have a VTT transcript file.
func FilterWithTranscripts(meetings []Meeting) []Meeting {
	filtered := []Meeting{}
	for _, meeting := range meetings {
		if FindTranscriptFile(meeting.RecordingFiles) != nil {
			filtered = append(filtered, meeting)
		}
	}
	return filtered
}

// SearchByTopic filters meetings by case-insensitive topic substring match.
func SearchByTopic(meetings []Meeting, query string) []Meeting {
	if query == "" {
		return meetings
	}

	queryLower := strings.ToLower(query)
	filtered := []Meeting{}
	for _, meeting := range meetings {
		if strings.Contains(strings.ToLower(meeting.Topic), queryLower) {
			filtered = append(filtered, meeting)
		}
	}
	return filtered
}

// FindTranscriptFile returns the VTT transcript file, or nil if absent.
func FindTranscriptFile(files []RecordingFile) *RecordingFile {
	for i := range files {
		if files[i].FileType == "TRANSCRIPT" && files[i].FileExtension == "VTT" {
			return &files[i]
		}
	}
	return nil
}
