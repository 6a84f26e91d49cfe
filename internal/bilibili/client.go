package bilibili

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.bilibili.com"

// Client talks to the Bilibili web API. All requests go through a shared
// rate limiter to avoid remote throttling.
type Client struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewClient creates a Client. delayMs is the minimum spacing between
// consecutive requests, in milliseconds.
func NewClient(delayMs int, userAgent string) *Client {
	if delayMs <= 0 {
		delayMs = 200
	}
	return &Client{
		baseURL:   defaultBaseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
		limiter:   rate.NewLimiter(rate.Every(time.Duration(delayMs)*time.Millisecond), 1),
		userAgent: userAgent,
	}
}

// NewClientWithBaseURL creates a Client against a custom API host.
// Used by tests to point at an httptest server.
func NewClientWithBaseURL(baseURL string, delayMs int) *Client {
	c := NewClient(delayMs, "")
	c.baseURL = baseURL
	return c
}

type apiEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// get performs a rate-limited GET and decodes the standard {code, message,
// data} envelope, returning the raw data payload.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Referer", "https://www.bilibili.com")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bilibili API returned %d: %s", resp.StatusCode, string(body))
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if envelope.Code != 0 {
		return nil, fmt.Errorf("bilibili API error %d: %s", envelope.Code, envelope.Message)
	}

	return envelope.Data, nil
}

// ListVideos fetches one page of the user's submitted videos, newest first.
// An empty slice means the listing is exhausted.
func (c *Client) ListVideos(ctx context.Context, uid int64, page, pageSize int) ([]VideoListItem, error) {
	params := url.Values{}
	params.Set("mid", fmt.Sprintf("%d", uid))
	params.Set("pn", fmt.Sprintf("%d", page))
	params.Set("ps", fmt.Sprintf("%d", pageSize))
	params.Set("order", "pubdate")

	data, err := c.get(ctx, "/x/space/arc/search", params)
	if err != nil {
		return nil, err
	}

	var listing videoListData
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode video list: %w", err)
	}

	return listing.List.VList, nil
}

// GetVideoInfo fetches the full detail record for one video.
func (c *Client) GetVideoInfo(ctx context.Context, bvid string) (*VideoInfo, error) {
	params := url.Values{}
	params.Set("bvid", bvid)

	data, err := c.get(ctx, "/x/web-interface/view", params)
	if err != nil {
		return nil, err
	}

	var info VideoInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode video info: %w", err)
	}

	return &info, nil
}

// GetDanmakus fetches the danmaku stream for a video part (cid).
// The endpoint returns XML, not the standard JSON envelope.
func (c *Client) GetDanmakus(ctx context.Context, cid int64) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/x/v1/dm/list.so?oid=%d", c.baseURL, cid)
	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Referer", "https://www.bilibili.com")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("danmaku API returned %d", resp.StatusCode)
	}

	var doc danmakuDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode danmaku XML: %w", err)
	}

	texts := make([]string, 0, len(doc.Items))
	for _, d := range doc.Items {
		texts = append(texts, d.Text)
	}
	return texts, nil
}

// GetFollowerCount fetches the user's current follower count.
func (c *Client) GetFollowerCount(ctx context.Context, uid int64) (int64, error) {
	params := url.Values{}
	params.Set("vmid", fmt.Sprintf("%d", uid))

	data, err := c.get(ctx, "/x/relation/stat", params)
	if err != nil {
		return 0, err
	}

	var stat relationStat
	if err := json.Unmarshal(data, &stat); err != nil {
		return 0, fmt.Errorf("failed to decode relation stat: %w", err)
	}

	return stat.Follower, nil
}
