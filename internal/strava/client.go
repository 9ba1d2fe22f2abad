package strava

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the Strava v3 API root
const DefaultBaseURL = "https://www.strava.com/api/v3"

// maxPerPage is the largest page Strava serves
const maxPerPage = 100

// ErrUnauthorized is returned when Strava rejects the access token
var ErrUnauthorized = errors.New("strava rejected the access token")

// Client is a Strava API client
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithBaseURL points the client at another API root
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = u }
}

// WithRateLimiter replaces the default rate limiter
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) { c.rateLimiter = r }
}

// NewClient creates a Strava API client that authenticates with tokenSource
func NewClient(ctx context.Context, tokenSource oauth2.TokenSource, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:     DefaultBaseURL,
		httpClient:  oauth2.NewClient(ctx, tokenSource),
		rateLimiter: NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetActivities fetches one page of activities started after 'after'
func (c *Client) GetActivities(ctx context.Context, after time.Time, page, perPage int) ([]Activity, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	if !after.IsZero() {
		params.Set("after", strconv.FormatInt(after.Unix(), 10))
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	resp, err := c.get(ctx, "/athlete/activities", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var activities []Activity
	if err := json.NewDecoder(resp.Body).Decode(&activities); err != nil {
		return nil, fmt.Errorf("decoding activities: %w", err)
	}

	return activities, nil
}

// GetAllActivities pages through every activity after 'after'
func (c *Client) GetAllActivities(ctx context.Context, after time.Time, onProgress func(fetched int)) ([]Activity, error) {
	var all []Activity

	for page := 1; ; page++ {
		activities, err := c.GetActivities(ctx, after, page, maxPerPage)
		if err != nil {
			return all, fmt.Errorf("fetching page %d: %w", page, err)
		}

		all = append(all, activities...)
		if onProgress != nil && len(activities) > 0 {
			onProgress(len(all))
		}

		if len(activities) < maxPerPage {
			return all, nil
		}
	}
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (shortRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.rateLimiter.UpdateFromHeaders(resp.Header)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
