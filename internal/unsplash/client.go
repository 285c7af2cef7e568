package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jxwalker/pixnix/internal/config"
	"github.com/jxwalker/pixnix/internal/logging"
	"github.com/jxwalker/pixnix/internal/metrics"
)

// DefaultPerPage is the page size the API allows at most.
const DefaultPerPage = 30

const maxBody = 16 << 20

// Query describes one page request. An empty Term selects the listing endpoint.
type Query struct {
	Term        string
	Page        int
	PerPage     int
	Orientation Orientation
}

type searchResponse struct {
	Total      int     `json:"total"`
	TotalPages int     `json:"total_pages"`
	Results    []Photo `json:"results"`
}

type apiErrorBody struct {
	Errors []string `json:"errors"`
}

type Client struct {
	BaseURL   string
	AccessKey string
	PerPage   int
	UserAgent string
	HTTP      *http.Client
	Cache     *Cache
	Log       *logging.Logger
	Metrics   *metrics.Manager
}

// New builds a client from configuration. The response cache is enabled when cache.ttl_minutes > 0.
func New(cfg *config.Config, log *logging.Logger, m *metrics.Manager) *Client {
	per := cfg.API.PerPage
	if per <= 0 {
		per = DefaultPerPage
	}
	return &Client{
		BaseURL:   strings.TrimRight(cfg.API.BaseURL, "/"),
		AccessKey: cfg.AccessKey(),
		PerPage:   per,
		UserAgent: UserAgent(cfg),
		HTTP:      NewHTTPClient(cfg),
		Cache:     NewCache(CachePath(cfg.General.DataRoot), time.Duration(cfg.Cache.TTLMinutes)*time.Minute),
		Log:       log,
		Metrics:   m,
	}
}

// Fetch retrieves one page of photos from the search or listing endpoint and
// normalises both response shapes to a flat slice.
func (c *Client) Fetch(ctx context.Context, q Query) ([]Photo, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	per := q.PerPage
	if per <= 0 {
		per = c.PerPage
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(per))

	term := strings.TrimSpace(q.Term)
	if term == "" {
		var photos []Photo
		if err := c.getJSON(ctx, "/photos", params, &photos); err != nil {
			return nil, err
		}
		c.Metrics.IncPagesFetched()
		return photos, nil
	}

	orientation := q.Orientation
	if orientation == "" {
		orientation = Landscape
	}
	params.Set("query", term)
	params.Set("orientation", string(orientation))
	var res searchResponse
	if err := c.getJSON(ctx, "/search/photos", params, &res); err != nil {
		return nil, err
	}
	c.Metrics.IncPagesFetched()
	return res.Results, nil
}

// Photo fetches a single record by id.
func (c *Client) Photo(ctx context.Context, id string) (Photo, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Photo{}, errors.New("photo id is empty")
	}
	var p Photo
	if err := c.getJSON(ctx, "/photos/"+url.PathEscape(id), url.Values{}, &p); err != nil {
		return Photo{}, err
	}
	return p, nil
}

// TrackDownload notifies the API that a photo was selected for download.
// The response body is discarded.
func (c *Client) TrackDownload(ctx context.Context, downloadLocation string) error {
	loc := strings.TrimSpace(downloadLocation)
	if loc == "" {
		return errors.New("photo has no download_location")
	}
	u, err := url.Parse(loc)
	if err != nil {
		return fmt.Errorf("parse download_location: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Version", "v1")
	if c.trustedHost(u.Hostname()) && c.AccessKey != "" {
		req.Header.Set("Authorization", "Client-ID "+c.AccessKey)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Metrics.IncTrackingFailures()
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
	if resp.StatusCode/100 != 2 {
		c.Metrics.IncTrackingFailures()
		return newAPIError(resp, u.Path, nil)
	}
	c.Log.Debugf("tracked download %s", logging.SanitizeURL(loc))
	return nil
}

// Image downloads a preview-sized image body. No credentials are sent.
func (c *Client) Image(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("preview %s: %s", logging.SanitizeURL(rawURL), resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	key := path
	if enc := params.Encode(); enc != "" {
		key += "?" + enc
	}
	if body, ok := c.Cache.Get(key); ok {
		if err := json.Unmarshal(body, out); err == nil {
			c.Log.Debugf("cache hit %s", key)
			return nil
		}
	}

	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	if c.AccessKey != "" {
		q.Set("client_id", c.AccessKey)
	}
	full := c.BaseURL + path
	if enc := q.Encode(); enc != "" {
		full += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("User-Agent", c.UserAgent)
	if c.AccessKey != "" {
		req.Header.Set("Authorization", "Client-ID "+c.AccessKey)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Metrics.IncAPIErrors()
		if ctx.Err() == nil {
			c.Log.Warnf("GET %s: %v", logging.SanitizeURL(full), err)
		}
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		c.Metrics.IncAPIErrors()
		return fmt.Errorf("read %s: %w", path, err)
	}
	if resp.StatusCode/100 != 2 {
		c.Metrics.IncAPIErrors()
		apiErr := newAPIError(resp, path, body)
		c.Log.Warnf("GET %s: %s", logging.SanitizeURL(full), resp.Status)
		return apiErr
	}
	c.Log.Debugf("GET %s %s in %s", logging.SanitizeURL(full), resp.Status, time.Since(start).Round(time.Millisecond))
	if err := json.Unmarshal(body, out); err != nil {
		c.Metrics.IncAPIErrors()
		return fmt.Errorf("decode %s: %w", path, err)
	}
	if err := c.Cache.Set(key, body); err != nil {
		c.Log.Debugf("cache write: %v", err)
	}
	return nil
}

func (c *Client) trustedHost(h string) bool {
	if hostIs(h, "unsplash.com") {
		return true
	}
	if u, err := url.Parse(c.BaseURL); err == nil {
		return strings.EqualFold(u.Hostname(), h)
	}
	return false
}

// Host is the API hostname, used to tailor error guidance.
func (c *Client) Host() string {
	if u, err := url.Parse(c.BaseURL); err == nil {
		return u.Hostname()
	}
	return ""
}

func newAPIError(resp *http.Response, path string, body []byte) *APIError {
	e := &APIError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Path:       path,
		Remaining:  resp.Header.Get("X-Ratelimit-Remaining"),
		RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
	}
	if len(body) > 0 {
		var eb apiErrorBody
		if json.Unmarshal(body, &eb) == nil && len(eb.Errors) > 0 {
			e.Body = eb.Errors[0]
		}
	}
	return e
}
