package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/marco/cinelist/internal/catalog/cache"
	"github.com/marco/cinelist/internal/retry"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultLanguage     = "en-US"
	DefaultRegion       = "US"
	PlaceholderToken    = "YOUR_TMDB_READ_ACCESS_TOKEN_HERE"
	legacyPlaceholder   = "your_api_key_here"
	searchEndpoint      = "/search/movie"
	genreListEndpoint   = "/genre/movie/list"
	defaultCacheTTL     = 6 * time.Hour
	defaultHTTPTimeout  = 30 * time.Second
	maxErrorBodyPreview = 4096
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RetryLogFunc is a callback for logging retry attempts
type RetryLogFunc func(attempt int, maxAttempts int, backoff time.Duration, err error)

// CacheLogFunc is a callback for logging cache operations
type CacheLogFunc func(operation string, key string, hit bool)

// Client is a read-only client for the TMDB movie catalog API.
// It is safe for concurrent use.
type Client struct {
	baseURL        string
	imageBaseURL   string
	accessToken    string
	httpClient     *http.Client
	rateDelay      time.Duration
	maxAttempts    int
	initialBackoff time.Duration
	retryLogFunc   RetryLogFunc
	cache          cache.Cache
	cacheTTL       time.Duration
	cacheLogFunc   CacheLogFunc
	logger         *slog.Logger

	mu       sync.RWMutex
	defaults url.Values
}

// ClientConfig holds configuration for the catalog client
type ClientConfig struct {
	AccessToken      string
	BaseURL          string
	ImageBaseURL     string
	Language         string
	Region           string
	HTTPClient       *http.Client
	RateLimitDelayMs int
	MaxAttempts      int
	InitialBackoffMs int
	RetryLogFunc     RetryLogFunc
	Cache            cache.Cache
	CacheTTL         time.Duration
	CacheLogFunc     CacheLogFunc
	Logger           *slog.Logger
}

// NewClient creates a catalog client with default settings
func NewClient(accessToken string) *Client {
	return NewClientWithConfig(ClientConfig{AccessToken: accessToken})
}

// NewClientWithConfig creates a catalog client with full configuration
func NewClientWithConfig(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoffMs <= 0 {
		cfg.InitialBackoffMs = 500
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		imageBaseURL:   strings.TrimRight(cfg.ImageBaseURL, "/"),
		accessToken:    strings.TrimSpace(cfg.AccessToken),
		httpClient:     cfg.HTTPClient,
		rateDelay:      time.Duration(cfg.RateLimitDelayMs) * time.Millisecond,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: time.Duration(cfg.InitialBackoffMs) * time.Millisecond,
		retryLogFunc:   cfg.RetryLogFunc,
		cache:          cfg.Cache,
		cacheTTL:       cfg.CacheTTL,
		cacheLogFunc:   cfg.CacheLogFunc,
		logger:         cfg.Logger,
	}
	c.SetDefaultParams(cfg.Language, cfg.Region)
	return c
}

// HasCredential reports whether a usable access token is configured.
func (c *Client) HasCredential() bool {
	return ValidToken(c.accessToken)
}

// ValidToken reports whether token is set and is not one of the sample placeholders.
func ValidToken(token string) bool {
	token = strings.TrimSpace(token)
	return token != "" && token != PlaceholderToken && token != legacyPlaceholder
}

// SetDefaultParams replaces the locale parameters sent with every request.
// Empty values keep the current setting.
func (c *Client) SetDefaultParams(language, region string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.defaults == nil {
		c.defaults = url.Values{}
	}
	if language != "" {
		c.defaults.Set("language", language)
	}
	if region != "" {
		c.defaults.Set("region", region)
	}
}

// DefaultParams returns a copy of the parameters sent with every request.
func (c *Client) DefaultParams() url.Values {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(url.Values, len(c.defaults))
	for k, v := range c.defaults {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// buildURL merges call parameters over the defaults. Parameters only ever
// land in the query string; the endpoint path is fixed by the caller.
func (c *Client) buildURL(endpoint string, params url.Values) (string, string) {
	query := c.DefaultParams()
	for k, v := range params {
		query[k] = append([]string(nil), v...)
	}
	encoded := query.Encode()

	u := c.baseURL + endpoint
	if encoded != "" {
		u += "?" + encoded
	}
	return u, "tmdb:" + endpoint + "?" + encoded
}

// doRequestWithRetry executes an HTTP GET request with retry logic and
// returns the body of a 2xx response.
func (c *Client) doRequestWithRetry(ctx context.Context, requestURL string, authorized bool) ([]byte, error) {
	var body []byte
	requestID := uuid.NewString()

	err := retry.Retry(ctx, func() error {
		started := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return unknownError(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Accept", "application/json")
		if authorized {
			req.Header.Set("Authorization", "Bearer "+c.accessToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug("catalog request failed",
				"request_id", requestID,
				"url", redactURL(requestURL),
				"error", err,
			)
			return networkError(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return networkError(fmt.Errorf("read response body: %w", err))
		}

		c.logger.Debug("catalog request",
			"request_id", requestID,
			"url", redactURL(requestURL),
			"status", resp.StatusCode,
			"duration_ms", time.Since(started).Milliseconds(),
		)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return httpError(resp.StatusCode, data)
		}
		body = data
		return nil
	}, c.maxAttempts, c.initialBackoff, retry.OnRetryFunc(c.retryLogFunc))

	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, networkError(err)
	}
	return body, nil
}

func httpError(status int, body []byte) *Error {
	e := &Error{Kind: ErrHTTP, StatusCode: status}

	var server ServerError
	if err := json.Unmarshal(body, &server); err == nil && server.StatusMessage != "" {
		e.Message = server.StatusMessage
		e.Err = &server
		return e
	}

	e.Message = fmt.Sprintf("HTTP %d: %s", status, http.StatusText(status))
	if len(body) > 0 {
		if len(body) > maxErrorBodyPreview {
			body = body[:maxErrorBodyPreview]
		}
		e.Err = errors.New(string(body))
	}
	return e
}

// redactURL drops the query so logs stay short and never carry search terms.
func redactURL(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// getFromCache retrieves data from cache if available
func (c *Client) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	data, found := c.cache.Get(ctx, key)
	if c.cacheLogFunc != nil {
		c.cacheLogFunc("get", key, found)
	}
	return data, found
}

// setToCache stores data in cache if caching is enabled
func (c *Client) setToCache(ctx context.Context, key string, data []byte) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
		// Log error but don't fail the operation
		if c.cacheLogFunc != nil {
			c.cacheLogFunc("set_error", key, false)
		}
	} else if c.cacheLogFunc != nil {
		c.cacheLogFunc("set", key, true)
	}
}

// get runs the shared request pipeline and decodes the response into out.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if !c.HasCredential() {
		return unauthorizedError()
	}

	requestURL, cacheKey := c.buildURL(endpoint, params)

	if data, found := c.getFromCache(ctx, cacheKey); found {
		if err := json.Unmarshal(data, out); err == nil {
			return nil
		}
	}

	body, err := c.doRequestWithRetry(ctx, requestURL, true)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return unknownError(fmt.Errorf("failed to decode %s response: %w", endpoint, err))
	}

	c.setToCache(ctx, cacheKey, body)
	c.pause(ctx)
	return nil
}

// pause applies the configured rate-limit delay between requests.
func (c *Client) pause(ctx context.Context) {
	if c.rateDelay <= 0 {
		return
	}
	t := time.NewTimer(c.rateDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{"page": {strconv.Itoa(page)}}
}

func (c *Client) getList(ctx context.Context, endpoint string, params url.Values) (*MovieListResponse, error) {
	var resp MovieListResponse
	if err := c.get(ctx, endpoint, params, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []Movie{}
	}
	return &resp, nil
}

// FetchByCategory fetches one page of a category list.
// An unknown category fails with ErrInvalidArgument before any request is made.
func (c *Client) FetchByCategory(ctx context.Context, category Category, page int) (*MovieListResponse, error) {
	meta, ok := CategoryInfo(category)
	if !ok {
		return nil, invalidArgument("Invalid category: %s", category)
	}
	return c.getList(ctx, meta.Endpoint, pageParams(page))
}

// FetchDetails fetches detailed information about a movie
func (c *Client) FetchDetails(ctx context.Context, movieID int) (*MovieDetails, error) {
	if movieID <= 0 {
		return nil, invalidArgument("Invalid movie id: %d", movieID)
	}
	var details MovieDetails
	if err := c.get(ctx, fmt.Sprintf("/movie/%d", movieID), nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// FetchCredits fetches cast and crew information
func (c *Client) FetchCredits(ctx context.Context, movieID int) (*Credits, error) {
	if movieID <= 0 {
		return nil, invalidArgument("Invalid movie id: %d", movieID)
	}
	var credits Credits
	if err := c.get(ctx, fmt.Sprintf("/movie/%d/credits", movieID), nil, &credits); err != nil {
		return nil, err
	}
	if credits.ID == 0 {
		credits.ID = movieID
	}
	return &credits, nil
}

// FetchRecommendations fetches movies recommended for movieID.
func (c *Client) FetchRecommendations(ctx context.Context, movieID int, page int) (*MovieListResponse, error) {
	if movieID <= 0 {
		return nil, invalidArgument("Invalid movie id: %d", movieID)
	}
	return c.getList(ctx, fmt.Sprintf("/movie/%d/recommendations", movieID), pageParams(page))
}

// FetchSimilar fetches movies similar to movieID.
func (c *Client) FetchSimilar(ctx context.Context, movieID int, page int) (*MovieListResponse, error) {
	if movieID <= 0 {
		return nil, invalidArgument("Invalid movie id: %d", movieID)
	}
	return c.getList(ctx, fmt.Sprintf("/movie/%d/similar", movieID), pageParams(page))
}

// FetchGenres fetches the movie genre list.
func (c *Client) FetchGenres(ctx context.Context) ([]Genre, error) {
	var list GenreList
	if err := c.get(ctx, genreListEndpoint, nil, &list); err != nil {
		return nil, err
	}
	return list.Genres, nil
}

// Search searches movies by title. A blank query returns an empty first
// page without touching the network.
func (c *Client) Search(ctx context.Context, query string, page int) (*MovieListResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return EmptyListResponse(), nil
	}
	params := pageParams(page)
	params.Set("query", query)
	return c.getList(ctx, searchEndpoint, params)
}
