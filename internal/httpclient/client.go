// Package httpclient implements the Fizzy API request pipeline: URL
// resolution, credential injection, retries with backoff, ETag caching,
// Link-header pagination, and error classification.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fizzy-hq/fizzy-cli/internal/auth"
	"github.com/fizzy-hq/fizzy-cli/internal/constants"
	"github.com/fizzy-hq/fizzy-cli/pkg/fizzy"
	"github.com/hashicorp/go-retryablehttp"
)

// Request represents an API request.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	RawBody []byte
	// ContentType is only consulted for RawBody requests (multipart bodies
	// carry their boundary in it). JSON bodies set their own.
	ContentType string
	Headers     map[string]string
}

// Response represents an API response with its decoded metadata.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	ETag       string
	Links      fizzy.Links
	// FromCache is true when the body was served from the ETag cache after
	// a 304 revalidation.
	FromCache bool
}

// Client is the HTTP client for the Fizzy API. One client serves one
// command invocation; requests are sequential, so the cache needs no
// coordination beyond its own internals.
type Client struct {
	baseURL      string
	account      string
	tokenManager auth.TokenManager
	httpClient   *retryablehttp.Client
	cache        *fizzy.CacheManager
	memory       *fizzy.MemoryCache
	interceptors *fizzy.InterceptorChain
	retryPolicy  RetryPolicy
	userAgent    string
	logger       fizzy.Logger
	debug        bool
	timeout      time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets the structured logger.
func WithLogger(logger fizzy.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging through the logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryPolicy overrides the retry policy.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retryPolicy = policy
	}
}

// WithCache replaces the default in-memory response cache. Pass a
// fizzy.NoOpCache to disable caching.
func WithCache(cache fizzy.Cache) Option {
	return func(c *Client) {
		c.memory = nil
		if memory, ok := cache.(*fizzy.MemoryCache); ok {
			c.memory = memory
		}

		c.cache = fizzy.NewCacheManager(cache, nil)
	}
}

// WithTimeout sets the per-request transport timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithInterceptors installs an interceptor chain.
func WithInterceptors(chain *fizzy.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates a new Fizzy API client. The base URL is the API origin;
// account is the slug prefixed onto account-scoped paths.
func NewClient(baseURL, account string, tokenManager auth.TokenManager, opts ...Option) *Client {
	memory := fizzy.NewMemoryCache(fizzy.DefaultCacheSize)

	client := &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		account:      account,
		tokenManager: tokenManager,
		retryPolicy:  DefaultRetryPolicy(),
		userAgent:    constants.DefaultUserAgent,
		timeout:      constants.DefaultHTTPTimeout,
		memory:       memory,
		cache:        fizzy.NewCacheManager(memory, nil),
		interceptors: fizzy.NewInterceptorChain(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.debug && client.logger != nil {
		client.interceptors.AddRequestInterceptor(fizzy.LoggingInterceptor(client.logger))
		client.interceptors.AddResponseInterceptor(fizzy.LoggingResponseInterceptor(client.logger))
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil
	retryClient.RetryMax = client.retryPolicy.MaxRetries
	retryClient.RetryWaitMin = client.retryPolicy.InitialDelay
	retryClient.RetryWaitMax = client.retryPolicy.MaxDelay
	retryClient.CheckRetry = CheckRetry
	retryClient.Backoff = client.backoff
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.HTTPClient.Timeout = client.timeout

	client.httpClient = retryClient

	return client
}

// accountIndependentPrefixes are namespaces never scoped to an account:
// identity/self endpoints and session management.
var accountIndependentPrefixes = []string{"/my", "/session"}

// ResolveURL builds the fully qualified URL for a path. The precedence is
// significant: absolute URLs pass through verbatim (server-issued Location
// and Link URLs), paths already carrying the account scope are not prefixed
// twice, account-independent namespaces skip the scope, and everything else
// gets base_url/account/path.
func (c *Client) ResolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if c.account != "" {
		scoped := "/" + c.account
		if path == scoped || strings.HasPrefix(path, scoped+"/") {
			return c.baseURL + path
		}
	}

	for _, prefix := range accountIndependentPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return c.baseURL + path
		}
	}

	if c.account == "" {
		return c.baseURL + path
	}

	return c.baseURL + "/" + c.account + path
}

// Do executes a request through the pipeline and returns the decoded
// response or a typed *fizzy.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	requestURL := c.ResolveURL(req.Path)
	if len(req.Query) > 0 {
		separator := "?"
		if strings.Contains(requestURL, "?") {
			separator = "&"
		}

		requestURL += separator + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	cacheKey := c.cache.GetCacheKey(req.Method, requestURL, nil)

	// Cache is consulted for idempotent reads only, and solely to populate
	// If-None-Match; TTL expiry makes the entry a miss.
	var cached *fizzy.CacheEntry
	if req.Method == http.MethodGet && c.cache.ShouldCache(req.Method, req.Path, http.StatusOK) {
		if entry, cacheErr := c.cache.GetEntry(ctx, cacheKey); cacheErr == nil && entry.ETag != "" {
			cached = entry
		}
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	if err := c.setHeaders(ctx, httpReq, req, contentType, cached); err != nil {
		return nil, err
	}

	intercepted := &fizzy.InterceptedRequest{
		Method:  req.Method,
		Path:    req.Path,
		Headers: httpReq.Header,
	}
	if err := c.interceptors.ExecuteRequestInterceptors(ctx, intercepted); err != nil {
		return nil, err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		typed := fizzy.NetworkError(err)
		c.notifyResponse(ctx, intercepted, 0, nil, typed)

		return nil, typed
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		typed := fizzy.NetworkError(err)
		c.notifyResponse(ctx, intercepted, httpResp.StatusCode, httpResp.Header, typed)

		return nil, typed
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       respBody,
		ETag:       httpResp.Header.Get("ETag"),
		Links:      fizzy.ParseLinkHeader(httpResp.Header.Get("Link")),
	}

	result, typedErr := c.finishResponse(ctx, req, resp, cached, cacheKey)
	c.notifyResponse(ctx, intercepted, resp.StatusCode, resp.Headers, typedErr)

	return result, typedErr
}

// finishResponse classifies and decodes a terminal response.
func (c *Client) finishResponse(ctx context.Context, req *Request, resp *Response, cached *fizzy.CacheEntry, cacheKey string) (*Response, error) {
	if resp.StatusCode == http.StatusNotModified && cached != nil {
		// The cached body is returned verbatim; no decode happens.
		resp.Body = cached.Data
		resp.ETag = cached.ETag
		resp.FromCache = true

		return resp, nil
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return c.finishSuccess(ctx, req, resp, cacheKey)
	}

	return resp, fizzy.ClassifyResponse(resp.StatusCode, resp.Headers, resp.Body)
}

func (c *Client) finishSuccess(ctx context.Context, req *Request, resp *Response, cacheKey string) (*Response, error) {
	// The create-returns-pointer convention: a bodiless 201 with a Location
	// header means "GET this instead".
	if resp.StatusCode == http.StatusCreated && len(resp.Body) == 0 {
		if location := resp.Headers.Get("Location"); location != "" {
			return c.Do(ctx, &Request{Method: http.MethodGet, Path: location})
		}
	}

	if resp.StatusCode == http.StatusNoContent || len(resp.Body) == 0 {
		resp.Body = nil

		return resp, nil
	}

	if !json.Valid(resp.Body) {
		return resp, fmt.Errorf("%w: %s", fizzy.ErrDecodeFailed, snippet(resp.Body))
	}

	if req.Method == http.MethodGet && resp.ETag != "" && c.cache.ShouldCache(req.Method, req.Path, resp.StatusCode) {
		_ = c.cache.SetWithETag(ctx, cacheKey, resp.Body, resp.ETag, 0)
	}

	return resp, nil
}

func (c *Client) setHeaders(ctx context.Context, httpReq *retryablehttp.Request, req *Request, contentType string, cached *fizzy.CacheEntry) error {
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if cached != nil {
		httpReq.Header.Set("If-None-Match", cached.ETag)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("getting token: %w", err)
		}

		switch c.tokenManager.Credential().Type {
		case fizzy.CredentialSession:
			httpReq.AddCookie(&http.Cookie{Name: "session_token", Value: token})
		default:
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return nil
}

func (c *Client) notifyResponse(ctx context.Context, req *fizzy.InterceptedRequest, status int, headers http.Header, typedErr error) {
	_ = c.interceptors.ExecuteResponseInterceptors(ctx, req, &fizzy.InterceptedResponse{
		StatusCode: status,
		Headers:    headers,
		Error:      typedErr,
	})
}

// backoff adapts the policy to retryablehttp's signature and logs every
// scheduled retry with its attempt number and delay.
func (c *Client) backoff(_, _ time.Duration, attemptNum int, resp *http.Response) time.Duration {
	delay := c.retryPolicy.Backoff(attemptNum, resp)

	if c.logger != nil {
		fields := map[string]interface{}{
			"attempt": attemptNum + 1,
			"delay":   delay.String(),
		}
		if resp != nil {
			fields["status_code"] = resp.StatusCode
		}

		c.logger.Warn("Retrying request", fields)
	}

	return delay
}

func encodeBody(req *Request) ([]byte, string, error) {
	if req.RawBody != nil {
		return req.RawBody, req.ContentType, nil
	}

	if req.Body == nil {
		return nil, "", nil
	}

	encoded, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("marshaling request body: %w", err)
	}

	return encoded, "application/json", nil
}

func snippet(body []byte) string {
	if len(body) > constants.ErrorSnippetLength {
		return string(body[:constants.ErrorSnippetLength])
	}

	return string(body)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// DoRaw performs a request with a pre-encoded body, used for multipart
// uploads. It shares the full pipeline: retries, classification, caching
// rules.
func (c *Client) DoRaw(ctx context.Context, method, path string, body []byte, contentType string) (*Response, error) {
	return c.Do(ctx, &Request{Method: method, Path: path, RawBody: body, ContentType: contentType})
}

// ClearCache drops every cached response.
func (c *Client) ClearCache(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

// CacheInfo describes the current cache contents.
type CacheInfo struct {
	Size int      `json:"size" yaml:"size"`
	Keys []string `json:"keys" yaml:"keys"`
}

// CacheStats returns the size and keys of the response cache.
func (c *Client) CacheStats() CacheInfo {
	if c.memory == nil {
		return CacheInfo{Keys: []string{}}
	}

	return CacheInfo{Size: c.memory.Size(), Keys: c.memory.Keys()}
}
