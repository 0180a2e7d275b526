package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"secondhand/internal/observability"
	"secondhand/pkg/logger"
)

type RequestOptions struct {
	Method  string
	Body    any
	Headers map[string]string
	Query   url.Values
}

// File is one part of a multipart upload.
type File struct {
	Name    string
	Content []byte
}

type MultipartForm struct {
	Fields map[string]string
	// Files maps a form field to the files sent under it.
	Files map[string][]File
}

// Client issues JSON requests against a fixed base URL. It does not retry and
// imposes no timeout; cancellation goes through the context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	headers    map[string]string
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs the call and returns the decoded JSON body. Numbers decode
// as json.Number; an empty 2xx body yields nil.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (any, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, &FetchError{Message: "encode request body", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, opts.Query), body)
	if err != nil {
		return nil, &FetchError{Message: err.Error(), Err: err}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	return c.do(req)
}

// Upload posts a multipart form; the Content-Type header carries the boundary.
func (c *Client) Upload(ctx context.Context, path string, form MultipartForm) (any, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range form.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, &FetchError{Message: "encode form field", Err: err}
		}
	}
	for field, files := range form.Files {
		for _, f := range files {
			part, err := w.CreateFormFile(field, f.Name)
			if err != nil {
				return nil, &FetchError{Message: "encode form file", Err: err}
			}
			if _, err := part.Write(f.Content); err != nil {
				return nil, &FetchError{Message: "encode form file", Err: err}
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, &FetchError{Message: "encode form", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path, nil), &buf)
	if err != nil {
		return nil, &FetchError{Message: err.Error(), Err: err}
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req)
}

func (c *Client) url(path string, query url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(u, "?") {
			sep = "&"
		}
		u += sep + query.Encode()
	}
	return u
}

func (c *Client) do(req *http.Request) (any, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveClientRequest(req.Method, "transport", time.Since(start))
		logger.Debug("%s %s failed: %v", req.Method, req.URL.Path, err)
		return nil, &FetchError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		observability.ObserveClientRequest(req.Method, "status", time.Since(start))
		logger.Debug("%s %s -> %d", req.Method, req.URL.Path, resp.StatusCode)
		return nil, &FetchError{StatusCode: resp.StatusCode, Message: statusText(resp)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.ObserveClientRequest(req.Method, "transport", time.Since(start))
		return nil, &FetchError{Message: "read response body", Err: err}
	}
	observability.ObserveClientRequest(req.Method, "ok", time.Since(start))
	logger.Debug("%s %s -> %d (%d bytes)", req.Method, req.URL.Path, resp.StatusCode, len(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("malformed JSON response: %v", err),
			Err:        err,
		}
	}
	return out, nil
}

// statusText returns the reason phrase, e.g. "Not Found" for "404 Not Found".
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok && text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
