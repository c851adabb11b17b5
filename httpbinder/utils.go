package httpbinder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aalemi-dev/tracewire/carrier"
	"github.com/aalemi-dev/tracewire/tracectx"
)

// Do sends one request. The returned value is the JSON-decoded body, the raw
// text when the body is not JSON, or nil when it is empty.
func (c *HTTPClient) Do(ctx context.Context, path string, opts RequestOptions) (data interface{}, err error) {
	method := strings.ToUpper(opts.Method)
	if method == "" {
		method = http.MethodGet
	}

	ctx, sc := c.scopes.StartChild(ctx, "http "+method+" "+path)
	defer func() { sc.End(err) }()
	sc.SetAttributes(map[string]interface{}{
		"op":          "http.client",
		"http.method": method,
		"http.url":    c.resolve(path),
	})

	return c.do(ctx, method, path, opts)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, opts RequestOptions) (interface{}, error) {
	req := c.resty.R().SetContext(ctx)
	if opts.JSON != nil {
		req.SetBody(opts.JSON)
	}
	if opts.Token != "" {
		req.SetAuthToken(opts.Token)
	}

	tc, _ := tracectx.FromContext(ctx)
	target := c.resolve(path)
	start := time.Now()

	resp, err := req.Execute(method, path)
	if err != nil {
		terr := &TransportError{Method: method, URL: target, Trace: tc, Err: err}
		c.observeOperation(path, method, tc, time.Since(start), terr, 0, 0)
		if c.logger != nil {
			c.logger.ErrorWithContext(ctx, "http request failed", err, map[string]interface{}{
				"url":    target,
				"method": method,
			})
		}
		return nil, terr
	}

	body := resp.Body()
	data := decodeBody(body)

	if !resp.IsSuccess() {
		herr := &HTTPError{
			StatusCode: resp.StatusCode(),
			StatusText: reasonPhrase(resp),
			Method:     method,
			URL:        target,
			Body:       data,
			Trace:      tc,
		}
		c.observeOperation(path, method, tc, time.Since(start), herr, resp.StatusCode(), int64(len(body)))
		if c.logger != nil {
			c.logger.ErrorWithContext(ctx, "http request failed", herr, map[string]interface{}{
				"url":    target,
				"method": method,
				"status": resp.StatusCode(),
				"body":   data,
			})
		}
		return nil, herr
	}

	c.observeOperation(path, method, tc, time.Since(start), nil, resp.StatusCode(), int64(len(body)))
	return data, nil
}

// attachTrace sets the JSON content type and, for allowed origins, the
// carrier of the request's own context.
func (c *HTTPClient) attachTrace(_ *resty.Client, r *resty.Request) error {
	r.SetHeader("Content-Type", "application/json")

	if !c.allowed(r.URL) {
		return nil
	}
	ctx := r.Context()
	tc, ok := tracectx.FromContext(ctx)
	if !ok {
		return nil
	}
	r.SetHeader(carrier.HeaderTraceParent, carrier.Encode(tc))
	if state := c.scopes.State(ctx); state != "" {
		r.SetHeader(carrier.HeaderTraceState, state)
	}
	return nil
}

// allowed reports whether a request to raw (absolute, or relative to
// BaseURL) goes to a propagation target.
func (c *HTTPClient) allowed(raw string) bool {
	u, err := url.Parse(c.resolve(raw))
	if err != nil {
		return false
	}
	_, ok := c.targets[origin(u)]
	return ok
}

// resolve mirrors how resty joins BaseURL and a request path.
func (c *HTTPClient) resolve(path string) string {
	if u, err := url.Parse(path); err == nil && u.IsAbs() {
		return path
	}
	base := strings.TrimRight(c.cfg.BaseURL, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

func decodeBody(body []byte) interface{} {
	if len(body) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return string(body)
	}
	return v
}

// reasonPhrase returns the status text sent by the server, falling back to
// the standard text for the code.
func reasonPhrase(resp *resty.Response) string {
	code := strconv.Itoa(resp.StatusCode())
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status(), code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode())
}
