package httpbinder

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/aalemi-dev/tracewire/observability"
	"github.com/aalemi-dev/tracewire/scope"
)

// HTTPClient sends JSON requests with trace headers attached. It is safe for
// concurrent use once configured.
//
// HTTPClient implements the Requester interface.
type HTTPClient struct {
	cfg     Config
	baseURL *url.URL
	targets map[string]struct{}

	resty  *resty.Client
	scopes *scope.Manager

	logger   Logger
	observer observability.Observer
}

// NewClient creates a client for cfg.BaseURL. scopes supplies the trace
// context for each request.
func NewClient(cfg Config, scopes *scope.Manager) (*HTTPClient, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	c := &HTTPClient{
		cfg:     cfg,
		baseURL: base,
		targets: make(map[string]struct{}),
		scopes:  scopes,
	}

	if len(cfg.PropagationTargets) == 0 {
		c.targets[origin(base)] = struct{}{}
	}
	for _, target := range cfg.PropagationTargets {
		u, err := url.Parse(strings.TrimSpace(target))
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid propagation target %q", target)
		}
		c.targets[origin(u)] = struct{}{}
	}

	c.resty = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		OnBeforeRequest(c.attachTrace)

	return c, nil
}

// WithLogger attaches a logger for failed requests. resty's own diagnostics
// are routed to it as well.
func (c *HTTPClient) WithLogger(logger Logger) *HTTPClient {
	c.logger = logger
	c.resty.SetLogger(restyLogger{logger})
	return c
}

// WithObserver attaches an observer notified after every request.
func (c *HTTPClient) WithObserver(observer observability.Observer) *HTTPClient {
	c.observer = observer
	return c
}

// origin renders the scheme://host[:port] of u in lowercase.
func origin(u *url.URL) string {
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// restyLogger adapts Logger to resty.Logger.
type restyLogger struct {
	log Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}
