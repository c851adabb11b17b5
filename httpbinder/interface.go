package httpbinder

import "context"

// Requester sends a JSON request to the configured API. It is implemented by
// *HTTPClient.
type Requester interface {
	// Do sends opts to path under a child of the current scope and returns
	// the decoded body. See HTTPError and TransportError for failures.
	Do(ctx context.Context, path string, opts RequestOptions) (interface{}, error)
}

// RequestOptions describes one request.
type RequestOptions struct {
	// Method defaults to GET.
	Method string

	// JSON is marshalled as the request body when non-nil.
	JSON interface{}

	// Token is sent as "Authorization: Bearer <token>" when non-empty.
	Token string
}
