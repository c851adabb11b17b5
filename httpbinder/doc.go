// Package httpbinder issues JSON requests to the demo API and attaches the
// caller's trace context to each one.
//
// Every call to Do runs in a child scope named "http <METHOD> <path>", so a
// request made inside auth.login shares the login trace. A resty
// OnBeforeRequest hook reads the scope from the request's own context and
// sets the trace-parent and trace-state headers. Headers are only sent to
// origins listed in Config.PropagationTargets (default: the origin of
// BaseURL), so third-party hosts never receive internal identifiers.
//
// Responses are decoded as JSON when possible and returned as-is otherwise.
// Nothing is read back from the response for tracing.
//
// # Errors
//
// A non-2xx response returns *HTTPError whose message is the status line,
// for example "HTTP 401 Unauthorized". A transport failure returns
// *TransportError wrapping the underlying error. Both carry the request's
// TraceContext for log correlation:
//
//	data, err := client.Do(ctx, "/auth/login", httpbinder.RequestOptions{
//	    Method: http.MethodPost,
//	    JSON:   map[string]string{"email": email, "password": password},
//	})
//	var httpErr *httpbinder.HTTPError
//	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
//	    // wrong credentials
//	}
package httpbinder
