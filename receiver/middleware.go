package receiver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware runs every request in a scope named "<METHOD> <route>" that
// continues the carrier of the request headers, or of the query string for
// WebSocket handshakes. The scope fails when the handler records a gin error
// or answers with a 5xx status.
func (r *Receiver) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		ctx, sc := r.Start(c.Request.Context(), c.Request.Method+" "+route, FromRequest(c.Request))
		sc.SetAttributes(map[string]interface{}{
			"op":          "http.server",
			"http.method": c.Request.Method,
			"http.route":  route,
		})
		c.Request = c.Request.WithContext(ctx)

		defer func() {
			if rec := recover(); rec != nil {
				sc.End(fmt.Errorf("panic: %v", rec))
				panic(rec)
			}
		}()

		c.Next()

		status := c.Writer.Status()
		sc.SetAttributes(map[string]interface{}{"http.status_code": status})

		var err error
		switch {
		case len(c.Errors) > 0:
			err = c.Errors.Last()
		case status >= http.StatusInternalServerError:
			err = fmt.Errorf("HTTP %d %s", status, http.StatusText(status))
		}
		sc.End(err)
	}
}
