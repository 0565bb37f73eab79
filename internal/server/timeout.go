package server

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware caps how long one request may run. Cancellation is
// cooperative: the pipeline observes ctx.Done() at its blocking points, the
// handler is not forcibly stopped. The default bound is sized for
// generations, which run far longer than a typical API call.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
