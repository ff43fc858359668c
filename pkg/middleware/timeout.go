package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	httputil "kartrm/pkg/http"
)

// guardedWriter suppresses handler writes once the deadline response has
// been sent, so a slow handler finishing late cannot corrupt the reply.
type guardedWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	written  bool
}

func (gw *guardedWriter) WriteHeader(code int) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.timedOut || gw.written {
		return
	}
	gw.written = true
	gw.ResponseWriter.WriteHeader(code)
}

func (gw *guardedWriter) Write(b []byte) (int, error) {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	if gw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	gw.written = true
	return gw.ResponseWriter.Write(b)
}

// expire marks the writer dead and reports whether the handler had already
// started a response.
func (gw *guardedWriter) expire() bool {
	gw.mu.Lock()
	defer gw.mu.Unlock()

	gw.timedOut = true
	return gw.written
}

// RequestTimeout bounds each request's handling time. On expiry the client
// gets a 503 and the handler's context is cancelled.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			gw := &guardedWriter{ResponseWriter: w}

			done := make(chan struct{})
			go func() {
				next.ServeHTTP(gw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if started := gw.expire(); !started {
					_ = httputil.WriteJSON(w, http.StatusServiceUnavailable, httputil.ErrorResponse{
						Error: "Request timeout",
					})
				}
			}
		})
	}
}
