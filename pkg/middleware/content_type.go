package middleware

import (
	"net/http"
	"strings"

	httputil "kartrm/pkg/http"
	"kartrm/pkg/logger"
)

// ContentTypeValidation rejects body-carrying requests that are not JSON
// before they reach a handler's decoder.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				mediaType := r.Header.Get("Content-Type")
				if i := strings.IndexByte(mediaType, ';'); i >= 0 {
					mediaType = mediaType[:i]
				}
				mediaType = strings.TrimSpace(mediaType)

				if mediaType != "application/json" {
					log.Warn("Invalid Content-Type header",
						"request_id", RequestIDFrom(r.Context()),
						"content_type", mediaType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					_ = httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorResponse{
						Error: "Content-Type must be application/json",
					})
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
