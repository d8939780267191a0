package middleware

import (
	"net/http"
)

// DefaultMaxBodySize bounds request bodies when no explicit limit is
// configured. Every payload this API accepts is a small JSON document.
const DefaultMaxBodySize = 64 << 10

// BodyLimitMiddleware rejects oversized request bodies before any handler
// reads them. A declared Content-Length over the limit is answered directly;
// chunked bodies are cut off by MaxBytesReader at the same boundary.
type BodyLimitMiddleware struct {
	maxSize int64
}

func NewBodyLimitMiddleware(maxSize int64) *BodyLimitMiddleware {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}
	return &BodyLimitMiddleware{maxSize: maxSize}
}

func (m *BodyLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > m.maxSize {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
				"error": "Request body too large",
			})
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, m.maxSize)
		next.ServeHTTP(w, r)
	})
}
