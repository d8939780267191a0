package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyLimitMiddleware(t *testing.T) {
	t.Run("rejects oversized declared body", func(t *testing.T) {
		m := NewBodyLimitMiddleware(16)

		nextCalled := false
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("a", 32)))
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.False(t, nextCalled)
	})

	t.Run("passes small bodies through intact", func(t *testing.T) {
		m := NewBodyLimitMiddleware(16)

		var body []byte
		handler := m.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error
			body, err = io.ReadAll(r.Body)
			require.NoError(t, err)
		}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("hello"))
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello", string(body))
	})

	t.Run("zero config falls back to the default", func(t *testing.T) {
		m := NewBodyLimitMiddleware(0)
		assert.Equal(t, int64(DefaultMaxBodySize), m.maxSize)
	})
}
