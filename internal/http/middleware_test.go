package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kita-dienstplan/internal/logging"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	var sawLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = logging.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	RequestLogger(base)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/weeks/current", nil))

	assert.True(t, sawLogger)
	assert.Equal(t, http.StatusTeapot, rec.Code)
	out := buf.String()
	assert.Contains(t, out, "request started")
	assert.Contains(t, out, "request completed")
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/weeks/current")
	assert.Contains(t, out, "request_id=1")
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("rejects requests beyond the burst", func(t *testing.T) {
		t.Parallel()
		handler := RateLimit(0.001, 1, quietLogger)(ok)

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/staff", nil))
		assert.Equal(t, http.StatusOK, first.Code)

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/staff", nil))
		require.Equal(t, http.StatusTooManyRequests, second.Code)
		assert.NotEmpty(t, second.Header().Get("Retry-After"))
		assert.Contains(t, second.Body.String(), "Zu viele Anfragen")
	})

	t.Run("zero disables limiting", func(t *testing.T) {
		t.Parallel()
		handler := RateLimit(0, 0, quietLogger)(ok)
		for range 5 {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/staff", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}
