package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{}) {}

type recordedRequest struct {
	method string
	route  string
	status int
}

type fakeMetrics struct {
	mu   sync.Mutex
	seen []recordedRequest
}

func (m *fakeMetrics) ObserveHTTPRequest(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, recordedRequest{method: method, route: route, status: status})
}

func TestAuth(t *testing.T) {
	var got string
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = UserIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserIDHeader, "user-42")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-42", got)
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/stations/{stationId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stations/abc", nil))

	require.Len(t, m.seen, 1)
	assert.Equal(t, recordedRequest{method: http.MethodGet, route: "/stations/{stationId}", status: http.StatusNotFound}, m.seen[0])
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(1, 2, nopLogger{})
	frozen := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return frozen }

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(UserIDHeader, user)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusOK, call("a"))
	assert.Equal(t, http.StatusTooManyRequests, call("a"))
	assert.Equal(t, http.StatusOK, call("b"))

	frozen = frozen.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("a"))
}

func TestRateLimiter_SweepsIdleClientsPeriodically(t *testing.T) {
	rl := NewRateLimiter(10, 10, nopLogger{})
	t0 := time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	now := t0
	rl.now = func() time.Time { return now }

	step := func(offset time.Duration, key string) {
		now = t0.Add(offset)
		rl.allow(key)
	}

	step(0, "a")
	step(50*time.Second, "b")

	step(10*time.Minute+30*time.Second, "c")
	assert.NotContains(t, rl.clients, "a")
	assert.Contains(t, rl.clients, "b")

	// b уже неактивен дольше TTL, но с прошлой чистки не прошло и минуты
	step(11*time.Minute, "d")
	assert.Contains(t, rl.clients, "b")
	assert.Len(t, rl.clients, 3)

	step(11*time.Minute+40*time.Second, "e")
	assert.NotContains(t, rl.clients, "b")
	assert.Len(t, rl.clients, 3)
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "ip:10.0.0.1", clientKey(req))

	req.Header.Set("X-Forwarded-For", "192.168.1.5, 10.0.0.1")
	assert.Equal(t, "ip:192.168.1.5", clientKey(req))

	req.Header.Set(UserIDHeader, "u1")
	assert.Equal(t, "user:u1", clientKey(req))
}
