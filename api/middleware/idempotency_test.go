package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
)

type fakeStore map[string]string

func (f fakeStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f fakeStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := f[key]; ok {
		return false, nil
	}
	f[key], _ = value.(string)
	return true, nil
}

func (f fakeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f, key)
	}
	return nil
}

func (f fakeStore) IdempotencyKey(scope, id string) string {
	return "fake:" + scope + ":" + id
}

// send runs one request through mw with the given route pattern and optional key.
func send(mw func(http.Handler) http.Handler, h http.Handler, method, target, pattern, key string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	rc := chi.NewRouteContext()
	rc.RoutePatterns = []string{pattern}
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
	if key != "" {
		req.Header.Set(idempotencyHeader, key)
	}
	resp := httptest.NewRecorder()
	mw(h).ServeHTTP(resp, req)
	return resp
}

func TestRouteTTLSelection(t *testing.T) {
	tests := []struct {
		method  string
		pattern string
		want    time.Duration
		ok      bool
	}{
		{http.MethodPost, "/Reservation", defaultIdempotencyTTL, true},
		{http.MethodPost, "/CouponReservation", defaultIdempotencyTTL, true},
		{http.MethodPost, "/users/", defaultIdempotencyTTL, true},
		{http.MethodPost, "/TransactionData", redemptionIdempotencyTTL, true},
		{http.MethodGet, "/Reservation", 0, false},
		{http.MethodPost, "/token", 0, false},
	}
	for _, tt := range tests {
		ttl, ok := routeTTL(tt.method, tt.pattern)
		assert.Equal(t, tt.ok, ok, "%s %s", tt.method, tt.pattern)
		assert.Equal(t, tt.want, ttl, "%s %s", tt.method, tt.pattern)
	}
}

func TestIdempotencyMiddlewareIsOptIn(t *testing.T) {
	store := fakeStore{}
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
	})

	for range 2 {
		resp := send(Idempotency(store, nil), handler, http.MethodPost, "/Reservation", "/Reservation", "", strings.NewReader(`{"USER_ID":1}`))
		assert.Equal(t, http.StatusCreated, resp.Code)
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store)
}

func TestIdempotencyMiddlewareReplaysStoredResponse(t *testing.T) {
	store := fakeStore{}
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"TRD_ID":7}`))
	})
	target := "/TransactionData?user_id=1&prd_code=4901234567894"

	first := send(Idempotency(store, nil), handler, http.MethodPost, target, "/TransactionData", "abc", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Empty(t, first.Header().Get(replayedHeader))

	again := send(Idempotency(store, nil), handler, http.MethodPost, target, "/TransactionData", "abc", nil)
	assert.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, "application/json", again.Header().Get("Content-Type"))
	assert.Equal(t, "true", again.Header().Get(replayedHeader))
	assert.JSONEq(t, `{"TRD_ID":7}`, again.Body.String())
	assert.Equal(t, 1, calls)
}

func TestIdempotencyMiddlewareDetectsRequestChange(t *testing.T) {
	cases := map[string]struct{ target, body string }{
		"body":  {"/Reservation", `{"USER_ID":2}`},
		"query": {"/Reservation?x=1", `{"USER_ID":1}`},
	}
	for name, changed := range cases {
		t.Run(name, func(t *testing.T) {
			store := fakeStore{}
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			send(Idempotency(store, nil), handler, http.MethodPost, "/Reservation", "/Reservation", "xyz", strings.NewReader(`{"USER_ID":1}`))
			resp := send(Idempotency(store, nil), handler, http.MethodPost, changed.target, "/Reservation", "xyz", strings.NewReader(changed.body))

			require.Equal(t, http.StatusConflict, resp.Code)
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &payload))
			assert.Equal(t, string(pkgerrors.CodeIdempotency), payload.Error.Code)
		})
	}
}

func TestIdempotencyMiddlewareRejectsLongKey(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	})
	resp := send(Idempotency(fakeStore{}, nil), handler, http.MethodPost, "/Reservation", "/Reservation", strings.Repeat("k", maxIdempotencyKeyLen+1), strings.NewReader(`{}`))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestIdempotencyMiddlewareSkipsServerErrors(t *testing.T) {
	store := fakeStore{}
	calls := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for range 2 {
		send(Idempotency(store, nil), handler, http.MethodPost, "/users/", "/users/", "k", strings.NewReader(`{}`))
	}
	assert.Equal(t, 2, calls)
	assert.Empty(t, store)
}
