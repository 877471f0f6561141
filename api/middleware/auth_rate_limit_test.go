package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (f *fakeRateStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeRateStore) RateLimitKey(scope string) string {
	return "rl:" + scope
}

func statusHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

func TestAuthRateLimitPreservesJSONBody(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 2, 2, "email")
	var seen string
	handler := AuthRateLimit(policy, &fakeRateStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = string(body)
	}))

	req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(`{"username":"t","email":"tester@example.com","password":"secret"}`))
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, seen, `"email":"tester@example.com"`)
}

func TestAuthRateLimitFormIdentityIgnoresCase(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2, "username")
	handler := AuthRateLimit(policy, &fakeRateStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.NotEmpty(t, r.PostFormValue("username"))
	}))

	codes := make([]int, 0, 3)
	for _, name := range []string{"Blocked", "blocked", "BLOCKED"} {
		form := url.Values{"username": {name}, "password": {"secret"}}
		req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if rec.Code == http.StatusTooManyRequests {
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, string(pkgerrors.CodeRateLimit), payload.Error.Code)
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestAuthRateLimitKeysOnFirstForwardedAddress(t *testing.T) {
	store := &fakeRateStore{}
	handler := AuthRateLimit(NewAuthRateLimitPolicy("register", time.Minute, 1, 0, "email"), store, nil)(statusHandler(http.StatusOK))

	codes := make([]int, 0, 2)
	for range 2 {
		req := httptest.NewRequest(http.MethodPost, "/users/", strings.NewReader(`{"email":"foo@example.com"}`))
		req.Header.Set("X-Forwarded-For", "5.6.7.8, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Contains(t, store.counts, "rl:ip:register:5.6.7.8")
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	store := &fakeRateStore{}
	handler := AuthRateLimit(NewAuthRateLimitPolicy("login", 0, 1, 1, "username"), store, nil)(statusHandler(http.StatusNoContent))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/token", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.counts)
}
