package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/popmakeup/popmakeup-backend/api/responses"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	pkgredis "github.com/popmakeup/popmakeup-backend/pkg/redis"
	"github.com/redis/go-redis/v9"
)

const (
	idempotencyHeader        = "Idempotency-Key"
	replayedHeader           = "Idempotent-Replayed"
	defaultIdempotencyTTL    = 24 * time.Hour
	redemptionIdempotencyTTL = 7 * 24 * time.Hour
	maxIdempotencyKeyLen     = 200
)

// idempotentRoutes maps "METHOD pattern" to how long a response is kept.
var idempotentRoutes = map[string]time.Duration{
	http.MethodPost + " /Reservation":       defaultIdempotencyTTL,
	http.MethodPost + " /CouponReservation": defaultIdempotencyTTL,
	http.MethodPost + " /users/":            defaultIdempotencyTTL,
	http.MethodPost + " /TransactionData":   redemptionIdempotencyTTL,
}

// storedResponse is what gets written to Redis. Body is base64 through encoding/json.
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body"`
	RequestHash string `json:"request_hash"`
}

// Idempotency replays the first non-5xx response for a repeated
// Idempotency-Key on the routes listed in idempotentRoutes. Requests without
// the header pass straight through.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, routePattern(r))
			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !ok || store == nil || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			if len(clientKey) > maxIdempotencyKeyLen {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header too long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			hash := requestHash(r.URL.RawQuery, body)
			key := store.IdempotencyKey(callerScope(r), clientKey)

			prior, err := lookup(r, store, key)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			if prior != nil {
				if prior.RequestHash != hash {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeIdempotency, "idempotency key reused with different request body"))
					return
				}
				replay(w, prior)
				return
			}

			rec := &statusRecorder{ResponseWriter: w, body: &bytes.Buffer{}}
			next.ServeHTTP(rec, r)
			if rec.statusCode() >= http.StatusInternalServerError {
				return
			}

			payload, err := json.Marshal(storedResponse{
				Status:      rec.statusCode(),
				ContentType: rec.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
				RequestHash: hash,
			})
			if err == nil {
				_, err = store.SetNX(ctx, key, string(payload), ttl)
			}
			if err != nil && logg != nil {
				logg.Error(ctx, "persist idempotency record", err)
			}
		})
	}
}

// lookup returns nil, nil when nothing is stored under key.
func lookup(r *http.Request, store pkgredis.IdempotencyStore, key string) (*storedResponse, error) {
	raw, err := store.Get(r.Context(), key)
	switch {
	case errors.Is(err, redis.Nil):
		return nil, nil
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency")
	case raw == "":
		return nil, nil
	}
	var prior storedResponse
	if err := json.Unmarshal([]byte(raw), &prior); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record")
	}
	return &prior, nil
}

func replay(w http.ResponseWriter, prior *storedResponse) {
	w.Header().Set(replayedHeader, "true")
	if prior.ContentType != "" {
		w.Header().Set("Content-Type", prior.ContentType)
	}
	w.WriteHeader(prior.Status)
	_, _ = w.Write(prior.Body)
}

// callerScope keys records per caller and route so two users can reuse the same key.
func callerScope(r *http.Request) string {
	caller := "anon"
	if identity, ok := IdentityFromContext(r.Context()); ok {
		caller = strconv.FormatInt(identity.UserID, 10)
	}
	return caller + "|" + r.Method + "|" + r.URL.Path
}

func requestHash(query string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(query))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

func routeTTL(method, pattern string) (time.Duration, bool) {
	ttl, ok := idempotentRoutes[method+" "+pattern]
	return ttl, ok
}
