package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/popmakeup/popmakeup-backend/api/controllers"
	"github.com/popmakeup/popmakeup-backend/api/middleware"
	"github.com/popmakeup/popmakeup-backend/internal/auth"
	"github.com/popmakeup/popmakeup-backend/internal/coupons"
	product "github.com/popmakeup/popmakeup-backend/internal/products"
	"github.com/popmakeup/popmakeup-backend/internal/redemption"
	"github.com/popmakeup/popmakeup-backend/internal/reservations"
	"github.com/popmakeup/popmakeup-backend/internal/stocks"
	"github.com/popmakeup/popmakeup-backend/pkg/auth/session"
	"github.com/popmakeup/popmakeup-backend/pkg/config"
	"github.com/popmakeup/popmakeup-backend/pkg/db"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	pkgredis "github.com/popmakeup/popmakeup-backend/pkg/redis"
)

// Store is the Redis surface the HTTP layer needs: idempotency, rate limits and readiness.
type Store interface {
	pkgredis.IdempotencyStore
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
	Ping(context.Context) error
}

// Services groups the domain services mounted on the router. Nil entries answer 500.
type Services struct {
	Auth         auth.Service
	Register     auth.RegisterService
	Stocks       stocks.Service
	Products     product.Service
	Reservations reservations.Service
	Coupons      coupons.Service
	Redemption   redemption.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	store Store,
	sessions session.AccessSessionChecker,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.CORS.Origins()),
	)

	checks := []controllers.ReadinessCheck{}
	if dbP != nil {
		checks = append(checks, controllers.ReadinessCheck{Name: "db", Pinger: dbP})
	}
	if store != nil {
		checks = append(checks, controllers.ReadinessCheck{Name: "redis", Pinger: store})
		r.Use(middleware.Idempotency(store, logg))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginIdentityLimit,
		"username",
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
		"email",
	)
	loginLimit := func(next http.Handler) http.Handler { return next }
	registerLimit := loginLimit
	if store != nil {
		loginLimit = middleware.AuthRateLimit(loginPolicy, store, logg)
		registerLimit = middleware.AuthRateLimit(registerPolicy, store, logg)
	}

	r.Get("/", controllers.Root())
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, checks...))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Post("/Stocks", controllers.Availability(svc.Stocks, logg))
	r.Post("/Products", controllers.ProductDetail(svc.Products, logg))
	r.Post("/Reservation", controllers.CreateReservation(svc.Reservations, logg))
	r.Get("/Reservation", controllers.ListReservations(svc.Reservations, logg))
	r.Post("/CouponReservation", controllers.CreateCouponReservation(svc.Reservations, logg))
	r.Get("/MyCoupon", controllers.MyCoupons(svc.Coupons, logg))
	r.Post("/TransactionData", controllers.Redeem(svc.Redemption, logg))

	r.With(loginLimit).Post("/token", controllers.AuthLogin(svc.Auth, logg))
	r.Post("/token/refresh", controllers.AuthRefresh(svc.Auth, logg))
	r.With(registerLimit).Post("/users/", controllers.AuthRegister(svc.Register, logg))

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Post("/token/revoke", controllers.AuthRevoke(svc.Auth, logg))
		r.Get("/users/me", controllers.CurrentUser(svc.Auth, logg))
	})

	return r
}
