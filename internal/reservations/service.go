package reservations

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/popmakeup/popmakeup-backend/pkg/db"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/metrics"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
	"gorm.io/gorm"
)

const listQueryName = "reservations"

const (
	dropStockMissing    = "stock_missing"
	dropStockOtherDay   = "stock_other_day"
	dropProductMissing  = "product_missing"
	dropCouponOtherDay  = "coupon_other_day"
	dropMyCouponMissing = "my_coupon_missing"
	dropCouponMissing   = "coupon_missing"
)

// Service creates and lists reservations.
type Service interface {
	Create(ctx context.Context, in CreateInput) (*CreateResult, error)
	List(ctx context.Context, userID int64, date string) ([]ListItem, error)
}

type database interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type dayResolver interface {
	ResolveDate(ctx context.Context, raw string) (*models.CalendarDate, error)
	ResolveDay(ctx context.Context, day types.Day) (*models.CalendarDate, error)
}

// ServiceParams bundles reservation dependencies. Now and Location default to
// the server clock.
type ServiceParams struct {
	DB       database
	Resolver dayResolver
	Logger   *logger.Logger
	Metrics  *metrics.WorkflowMetrics
	Now      func() time.Time
	Location *time.Location
}

type service struct {
	db       database
	resolver dayResolver
	logg     *logger.Logger
	metrics  *metrics.WorkflowMetrics
	now      func() time.Time
	loc      *time.Location
}

func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, errors.New("database required")
	}
	if params.Resolver == nil {
		return nil, errors.New("resolver required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	loc := params.Location
	if loc == nil {
		loc = time.Local
	}
	return &service{
		db:       params.DB,
		resolver: params.Resolver,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      now,
		loc:      loc,
	}, nil
}

func (s *service) Create(ctx context.Context, in CreateInput) (*CreateResult, error) {
	if in.Target == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reservation target required")
	}
	m := in.toModel()

	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		r := NewRepository(tx)
		if err := r.Create(ctx, m); err != nil {
			return translateCreateError(in.Target, err)
		}
		target, ok := in.Target.(CouponTarget)
		if !ok {
			return nil
		}

		consumed, exists, err := r.ConsumeMyCoupon(ctx, target.MyCouponID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "consume coupon")
		}
		if consumed {
			return nil
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "coupon already consumed")
		}
		// Reservations against unknown coupon instances are still recorded.
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"event":        "reservation.coupon_missing",
			"my_coupon_id": target.MyCouponID,
		}), "coupon instance not found; reservation kept")
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncReservation(in.Target.Kind().String())
	s.logg.Event(ctx, "reservation.created", map[string]any{
		"rsv_id":  m.ID,
		"kind":    in.Target.Kind().String(),
		"user_id": in.UserID,
	})
	return &CreateResult{RsvID: m.ID}, nil
}

func translateCreateError(target Target, err error) error {
	if db.IsUniqueViolation(err, "") {
		if target.Kind() == enums.ReservationTargetCoupon {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "coupon already reserved")
		}
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "lot already reserved by this user")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create reservation")
}

func (s *service) List(ctx context.Context, userID int64, date string) ([]ListItem, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a positive integer")
	}
	day, err := s.resolveListDay(ctx, date)
	if err != nil {
		return nil, err
	}

	r := NewRepository(s.db.DB())
	rows, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reservations")
	}

	var stockIDs, myCouponIDs []int64
	for _, row := range rows {
		switch {
		case row.StockID != nil:
			stockIDs = append(stockIDs, *row.StockID)
		case row.MyCouponID != nil:
			myCouponIDs = append(myCouponIDs, *row.MyCouponID)
		}
	}

	stocks, err := r.StocksByID(ctx, stockIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load stocks")
	}
	productIDs := make([]int64, 0, len(stocks))
	for _, st := range stocks {
		productIDs = append(productIDs, st.ProductID)
	}
	products, err := r.ProductsByID(ctx, productIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	myCoupons, err := r.MyCouponsByID(ctx, myCouponIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupon instances")
	}
	couponIDs := make([]int64, 0, len(myCoupons))
	for _, mc := range myCoupons {
		couponIDs = append(couponIDs, mc.CouponID)
	}
	coupons, err := r.CouponsByID(ctx, couponIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupons")
	}

	items := make([]ListItem, 0, len(rows))
	dropped := map[string]int{}
	for _, row := range rows {
		switch row.TargetKind {
		case enums.ReservationTargetStock:
			st, ok := stocks[derefID(row.StockID)]
			if !ok {
				dropped[dropStockMissing]++
				continue
			}
			if st.DateID == nil || *st.DateID != day.ID {
				dropped[dropStockOtherDay]++
				continue
			}
			p, ok := products[st.ProductID]
			if !ok {
				dropped[dropProductMissing]++
				continue
			}
			items = append(items, productItem(row.ID, p))
		case enums.ReservationTargetCoupon:
			if row.RsvTime != day.Date {
				dropped[dropCouponOtherDay]++
				continue
			}
			mc, ok := myCoupons[derefID(row.MyCouponID)]
			if !ok {
				dropped[dropMyCouponMissing]++
				continue
			}
			c, ok := coupons[mc.CouponID]
			if !ok {
				dropped[dropCouponMissing]++
				continue
			}
			items = append(items, couponItem(row.ID, c))
		}
	}

	s.reportDropped(ctx, userID, day, dropped)
	return items, nil
}

// resolveListDay treats "", "undefined" and an absent date as today.
func (s *service) resolveListDay(ctx context.Context, raw string) (*models.CalendarDate, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "undefined" {
		return s.resolver.ResolveDay(ctx, types.NewDay(s.now().In(s.loc)))
	}
	return s.resolver.ResolveDate(ctx, raw)
}

func (s *service) reportDropped(ctx context.Context, userID int64, day *models.CalendarDate, dropped map[string]int) {
	if len(dropped) == 0 {
		return
	}
	total := 0
	for reason, n := range dropped {
		s.metrics.AddRowsDropped(listQueryName, reason, n)
		total += n
	}
	s.logg.Event(ctx, "reservations.rows_dropped", map[string]any{
		"user_id": userID,
		"date":    day.Date.String(),
		"dropped": total,
		"reasons": dropped,
	})
}

func derefID(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
