package coupons

import (
	"context"
	"errors"

	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
	"github.com/popmakeup/popmakeup-backend/pkg/metrics"
)

// Service lists the coupons a user can still use.
type Service interface {
	ListAvailable(ctx context.Context, userID int64) ([]MyCouponItem, error)
}

type repository interface {
	AvailableForUser(ctx context.Context, userID int64) ([]models.MyCoupon, error)
	TemplatesByID(ctx context.Context, ids []int64) (map[int64]models.Coupon, error)
}

type service struct {
	repo    repository
	logg    *logger.Logger
	metrics *metrics.WorkflowMetrics
}

func NewService(repo repository, logg *logger.Logger, m *metrics.WorkflowMetrics) (Service, error) {
	if repo == nil {
		return nil, errors.New("coupons repository required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &service{repo: repo, logg: logg, metrics: m}, nil
}

func (s *service) ListAvailable(ctx context.Context, userID int64) ([]MyCouponItem, error) {
	if userID <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id must be a positive integer")
	}
	owned, err := s.repo.AvailableForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list coupons")
	}
	ids := make([]int64, 0, len(owned))
	for _, mc := range owned {
		ids = append(ids, mc.CouponID)
	}
	templates, err := s.repo.TemplatesByID(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load coupon templates")
	}

	items := make([]MyCouponItem, 0, len(owned))
	for _, mc := range owned {
		c, ok := templates[mc.CouponID]
		if !ok {
			s.metrics.AddRowsDropped("my_coupons", "coupon_missing", 1)
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"event":        "my_coupons.rows_dropped",
				"my_coupon_id": mc.ID,
				"coupon_id":    mc.CouponID,
			}), "coupon template missing; instance omitted")
			continue
		}
		items = append(items, merge(mc, c))
	}
	return items, nil
}
