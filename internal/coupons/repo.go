package coupons

import (
	"context"

	"github.com/popmakeup/popmakeup-backend/internal/repo"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	"gorm.io/gorm"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// AvailableForUser returns the user's unconsumed instances in ID order.
func (r *Repository) AvailableForUser(ctx context.Context, userID int64) ([]models.MyCoupon, error) {
	var rows []models.MyCoupon
	err := r.DB(ctx).
		Where("user_id = ? AND status = ?", userID, enums.CouponStatusAvailable).
		Order("id").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) TemplatesByID(ctx context.Context, ids []int64) (map[int64]models.Coupon, error) {
	out := map[int64]models.Coupon{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Coupon
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}
