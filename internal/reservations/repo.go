package reservations

import (
	"context"

	"github.com/popmakeup/popmakeup-backend/internal/repo"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository persists reservations and reads the rows listing joins against.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

func (r *Repository) Create(ctx context.Context, m *models.Reservation) error {
	return r.DB(ctx).Create(m).Error
}

// ConsumeMyCoupon flips an available coupon instance to consumed. It reports
// whether the row changed and, when it did not, whether the row exists.
func (r *Repository) ConsumeMyCoupon(ctx context.Context, myCouponID int64) (consumed, exists bool, err error) {
	res := r.DB(ctx).Model(&models.MyCoupon{}).
		Where("id = ? AND status = ?", myCouponID, enums.CouponStatusAvailable).
		Update("status", enums.CouponStatusConsumed)
	if res.Error != nil {
		return false, false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, true, nil
	}
	var count int64
	if err := r.DB(ctx).Model(&models.MyCoupon{}).Where("id = ?", myCouponID).Count(&count).Error; err != nil {
		return false, false, err
	}
	return false, count > 0, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]models.Reservation, error) {
	var rows []models.Reservation
	err := r.DB(ctx).Where("user_id = ?", userID).Order("id").Find(&rows).Error
	return rows, err
}

func (r *Repository) StocksByID(ctx context.Context, ids []int64) (map[int64]models.ProductStock, error) {
	var rows []models.ProductStock
	if err := findIn(r.DB(ctx), ids, &rows); err != nil {
		return nil, err
	}
	out := make(map[int64]models.ProductStock, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *Repository) ProductsByID(ctx context.Context, ids []int64) (map[int64]models.Product, error) {
	var rows []models.Product
	if err := findIn(r.DB(ctx), ids, &rows); err != nil {
		return nil, err
	}
	out := make(map[int64]models.Product, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *Repository) MyCouponsByID(ctx context.Context, ids []int64) (map[int64]models.MyCoupon, error) {
	var rows []models.MyCoupon
	if err := findIn(r.DB(ctx), ids, &rows); err != nil {
		return nil, err
	}
	out := make(map[int64]models.MyCoupon, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *Repository) CouponsByID(ctx context.Context, ids []int64) (map[int64]models.Coupon, error) {
	var rows []models.Coupon
	if err := findIn(r.DB(ctx), ids, &rows); err != nil {
		return nil, err
	}
	out := make(map[int64]models.Coupon, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func findIn(db *gorm.DB, ids []int64, dest any) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Where("id IN ?", ids).Find(dest).Error
}
