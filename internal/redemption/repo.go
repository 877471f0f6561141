package redemption

import (
	"context"
	"errors"

	"github.com/popmakeup/popmakeup-backend/internal/repo"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository holds the point-of-sale writes. It is meant to be bound to a
// transaction.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) LotsFor(ctx context.Context, productID, dateID int64) ([]models.ProductStock, error) {
	var rows []models.ProductStock
	err := r.DB(ctx).
		Where("product_id = ? AND date_id = ?", productID, dateID).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// ReservationFor returns the ID of the user's reservation on the lot, if any.
func (r *Repository) ReservationFor(ctx context.Context, userID, stockID int64) (*int64, error) {
	var row models.Reservation
	err := r.DB(ctx).Where("user_id = ? AND stock_id = ?", userID, stockID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row.ID, nil
}

// DecrementPiece takes one piece from the lot unless it is already empty. It
// reports false when no piece was left.
func (r *Repository) DecrementPiece(ctx context.Context, stockID int64) (bool, error) {
	res := r.DB(ctx).Model(&models.ProductStock{}).
		Where("id = ? AND pieces >= 1", stockID).
		UpdateColumn("pieces", gorm.Expr("pieces - 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) RecordTransaction(ctx context.Context, rec *models.TransactionRecord) error {
	return r.DB(ctx).Create(rec).Error
}
