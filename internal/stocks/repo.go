package stocks

import (
	"context"

	"github.com/popmakeup/popmakeup-backend/internal/repo"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the catalog side of availability.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) ProductsInCategory(ctx context.Context, categoryID int64) ([]models.Product, error) {
	var rows []models.Product
	err := r.DB(ctx).Where("category_id = ?", categoryID).Order("id").Find(&rows).Error
	return rows, err
}

// StocksForDate returns the lots dated dateID in stock ID order.
func (r *Repository) StocksForDate(ctx context.Context, dateID int64) ([]models.ProductStock, error) {
	var rows []models.ProductStock
	err := r.DB(ctx).Where("date_id = ?", dateID).Order("id").Find(&rows).Error
	return rows, err
}
