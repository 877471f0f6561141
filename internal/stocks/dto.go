package stocks

import (
	product "github.com/popmakeup/popmakeup-backend/internal/products"
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
)

// AvailabilityItem is a product merged with one of its lots. The lot's fields
// shadow the product's on collision, so ID is the stock ID.
type AvailabilityItem struct {
	product.ProductDTO
	ID        int64     `json:"ID"`
	PrdID     int64     `json:"PRD_ID"`
	StoreID   int64     `json:"STORE_ID"`
	DateID    *int64    `json:"DATE_ID"`
	Lot       types.Day `json:"LOT"`
	BestByDay types.Day `json:"BEST_BY_DAY"`
	Pieces    int       `json:"PIECES"`
}

func merge(p *models.Product, s models.ProductStock) AvailabilityItem {
	return AvailabilityItem{
		ProductDTO: *product.FromModel(p),
		ID:         s.ID,
		PrdID:      s.ProductID,
		StoreID:    s.StoreID,
		DateID:     s.DateID,
		Lot:        s.Lot,
		BestByDay:  s.BestByDay,
		Pieces:     s.Pieces,
	}
}
