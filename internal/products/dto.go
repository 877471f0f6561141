package product

import "github.com/popmakeup/popmakeup-backend/pkg/db/models"

// ProductDTO is the catalog wire shape. Keys keep the upper-case column names
// the storefront client reads.
type ProductDTO struct {
	ID          int64   `json:"ID"`
	PrdCode     string  `json:"PRD_CODE"`
	PrdName     string  `json:"PRD_NAME"`
	PrdImage    *string `json:"PRD_IMAGE"`
	Description *string `json:"DESCRIPTION"`
	Price       int64   `json:"PRICE"`
	Cal         float64 `json:"CAL"`
	Salinity    float64 `json:"SALINITY"`
	AllergyID   *int64  `json:"ALLERGY_ID"`
	CategoryID  int64   `json:"CATEGORY_ID"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		PrdCode:     p.PrdCode,
		PrdName:     p.PrdName,
		PrdImage:    p.PrdImage,
		Description: p.Description,
		Price:       p.Price,
		Cal:         p.Cal,
		Salinity:    p.Salinity,
		AllergyID:   p.AllergyID,
		CategoryID:  p.CategoryID,
	}
}
