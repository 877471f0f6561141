package models

import "github.com/popmakeup/popmakeup-backend/pkg/types"

// Category groups products for browsing.
type Category struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(50);not null;uniqueIndex:uq_categories_name"`
}

func (Category) TableName() string { return "categories" }

// CalendarDate is one row of the calendar dimension.
type CalendarDate struct {
	ID   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Date types.Day `gorm:"column:date;type:date;not null;uniqueIndex:uq_dates_date"`
	Week string    `gorm:"column:week;type:varchar(3);not null"`
}

func (CalendarDate) TableName() string { return "dates" }

// Product is a sellable catalog item keyed by its barcode.
type Product struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	PrdCode     string  `gorm:"column:prd_code;type:varchar(13);not null;uniqueIndex:uq_products_prd_code"`
	PrdName     string  `gorm:"column:prd_name;type:varchar(50);not null"`
	PrdImage    *string `gorm:"column:prd_image"`
	Description *string `gorm:"column:description"`
	Price       int64   `gorm:"column:price;not null"`
	Cal         float64 `gorm:"column:cal;not null;default:0"`
	Salinity    float64 `gorm:"column:salinity;not null;default:0"`
	AllergyID   *int64  `gorm:"column:allergy_id"`
	CategoryID  int64   `gorm:"column:category_id;not null;index:idx_products_category_id"`
}

func (Product) TableName() string { return "products" }

// ProductStock is a lot: a dated quantity of one product at one store.
type ProductStock struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID int64     `gorm:"column:product_id;not null;index:idx_stocks_product_date,priority:1"`
	StoreID   int64     `gorm:"column:store_id;not null"`
	DateID    *int64    `gorm:"column:date_id;index:idx_stocks_product_date,priority:2;index:idx_stocks_date_id"`
	Lot       types.Day `gorm:"column:lot;type:date"`
	BestByDay types.Day `gorm:"column:best_by_day;type:date"`
	Pieces    int       `gorm:"column:pieces;not null;default:0;check:chk_stocks_pieces_nonnegative,pieces >= 0"`
}

func (ProductStock) TableName() string { return "stocks" }
