package models

import (
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
)

// Coupon is a template users can be granted instances of.
type Coupon struct {
	ID          int64   `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string  `gorm:"column:name;type:varchar(50);not null"`
	Image       *string `gorm:"column:image"`
	Description *string `gorm:"column:description"`
	Expiration  int     `gorm:"column:expiration;not null;default:0"`
	Price       int64   `gorm:"column:price;not null"`
}

func (Coupon) TableName() string { return "coupons" }

// MyCoupon is a coupon instance owned by a user.
type MyCoupon struct {
	ID       int64              `gorm:"column:id;primaryKey;autoIncrement"`
	UserID   int64              `gorm:"column:user_id;not null;index:idx_my_coupons_user_status,priority:1"`
	CouponID int64              `gorm:"column:coupon_id;not null"`
	GetDate  types.Day          `gorm:"column:get_date;type:date"`
	ExpDate  types.Day          `gorm:"column:exp_date;type:date"`
	Status   enums.CouponStatus `gorm:"column:status;not null;default:1;index:idx_my_coupons_user_status,priority:2;check:chk_my_coupons_status,status IN (1, 2)"`
}

func (MyCoupon) TableName() string { return "my_coupons" }
