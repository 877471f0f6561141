package models

import (
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
)

const (
	ReservationStockUserIndex = "uq_reservations_stock_user"
	ReservationMyCouponIndex  = "uq_reservations_my_coupon"
)

// Reservation holds a user's claim on either a lot or a coupon instance.
// Exactly one of StockID and MyCouponID is set, matching TargetKind.
type Reservation struct {
	ID         int64                       `gorm:"column:id;primaryKey;autoIncrement"`
	RsvTime    types.Day                   `gorm:"column:rsv_time;type:date;not null;index:idx_reservations_rsv_time"`
	TargetKind enums.ReservationTargetKind `gorm:"column:target_kind;type:varchar(10);not null;check:chk_reservations_target,(target_kind = 'stock' AND stock_id IS NOT NULL AND my_coupon_id IS NULL) OR (target_kind = 'coupon' AND my_coupon_id IS NOT NULL AND stock_id IS NULL)"`
	StockID    *int64                      `gorm:"column:stock_id;uniqueIndex:uq_reservations_stock_user,priority:1"`
	MyCouponID *int64                      `gorm:"column:my_coupon_id;uniqueIndex:uq_reservations_my_coupon"`
	UserID     int64                       `gorm:"column:user_id;not null;uniqueIndex:uq_reservations_stock_user,priority:2;index:idx_reservations_user_id"`
	Met        int                         `gorm:"column:met;not null;default:0"`
	Date       string                      `gorm:"column:date;type:varchar(10);not null"`
}

func (Reservation) TableName() string { return "reservations" }

// TransactionRecord is the audit row written by each redemption.
type TransactionRecord struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	UserID     int64     `gorm:"column:user_id;not null;index:idx_transaction_records_user_id"`
	ProductID  int64     `gorm:"column:product_id;not null"`
	MyCouponID *int64    `gorm:"column:my_coupon_id"`
	Date       types.Day `gorm:"column:date;type:date;not null"`
}

func (TransactionRecord) TableName() string { return "transaction_records" }
