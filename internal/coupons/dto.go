package coupons

import (
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
)

type CouponDTO struct {
	ID          int64   `json:"ID"`
	Name        string  `json:"NAME"`
	Image       *string `json:"IMAGE"`
	Description *string `json:"DESCRIPTION"`
	Expiration  int     `json:"EXPIRATION"`
	Price       int64   `json:"PRICE"`
}

// MyCouponItem is an owned instance merged over its template; the instance's
// ID wins.
type MyCouponItem struct {
	CouponDTO
	ID       int64              `json:"ID"`
	UserID   int64              `json:"USER_ID"`
	CouponID int64              `json:"COUPON_ID"`
	GetDate  types.Day          `json:"GET_DATE"`
	ExpDate  types.Day          `json:"EXP_DATE"`
	Status   enums.CouponStatus `json:"STATUS"`
}

func merge(mc models.MyCoupon, c models.Coupon) MyCouponItem {
	return MyCouponItem{
		CouponDTO: CouponDTO{
			ID:          c.ID,
			Name:        c.Name,
			Image:       c.Image,
			Description: c.Description,
			Expiration:  c.Expiration,
			Price:       c.Price,
		},
		ID:       mc.ID,
		UserID:   mc.UserID,
		CouponID: mc.CouponID,
		GetDate:  mc.GetDate,
		ExpDate:  mc.ExpDate,
		Status:   mc.Status,
	}
}
