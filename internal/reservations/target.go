package reservations

import (
	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
)

// Target is what a reservation holds: a lot or an owned coupon instance.
type Target interface {
	Kind() enums.ReservationTargetKind
	apply(r *models.Reservation)
}

type StockTarget struct {
	StockID int64
}

func (StockTarget) Kind() enums.ReservationTargetKind { return enums.ReservationTargetStock }

func (t StockTarget) apply(r *models.Reservation) {
	id := t.StockID
	r.TargetKind = t.Kind()
	r.StockID = &id
	r.MyCouponID = nil
}

type CouponTarget struct {
	MyCouponID int64
}

func (CouponTarget) Kind() enums.ReservationTargetKind { return enums.ReservationTargetCoupon }

func (t CouponTarget) apply(r *models.Reservation) {
	id := t.MyCouponID
	r.TargetKind = t.Kind()
	r.MyCouponID = &id
	r.StockID = nil
}
