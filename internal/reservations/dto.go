package reservations

import (
	"strings"

	"github.com/popmakeup/popmakeup-backend/pkg/db/models"
	"github.com/popmakeup/popmakeup-backend/pkg/enums"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/types"
)

// CreateRequest is the POST /Reservation and /CouponReservation body.
type CreateRequest struct {
	RsvTime    types.Day       `json:"RSV_TIME"`
	StockID    types.FlexInt64 `json:"STOCK_ID"`
	UserID     types.FlexInt64 `json:"USER_ID"`
	MyCouponID types.FlexInt64 `json:"MY_COUPON_ID"`
	Met        *int            `json:"MET"`
	Date       string          `json:"DATE"`
}

// CreateInput is a validated reservation request.
type CreateInput struct {
	RsvTime types.Day
	UserID  int64
	Met     int
	Target  Target
}

type CreateResult struct {
	RsvID int64 `json:"RSV_ID"`
}

// StockInput validates the request as a lot reservation.
func (r CreateRequest) StockInput() (CreateInput, error) {
	if !r.StockID.Valid || r.StockID.Value <= 0 {
		return CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "STOCK_ID is required")
	}
	return r.input(StockTarget{StockID: r.StockID.Value})
}

// CouponInput validates the request as a coupon reservation. Any STOCK_ID is
// ignored; older clients send the placeholder 9999.
func (r CreateRequest) CouponInput() (CreateInput, error) {
	if !r.MyCouponID.Valid || r.MyCouponID.Value <= 0 {
		return CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "MY_COUPON_ID is required")
	}
	return r.input(CouponTarget{MyCouponID: r.MyCouponID.Value})
}

func (r CreateRequest) input(target Target) (CreateInput, error) {
	if r.RsvTime.IsZero() {
		return CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "RSV_TIME is required")
	}
	if !r.UserID.Valid || r.UserID.Value <= 0 {
		return CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "USER_ID is required")
	}
	met := 0
	if r.Met != nil {
		met = *r.Met
	}
	if met != 0 && met != 1 {
		return CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "MET must be 0 or 1")
	}
	if d := strings.TrimSpace(r.Date); d != "" && d != r.RsvTime.String() {
		return CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "DATE must match RSV_TIME").
			WithDetails(map[string]string{"RSV_TIME": r.RsvTime.String(), "DATE": d})
	}
	return CreateInput{RsvTime: r.RsvTime, UserID: r.UserID.Value, Met: met, Target: target}, nil
}

func (in CreateInput) toModel() *models.Reservation {
	m := &models.Reservation{
		RsvTime: in.RsvTime,
		UserID:  in.UserID,
		Met:     in.Met,
		Date:    in.RsvTime.String(),
	}
	in.Target.apply(m)
	return m
}

// ListItem is a reservation rendered as a product line. Coupon reservations
// use the coupon's projection: negative price and no catalog fields.
type ListItem struct {
	RsvID       int64                       `json:"RSV_ID"`
	Kind        enums.ReservationTargetKind `json:"KIND"`
	ID          int64                       `json:"ID"`
	PrdCode     *string                     `json:"PRD_CODE"`
	PrdName     string                      `json:"PRD_NAME"`
	PrdImage    *string                     `json:"PRD_IMAGE"`
	Description *string                     `json:"DESCRIPTION"`
	Price       int64                       `json:"PRICE"`
	Cal         *float64                    `json:"CAL"`
	Salinity    *float64                    `json:"SALINITY"`
	AllergyID   *int64                      `json:"ALLERGY_ID"`
	CategoryID  *int64                      `json:"CATEGORY_ID"`
}

func productItem(rsvID int64, p models.Product) ListItem {
	code, cal, salinity, category := p.PrdCode, p.Cal, p.Salinity, p.CategoryID
	return ListItem{
		RsvID:       rsvID,
		Kind:        enums.ReservationTargetStock,
		ID:          p.ID,
		PrdCode:     &code,
		PrdName:     p.PrdName,
		PrdImage:    p.PrdImage,
		Description: p.Description,
		Price:       p.Price,
		Cal:         &cal,
		Salinity:    &salinity,
		AllergyID:   p.AllergyID,
		CategoryID:  &category,
	}
}

func couponItem(rsvID int64, c models.Coupon) ListItem {
	return ListItem{
		RsvID:       rsvID,
		Kind:        enums.ReservationTargetCoupon,
		ID:          c.ID,
		PrdName:     c.Name,
		PrdImage:    c.Image,
		Description: c.Description,
		Price:       -c.Price,
	}
}
