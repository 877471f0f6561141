package controllers

import (
	"net/http"

	"github.com/popmakeup/popmakeup-backend/api/responses"
	"github.com/popmakeup/popmakeup-backend/api/validators"
	"github.com/popmakeup/popmakeup-backend/internal/coupons"
	product "github.com/popmakeup/popmakeup-backend/internal/products"
	"github.com/popmakeup/popmakeup-backend/internal/stocks"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
)

const maxCategoryLen = 50

// Availability serves POST /Stocks?date=&category=.
func Availability(svc stocks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		date, err := validators.RequireQueryString(r, "date", 10)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := validators.RequireQueryString(r, "category", maxCategoryLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Availability(r.Context(), date, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatusData(w, items)
	}
}

// ProductDetail serves POST /Products?ID=.
func ProductDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		id, err := validators.RequireQueryID(r, "ID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatusData(w, item)
	}
}

// MyCoupons serves GET /MyCoupon?user_id=.
func MyCoupons(svc coupons.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		userID, err := validators.RequireQueryID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ListAvailable(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatusData(w, items)
	}
}
