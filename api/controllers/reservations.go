package controllers

import (
	"net/http"
	"strings"

	"github.com/popmakeup/popmakeup-backend/api/responses"
	"github.com/popmakeup/popmakeup-backend/api/validators"
	"github.com/popmakeup/popmakeup-backend/internal/reservations"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
)

// CreateReservation serves POST /Reservation, which reserves a lot.
func CreateReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return createReservation(svc, logg, reservations.CreateRequest.StockInput)
}

// CreateCouponReservation serves POST /CouponReservation, which reserves and consumes a coupon.
func CreateCouponReservation(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return createReservation(svc, logg, reservations.CreateRequest.CouponInput)
}

func createReservation(svc reservations.Service, logg *logger.Logger, build func(reservations.CreateRequest) (reservations.CreateInput, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		var body reservations.CreateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := build(body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, result)
	}
}

// ListReservations serves GET /Reservation?user_id=&date=.
func ListReservations(svc reservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}

		userID, err := validators.RequireQueryID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		date := strings.TrimSpace(r.URL.Query().Get("date"))

		items, err := svc.List(r.Context(), userID, date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteStatusData(w, items)
	}
}
