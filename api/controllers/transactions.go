package controllers

import (
	"net/http"

	"github.com/popmakeup/popmakeup-backend/api/responses"
	"github.com/popmakeup/popmakeup-backend/api/validators"
	"github.com/popmakeup/popmakeup-backend/internal/redemption"
	pkgerrors "github.com/popmakeup/popmakeup-backend/pkg/errors"
	"github.com/popmakeup/popmakeup-backend/pkg/logger"
)

const maxProductCodeLen = 13

// Redeem serves POST /TransactionData?user_id=&prd_code=.
func Redeem(svc redemption.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "redemption service unavailable"))
			return
		}

		userID, err := validators.RequireQueryID(r, "user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		code, err := validators.RequireQueryString(r, "prd_code", maxProductCodeLen)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Redeem(r.Context(), userID, code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteRaw(w, http.StatusOK, result)
	}
}
