package controllers

import (
	"net/http"
	"strings"

	"github.com/saulrivera/medcart-backend/api/responses"
	"github.com/saulrivera/medcart-backend/api/validators"
	"github.com/saulrivera/medcart-backend/internal/subscribers"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
	"github.com/saulrivera/medcart-backend/pkg/logger"
)

// SubscriberList returns the merchant's subscribers, filterable by account
// status and a name/email search term.
func SubscriberList(svc subscribers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := subscribers.ListInput{
			Search: validators.SanitizeString(r.URL.Query().Get("q"), 200),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("account_status")); raw != "" {
			status, err := enums.ParseAccountStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account status"))
				return
			}
			input.AccountStatus = &status
		}

		rows, err := svc.ListSubscribers(r.Context(), merchantID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

type accountStatusRequest struct {
	AccountStatus string `json:"account_status" validate:"required"`
}

// SubscriberAccountStatus toggles a subscriber's account between active and
// inactive without touching the subscription axis.
func SubscriberAccountStatus(svc subscribers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		merchantID, err := merchantFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subscriberID, err := uuidParam(r, "subscriberId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload accountStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseAccountStatus(strings.TrimSpace(payload.AccountStatus))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid account status"))
			return
		}

		subscriber, err := svc.SetAccountStatus(r.Context(), merchantID, subscriberID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, subscriber)
	}
}
