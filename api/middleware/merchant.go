package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/saulrivera/medcart-backend/api/responses"
	"github.com/saulrivera/medcart-backend/pkg/enums"
	pkgerrors "github.com/saulrivera/medcart-backend/pkg/errors"
	"github.com/saulrivera/medcart-backend/pkg/logger"
)

const (
	merchantIDHeader = "X-Merchant-Id"
	actorHeader      = "X-Actor-Role"
)

// MerchantContext resolves the merchant identity from the X-Merchant-Id
// header and rejects requests without one. The acting role defaults to
// merchant unless the X-Actor-Role header names admin.
func MerchantContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(merchantIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "merchant context missing"))
				return
			}
			if _, err := uuid.Parse(raw); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid merchant id"))
				return
			}

			actor := enums.ActorMerchant
			if strings.EqualFold(strings.TrimSpace(r.Header.Get(actorHeader)), enums.ActorAdmin.String()) {
				actor = enums.ActorAdmin
			}

			ctx := WithMerchantID(r.Context(), raw)
			ctx = WithActor(ctx, actor.String())
			if logg != nil {
				ctx = logg.WithMerchantID(ctx, raw)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
