package orders

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/oceannemj/site-web-JKM/api/middleware"
	"github.com/oceannemj/site-web-JKM/api/responses"
	"github.com/oceannemj/site-web-JKM/api/validators"
	internalorders "github.com/oceannemj/site-web-JKM/internal/orders"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
)

// Checkout turns the caller's cart lines into a pending order.
func Checkout(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		clientID, err := callerClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalorders.CheckoutInput
		if err := validators.DecodeJSONBodyAllowUnknown(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.ClientID = clientID

		detail, err := svc.Checkout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, detail)
	}
}

// Mine lists the orders placed by the caller.
func Mine(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		clientID, err := callerClientID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListForClient(r.Context(), clientID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func callerClientID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "client identity missing")
	}
	return id, nil
}
