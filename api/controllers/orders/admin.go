package orders

import (
	"net/http"
	"strings"

	"github.com/oceannemj/site-web-JKM/api/responses"
	"github.com/oceannemj/site-web-JKM/api/validators"
	internalorders "github.com/oceannemj/site-web-JKM/internal/orders"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
	"github.com/oceannemj/site-web-JKM/pkg/pagination"
)

const orderIDParam = "orderId"

type idResponse struct {
	ID string `json:"id"`
}

// Create records a back-office order and applies its stock and revenue effects.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var input internalorders.CreateInput
		if err := validators.DecodeJSONBodyAllowUnknown(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, idResponse{ID: id.String()})
	}
}

// List returns a cursor page of orders, optionally filtered by status.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := validators.ParseQueryStatus(r, "status")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, internalorders.ListFilters{Status: status})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Benefits reports the margin of recent paid and shipped orders.
func Benefits(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Benefits(r.Context()))
	}
}

// Detail returns an order with its lines and revenue entries.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, orderIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, detail)
	}
}

// Update rewrites an order and reconciles its effects.
func Update(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, orderIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var input internalorders.UpdateInput
		if err := validators.DecodeJSONBodyAllowUnknown(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Update(r.Context(), orderID, input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, idResponse{ID: orderID.String()})
	}
}

// Delete reverses an order's effects and removes it.
func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParseUUIDParam(r, orderIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, idResponse{ID: orderID.String()})
	}
}

func pageParams(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
