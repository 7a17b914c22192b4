package controllers

import (
	"net/http"

	"github.com/oceannemj/site-web-JKM/api/responses"
	"github.com/oceannemj/site-web-JKM/api/validators"
	"github.com/oceannemj/site-web-JKM/internal/stock"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
)

const productIDParam = "productId"

type setStockRequest struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

// SetProductStock overwrites a product's stock counter through the ledger.
func SetProductStock(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setStockRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.SetStock(r.Context(), productID, *req.Stock)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductStockMovements returns the most recent stock movements of a product.
func ProductStockMovements(svc stock.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stock service unavailable"))
			return
		}

		productID, err := validators.ParseUUIDParam(r, productIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 50, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		movements, err := svc.Movements(r.Context(), productID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, movements)
	}
}
