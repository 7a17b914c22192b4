package controllers

import (
	"net/http"

	"github.com/oceannemj/site-web-JKM/api/responses"
	"github.com/oceannemj/site-web-JKM/internal/dashboard"
	pkgerrors "github.com/oceannemj/site-web-JKM/pkg/errors"
	"github.com/oceannemj/site-web-JKM/pkg/logger"
)

func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Stats(r.Context()))
	}
}

func DashboardNotifications(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Notifications(r.Context()))
	}
}
