package controllers

import (
	"net/http"

	"github.com/anavarro/tillpoint-backend/api/responses"
	"github.com/anavarro/tillpoint-backend/api/validators"
	catalogsvc "github.com/anavarro/tillpoint-backend/internal/catalog"
	pkgerrors "github.com/anavarro/tillpoint-backend/pkg/errors"
	"github.com/anavarro/tillpoint-backend/pkg/logger"
)

// CatalogLookup searches active products by title, SKU or barcode.
func CatalogLookup(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		query, err := validators.RequireQuery(r, "q")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.Lookup(r.Context(), query, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}
