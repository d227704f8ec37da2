package controllers

import (
	"net/http"
	"strings"

	"github.com/townkart/townkart-backend/api/responses"
	"github.com/townkart/townkart-backend/internal/address"
	pkgerrors "github.com/townkart/townkart-backend/pkg/errors"
	"github.com/townkart/townkart-backend/pkg/logger"
)

// AddressSuggest proxies autocomplete lookups for delivery addresses.
func AddressSuggest(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		req := address.SuggestRequest{
			Query:    strings.TrimSpace(r.URL.Query().Get("q")),
			Country:  strings.TrimSpace(r.URL.Query().Get("country")),
			Language: strings.TrimSpace(r.URL.Query().Get("lang")),
		}

		suggestions, err := svc.Suggest(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestions)
	}
}

// AddressResolve expands a place id into a structured delivery address.
func AddressResolve(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		placeID := strings.TrimSpace(r.URL.Query().Get("place_id"))
		if placeID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "place_id is required"))
			return
		}

		resolved, err := svc.Resolve(r.Context(), address.ResolveRequest{PlaceID: placeID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resolved)
	}
}
