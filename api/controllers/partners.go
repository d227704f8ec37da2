package controllers

import (
	"net/http"

	"github.com/townkart/townkart-backend/api/responses"
	"github.com/townkart/townkart-backend/api/validators"
	"github.com/townkart/townkart-backend/internal/partners"
	pkgerrors "github.com/townkart/townkart-backend/pkg/errors"
	"github.com/townkart/townkart-backend/pkg/logger"
	"github.com/townkart/townkart-backend/pkg/types"
)

type locationRequest struct {
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

type settingsRequest struct {
	WorkScheduleEnabled bool     `json:"work_schedule_enabled"`
	WorkStartTime       *string  `json:"work_start_time,omitempty"`
	WorkEndTime         *string  `json:"work_end_time,omitempty"`
	WorkDays            *string  `json:"work_days,omitempty"`
	AutoAcceptOrders    bool     `json:"auto_accept_orders"`
	MaxDeliveryRadiusKm *float64 `json:"max_delivery_radius_km,omitempty" validate:"omitempty,gt=0"`
}

// PartnerOnline marks the calling delivery partner as accepting work.
func PartnerOnline(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return setOnline(svc, logg, true)
}

// PartnerOffline withdraws the calling delivery partner from dispatch.
func PartnerOffline(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return setOnline(svc, logg, false)
}

func setOnline(svc partners.Service, logg *logger.Logger, online bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		partnerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetOnline(r.Context(), partnerID, online); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := "offline"
		if online {
			status = "online"
		}
		responses.WriteSuccess(w, map[string]string{"status": status})
	}
}

// PartnerLocation records the partner's latest GPS fix.
func PartnerLocation(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		partnerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body locationRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		point := types.GeographyPoint{Lat: body.Latitude, Lng: body.Longitude}
		if err := svc.UpdateLocation(r.Context(), partnerID, point); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "updated"})
	}
}

// PartnerSettingsGet returns the caller's dispatch preferences.
func PartnerSettingsGet(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		partnerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settings, err := svc.GetSettings(r.Context(), partnerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// PartnerSettingsUpdate replaces the caller's dispatch preferences.
func PartnerSettingsUpdate(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		partnerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body settingsRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		settings, err := svc.UpdateSettings(r.Context(), partnerID, partners.UpdateSettingsInput{
			WorkScheduleEnabled: body.WorkScheduleEnabled,
			WorkStartTime:       body.WorkStartTime,
			WorkEndTime:         body.WorkEndTime,
			WorkDays:            body.WorkDays,
			AutoAcceptOrders:    body.AutoAcceptOrders,
			MaxDeliveryRadiusKm: body.MaxDeliveryRadiusKm,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, settings)
	}
}

// PartnerAvailability summarizes fleet state for the ops console.
func PartnerAvailability(svc partners.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "partners service unavailable"))
			return
		}

		stats, err := svc.AvailabilityStats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
