package api

import (
	"net/http"
	"time"

	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/models/dtos"
	"campaign-lab/polystore/internal/models/entities"
)

// ListApplications handles GET /{db}/applications?campaign_id=&user_id=
// Both filters apply together when given.
func (h *Handlers) ListApplications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}

		campaignID, err := optionalIDQuery(r, "campaign_id")
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidQuery, http.StatusBadRequest)
			return
		}
		userID, err := optionalIDQuery(r, "user_id")
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidQuery, http.StatusBadRequest)
			return
		}

		apps, err := h.deps.Dispatcher.ListApplications(r.Context(), kind, entities.ApplicationFilter{
			CampaignID: campaignID,
			UserID:     userID,
		})
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch applications")
			return
		}

		common.RespondJSON(w, dtos.MapSlice(apps, dtos.NewApplicationResponse))
	}
}

// CreateApplication handles POST /{db}/applications
func (h *Handlers) CreateApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.ApplicationCreateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		app, err := h.deps.Dispatcher.CreateApplication(r.Context(), kind, req.ToEntity())
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgApplicationCreateFailed)
			return
		}
		if app == nil {
			common.RespondError(w, initTime, nil, constants.MsgApplicationCreateFailed)
			return
		}

		common.RespondJSON(w, dtos.NewApplicationResponse(*app))
	}
}

// UpdateApplication handles PUT /{db}/applications/{id}
func (h *Handlers) UpdateApplication() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}
		id, ok := idParam(w, r, initTime, "id")
		if !ok {
			return
		}

		var req dtos.ApplicationUpdateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		patch, err := req.ToPatch()
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		app, err := h.deps.Dispatcher.UpdateApplication(r.Context(), kind, id, patch)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update application")
			return
		}
		if app == nil {
			common.RespondError(w, initTime, nil, constants.MsgApplicationNotFound, http.StatusNotFound)
			return
		}

		common.RespondJSON(w, dtos.NewApplicationResponse(*app))
	}
}
