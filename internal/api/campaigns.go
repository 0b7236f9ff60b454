package api

import (
	"net/http"
	"time"

	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/models/dtos"
	"campaign-lab/polystore/internal/models/entities"
)

// ListCampaigns handles GET /{db}/campaigns?organization_id=
func (h *Handlers) ListCampaigns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}

		organizerID, err := optionalIDQuery(r, "organization_id")
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidQuery, http.StatusBadRequest)
			return
		}

		campaigns, err := h.deps.Dispatcher.ListCampaigns(r.Context(), kind, entities.CampaignFilter{OrganizerID: organizerID})
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch campaigns")
			return
		}

		common.RespondJSON(w, dtos.MapSlice(campaigns, dtos.NewCampaignResponse))
	}
}

// ListCampaignApplications handles GET /{db}/campaigns/{campaign_id}/applications
func (h *Handlers) ListCampaignApplications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}
		campaignID, ok := idParam(w, r, initTime, "campaign_id")
		if !ok {
			return
		}

		apps, err := h.deps.Dispatcher.ListApplications(r.Context(), kind, entities.ApplicationFilter{CampaignID: &campaignID})
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch applications")
			return
		}

		common.RespondJSON(w, dtos.MapSlice(apps, dtos.NewApplicationResponse))
	}
}

// CreateCampaign handles POST /{db}/campaigns
func (h *Handlers) CreateCampaign() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.CampaignCreateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		campaign, err := h.deps.Dispatcher.CreateCampaign(r.Context(), kind, req.ToEntity())
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgCampaignCreateFailed)
			return
		}
		if campaign == nil {
			common.RespondError(w, initTime, nil, constants.MsgCampaignCreateFailed)
			return
		}

		common.RespondJSON(w, dtos.NewCampaignResponse(*campaign))
	}
}

// UpdateCampaign handles PUT /{db}/campaigns/{id}
func (h *Handlers) UpdateCampaign() http.HandlerFunc {
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

		var req dtos.CampaignUpdateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		patch, err := req.ToPatch()
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		campaign, err := h.deps.Dispatcher.UpdateCampaign(r.Context(), kind, id, patch)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update campaign")
			return
		}
		if campaign == nil {
			common.RespondError(w, initTime, nil, constants.MsgCampaignNotFound, http.StatusNotFound)
			return
		}

		common.RespondJSON(w, dtos.NewCampaignResponse(*campaign))
	}
}
