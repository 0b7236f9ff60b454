package api

import (
	"net/http"
	"time"

	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/models/dtos"
)

// ListOrganizations handles GET /{db}/organizations
func (h *Handlers) ListOrganizations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}

		orgs, err := h.deps.Dispatcher.ListOrganizations(r.Context(), kind)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch organizations")
			return
		}

		common.RespondJSON(w, dtos.MapSlice(orgs, dtos.NewOrganizationResponse))
	}
}

// CreateOrganization handles POST /{db}/organizations
func (h *Handlers) CreateOrganization() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.OrganizationCreateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		org, err := h.deps.Dispatcher.CreateOrganization(r.Context(), kind, req.ToEntity())
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgOrganizationCreateFailed)
			return
		}
		if org == nil {
			common.RespondError(w, initTime, nil, constants.MsgOrganizationCreateFailed)
			return
		}

		common.RespondJSON(w, dtos.NewOrganizationResponse(*org))
	}
}

// UpdateOrganization handles PUT /{db}/organizations/{id}
func (h *Handlers) UpdateOrganization() http.HandlerFunc {
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

		var req dtos.OrganizationUpdateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		patch, err := req.ToPatch()
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		org, err := h.deps.Dispatcher.UpdateOrganization(r.Context(), kind, id, patch)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update organization")
			return
		}
		if org == nil {
			common.RespondError(w, initTime, nil, constants.MsgOrganizationNotFound, http.StatusNotFound)
			return
		}

		common.RespondJSON(w, dtos.NewOrganizationResponse(*org))
	}
}
