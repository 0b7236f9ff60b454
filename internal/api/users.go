package api

import (
	"net/http"
	"time"

	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/constants"
	"campaign-lab/polystore/internal/models/dtos"
)

// ListUsers handles GET /{db}/users
func (h *Handlers) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}

		users, err := h.deps.Dispatcher.ListUsers(r.Context(), kind)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to fetch users")
			return
		}

		common.RespondJSON(w, dtos.MapSlice(users, dtos.NewUserResponse))
	}
}

// CreateUser handles POST /{db}/users
func (h *Handlers) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		kind, ok := backendParam(w, r, initTime)
		if !ok {
			return
		}

		var req dtos.UserCreateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}

		user, err := h.deps.Dispatcher.CreateUser(r.Context(), kind, req.ToEntity())
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgUserCreateFailed)
			return
		}
		if user == nil {
			common.RespondError(w, initTime, nil, constants.MsgUserCreateFailed)
			return
		}

		common.RespondJSON(w, dtos.NewUserResponse(*user))
	}
}

// UpdateUser handles PUT /{db}/users/{id}
func (h *Handlers) UpdateUser() http.HandlerFunc {
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

		var req dtos.UserUpdateRequest
		if !decodeBody(w, r, initTime, &req) {
			return
		}
		patch, err := req.ToPatch()
		if err != nil {
			common.RespondError(w, initTime, err, constants.MsgInvalidBody, http.StatusBadRequest)
			return
		}

		user, err := h.deps.Dispatcher.UpdateUser(r.Context(), kind, id, patch)
		if err != nil {
			common.RespondError(w, initTime, err, "Failed to update user")
			return
		}
		if user == nil {
			common.RespondError(w, initTime, nil, constants.MsgUserNotFound, http.StatusNotFound)
			return
		}

		common.RespondJSON(w, dtos.NewUserResponse(*user))
	}
}
