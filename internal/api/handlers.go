package api

import (
	"net/http"

	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/models/dtos"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// Root handles GET /
func (h *Handlers) Root() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.RespondJSON(w, dtos.MessageResponse{Message: "Hello World"})
	}
}
