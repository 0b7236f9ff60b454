package api

import (
	"net/http"
	"time"

	"campaign-lab/polystore/internal/common"
	"campaign-lab/polystore/internal/models/entities"
)

// HealthCheck handles GET /healthCheck
//
// Every configured backend is pinged; the overall status is "down" when any
// of them fails.
func (h *Handlers) HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]entities.ServiceStatus)

		for kind, err := range h.deps.Dispatcher.Health(r.Context()) {
			status := entities.ServiceStatus{Status: "ok", Details: kind.Tag() + " reachable"}
			if err != nil {
				status = entities.ServiceStatus{Status: "down", Details: err.Error()}
			}
			services[kind.Tag()] = status
		}

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		uptime := time.Since(h.deps.UpSince).Round(time.Second).String()

		common.RespondJSON(w, entities.HealthCheckResponse{
			Services: services,
			Status:   overallStatus,
			Uptime:   uptime,
		})
	}
}
