package api

import (
	"time"

	"campaign-lab/polystore/internal/metrics"
	"campaign-lab/polystore/internal/services"
)

type Dependencies struct {
	Dispatcher *services.Dispatcher
	Metrics    *metrics.MetricsRegistry
	UpSince    time.Time
}

func NewDependencies(dispatcher *services.Dispatcher, metricsReg *metrics.MetricsRegistry, upSince time.Time) *Dependencies {
	return &Dependencies{
		Dispatcher: dispatcher,
		Metrics:    metricsReg,
		UpSince:    upSince,
	}
}
