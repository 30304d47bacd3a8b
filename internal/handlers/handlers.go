package handlers

import (
	"time"

	"audio-downloader/internal/catalog"
	"audio-downloader/internal/pipeline"
	"audio-downloader/internal/registry"
	"audio-downloader/internal/startup"
	"audio-downloader/internal/store"
)

type Handlers struct {
	registry  *registry.Registry
	store     *store.Store
	pipeline  *pipeline.Orchestrator
	provider  catalog.Provider
	config    *startup.Config
	startedAt time.Time
}

func New(reg *registry.Registry, st *store.Store, orch *pipeline.Orchestrator, provider catalog.Provider, config *startup.Config) *Handlers {
	return &Handlers{
		registry:  reg,
		store:     st,
		pipeline:  orch,
		provider:  provider,
		config:    config,
		startedAt: time.Now(),
	}
}
