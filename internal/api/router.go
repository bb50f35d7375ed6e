package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/civica/electoral/internal/export"
	"github.com/civica/electoral/internal/middleware"
	"github.com/civica/electoral/internal/repository"
)

// Repositories bundles the persistence dependencies the router wires up.
type Repositories struct {
	Tenants      repository.TenantRepository
	Elections    repository.ElectionRepository
	Convocations repository.ConvocationRepository
	Nominations  repository.NominationRepository
	Candidacies  repository.CandidacyRepository
	Assemblies   repository.AssemblyRepository
	Forms        repository.FormRepository
}

// RouterConfig holds the non-repository inputs of NewRouter.
type RouterConfig struct {
	AllowedOrigins []string
	AdminToken     string
}

// NewRouter assembles the HTTP API: request logging, CORS, tenant scope
// resolution and the versioned resource routes.
func NewRouter(cfg RouterConfig, repos Repositories, exporter *export.Service) http.Handler {
	resolver := middleware.NewTenantResolver(repos.Tenants, cfg.AdminToken)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Tenant", "X-Admin-Token"},
	})

	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(corsHandler.Handler)
	r.Use(resolver.Handler)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tenants", NewTenantHandler(repos.Tenants).Routes)
		r.Route("/elections", NewElectionHandler(repos.Elections).Routes)
		r.Route("/convocations", NewConvocationHandler(repos.Convocations, repos.Elections).Routes)
		r.Route("/nominations", NewNominationHandler(repos.Nominations, repos.Candidacies, exporter).Routes)
		r.Route("/candidacies", NewCandidacyHandler(repos.Candidacies, exporter).Routes)
		r.Route("/assemblies", NewAssemblyHandler(repos.Assemblies).Routes)
		r.Route("/forms", NewFormHandler(repos.Forms).Routes)
	})

	return r
}
