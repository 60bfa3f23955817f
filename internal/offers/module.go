// Package offers provides the offer moderation bounded context module.
// This file defines the module that encapsulates all offers setup and route registration.
package offers

import (
	"offerdesk_backend/internal/commerce"
	"offerdesk_backend/internal/events"
	apphttp "offerdesk_backend/internal/http"
	"offerdesk_backend/internal/markets"
	"offerdesk_backend/internal/offers/handler"
	"offerdesk_backend/internal/offers/repository"
	"offerdesk_backend/internal/offers/service"
	"offerdesk_backend/platform/config"
	"offerdesk_backend/platform/logger"
	"offerdesk_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the offers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the offers module with all its dependencies.
func NewModule(pool *pgxpool.Pool, client commerce.Client, eventBus events.Bus, val *validator.Validator, cfg *config.Config, log *logger.Logger) *Module {
	repo := repository.New(pool)
	resolver := markets.NewResolver(cfg.GetBaseCurrency(), cfg.GetBaseCountry())
	svc := service.New(repo, client, resolver, eventBus, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "offers"
}

// Service returns the offers service for external use (e.g. the sweeper).
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the offer store for external use.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts offer routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterPublicRoutes(ctx.Public)
	m.handler.RegisterAdminRoutes(ctx.Admin)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
