// Package handler exposes the offers HTTP endpoints: the public submit
// endpoint and the key-guarded admin surface.
package handler

import (
	"net/http"

	"offerdesk_backend/internal/offers/service"
	"offerdesk_backend/internal/offers/transport"
	"offerdesk_backend/platform/httpkit"
	"offerdesk_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// Handler handles offer HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new offers handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes registers the unauthenticated storefront routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/offer", h.Submit)
}

// Submit accepts a buyer price offer from the storefront widget.
func (h *Handler) Submit(c *gin.Context) {
	var req transport.SubmitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.svc.Submit(c.Request.Context(), req, service.RequestMeta{
		Origin:       c.GetHeader("Origin"),
		RemoteIP:     c.RemoteIP(),
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
		UserAgent:    c.Request.UserAgent(),
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SubmitOfferResponse{OK: true, ID: id})
}
