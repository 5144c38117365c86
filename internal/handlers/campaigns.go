package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzahq/cobranza/internal/campaigns"
	"github.com/cobranzahq/cobranza/internal/httperr"
	"github.com/cobranzahq/cobranza/internal/tenant"
)

// CampaignsHandler serves workspace-scoped collection campaigns.
type CampaignsHandler struct {
	service  *campaigns.Service
	tenantMW echo.MiddlewareFunc
	logger   *slog.Logger
}

// NewCampaignsHandler creates a campaigns handler.
func NewCampaignsHandler(log *slog.Logger, service *campaigns.Service, tenantMW echo.MiddlewareFunc) *CampaignsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CampaignsHandler{
		service:  service,
		tenantMW: tenantMW,
		logger:   log.With(slog.String("handler", "campaigns")),
	}
}

// Register mounts the tenant-scoped /campaigns routes.
func (h *CampaignsHandler) Register(e *echo.Echo) {
	g := e.Group("/campaigns", h.tenantMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
}

// Create godoc
// @Summary Create campaign
// @Tags campaigns
// @Param payload body campaigns.CreateCampaignRequest true "Campaign payload"
// @Success 201 {object} campaigns.Campaign
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /campaigns [post]
func (h *CampaignsHandler) Create(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	var req campaigns.CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	campaign, err := h.service.Create(c.Request().Context(), tctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, campaign)
}

// List godoc
// @Summary List campaigns
// @Tags campaigns
// @Success 200 {object} campaigns.ListCampaignsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /campaigns [get]
func (h *CampaignsHandler) List(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), tctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, campaigns.ListCampaignsResponse{Items: items})
}

// Get godoc
// @Summary Get campaign
// @Tags campaigns
// @Param id path string true "Campaign ID"
// @Success 200 {object} campaigns.Campaign
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /campaigns/{id} [get]
func (h *CampaignsHandler) Get(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	campaign, err := h.service.Get(c.Request().Context(), tctx, c.Param("id"))
	if err != nil {
		return mapCampaignErr(err)
	}
	return c.JSON(http.StatusOK, campaign)
}

// Update godoc
// @Summary Update campaign
// @Tags campaigns
// @Param id path string true "Campaign ID"
// @Param payload body campaigns.UpdateCampaignRequest true "Campaign update payload"
// @Success 200 {object} campaigns.Campaign
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /campaigns/{id} [put]
func (h *CampaignsHandler) Update(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	var req campaigns.UpdateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	campaign, err := h.service.Update(c.Request().Context(), tctx, c.Param("id"), req)
	if err != nil {
		return mapCampaignErr(err)
	}
	return c.JSON(http.StatusOK, campaign)
}

func mapCampaignErr(err error) error {
	if errors.Is(err, campaigns.ErrNotFound) {
		return httperr.NotFound("campaign")
	}
	return err
}
