package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzahq/cobranza/internal/debts"
	"github.com/cobranzahq/cobranza/internal/httperr"
	"github.com/cobranzahq/cobranza/internal/links"
	"github.com/cobranzahq/cobranza/internal/tenant"
)

// DebtsHandler serves workspace-scoped debt records and their personal
// links.
type DebtsHandler struct {
	service  *debts.Service
	links    *links.Service
	tenantMW echo.MiddlewareFunc
	logger   *slog.Logger
}

// NewDebtsHandler creates a debts handler.
func NewDebtsHandler(log *slog.Logger, service *debts.Service, linkService *links.Service, tenantMW echo.MiddlewareFunc) *DebtsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DebtsHandler{
		service:  service,
		links:    linkService,
		tenantMW: tenantMW,
		logger:   log.With(slog.String("handler", "debts")),
	}
}

// Register mounts the tenant-scoped /debts routes.
func (h *DebtsHandler) Register(e *echo.Echo) {
	g := e.Group("/debts", h.tenantMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/personal-link", h.PersonalLink)
}

// Create godoc
// @Summary Create debt record
// @Description Create a debt; referenced client and campaign must belong to the workspace
// @Tags debts
// @Param payload body debts.CreateDebtRequest true "Debt payload"
// @Success 201 {object} debts.Debt
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /debts [post]
func (h *DebtsHandler) Create(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	var req debts.CreateDebtRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	debt, err := h.service.Create(c.Request().Context(), tctx, req)
	if err != nil {
		return mapDebtErr(err)
	}
	return c.JSON(http.StatusCreated, debt)
}

// List godoc
// @Summary List debt records
// @Tags debts
// @Success 200 {object} debts.ListDebtsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /debts [get]
func (h *DebtsHandler) List(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), tctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, debts.ListDebtsResponse{Items: items})
}

// Get godoc
// @Summary Get debt record
// @Tags debts
// @Param id path string true "Debt ID"
// @Success 200 {object} debts.Debt
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id} [get]
func (h *DebtsHandler) Get(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	debt, err := h.service.Get(c.Request().Context(), tctx, c.Param("id"))
	if err != nil {
		return mapDebtErr(err)
	}
	return c.JSON(http.StatusOK, debt)
}

// Update godoc
// @Summary Update debt record
// @Tags debts
// @Param id path string true "Debt ID"
// @Param payload body debts.UpdateDebtRequest true "Debt update payload"
// @Success 200 {object} debts.Debt
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id} [put]
func (h *DebtsHandler) Update(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	var req debts.UpdateDebtRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	debt, err := h.service.Update(c.Request().Context(), tctx, c.Param("id"), req)
	if err != nil {
		return mapDebtErr(err)
	}
	return c.JSON(http.StatusOK, debt)
}

// Delete godoc
// @Summary Delete debt record
// @Tags debts
// @Param id path string true "Debt ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id} [delete]
func (h *DebtsHandler) Delete(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), tctx, c.Param("id")); err != nil {
		return mapDebtErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PersonalLink godoc
// @Summary Get or create the personal link for a debt
// @Description Idempotent while the token is live; a debt outside the workspace is a 404
// @Tags debts
// @Param id path string true "Debt ID"
// @Success 200 {object} links.Link
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /debts/{id}/personal-link [get]
func (h *DebtsHandler) PersonalLink(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	link, err := h.links.IssueOrGet(c.Request().Context(), tctx, c.Param("id"))
	if err != nil {
		return mapDebtErr(err)
	}
	return c.JSON(http.StatusOK, link)
}

func mapDebtErr(err error) error {
	switch {
	case errors.Is(err, debts.ErrNotFound):
		return httperr.NotFound("debt")
	case errors.Is(err, debts.ErrClientNotInWorkspace),
		errors.Is(err, debts.ErrCampaignNotInWorkspace):
		return httperr.Forbidden(err.Error())
	}
	return err
}
