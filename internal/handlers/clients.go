package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzahq/cobranza/internal/clients"
	"github.com/cobranzahq/cobranza/internal/httperr"
	"github.com/cobranzahq/cobranza/internal/tenant"
)

// ClientsHandler serves workspace-scoped debtor contacts.
type ClientsHandler struct {
	service  *clients.Service
	tenantMW echo.MiddlewareFunc
	logger   *slog.Logger
}

// NewClientsHandler creates a clients handler.
func NewClientsHandler(log *slog.Logger, service *clients.Service, tenantMW echo.MiddlewareFunc) *ClientsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ClientsHandler{
		service:  service,
		tenantMW: tenantMW,
		logger:   log.With(slog.String("handler", "clients")),
	}
}

// Register mounts the tenant-scoped /clients routes.
func (h *ClientsHandler) Register(e *echo.Echo) {
	g := e.Group("/clients", h.tenantMW)
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// Create godoc
// @Summary Create client
// @Tags clients
// @Param payload body clients.CreateClientRequest true "Client payload"
// @Success 201 {object} clients.Client
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /clients [post]
func (h *ClientsHandler) Create(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	var req clients.CreateClientRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	client, err := h.service.Create(c.Request().Context(), tctx, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// List godoc
// @Summary List clients
// @Tags clients
// @Success 200 {object} clients.ListClientsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /clients [get]
func (h *ClientsHandler) List(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	items, err := h.service.List(c.Request().Context(), tctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients.ListClientsResponse{Items: items})
}

// Get godoc
// @Summary Get client
// @Tags clients
// @Param id path string true "Client ID"
// @Success 200 {object} clients.Client
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /clients/{id} [get]
func (h *ClientsHandler) Get(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	client, err := h.service.Get(c.Request().Context(), tctx, c.Param("id"))
	if err != nil {
		return mapClientErr(err)
	}
	return c.JSON(http.StatusOK, client)
}

// Update godoc
// @Summary Update client
// @Tags clients
// @Param id path string true "Client ID"
// @Param payload body clients.UpdateClientRequest true "Client update payload"
// @Success 200 {object} clients.Client
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /clients/{id} [put]
func (h *ClientsHandler) Update(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	var req clients.UpdateClientRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	client, err := h.service.Update(c.Request().Context(), tctx, c.Param("id"), req)
	if err != nil {
		return mapClientErr(err)
	}
	return c.JSON(http.StatusOK, client)
}

// Delete godoc
// @Summary Delete client
// @Tags clients
// @Param id path string true "Client ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /clients/{id} [delete]
func (h *ClientsHandler) Delete(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), tctx, c.Param("id")); err != nil {
		return mapClientErr(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func mapClientErr(err error) error {
	if errors.Is(err, clients.ErrNotFound) {
		return httperr.NotFound("client")
	}
	return err
}
