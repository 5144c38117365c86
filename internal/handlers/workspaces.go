package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cobranzahq/cobranza/internal/auth"
	"github.com/cobranzahq/cobranza/internal/httperr"
	"github.com/cobranzahq/cobranza/internal/tenant"
	"github.com/cobranzahq/cobranza/internal/workspaces"
)

// WorkspacesHandler serves workspace creation, listing, switching, and
// member management.
type WorkspacesHandler struct {
	service  *workspaces.Service
	resolver *tenant.Resolver
	tenantMW echo.MiddlewareFunc
	logger   *slog.Logger
}

// NewWorkspacesHandler creates a workspaces handler. tenantMW guards the
// routes that operate on the resolved workspace.
func NewWorkspacesHandler(log *slog.Logger, service *workspaces.Service, resolver *tenant.Resolver, tenantMW echo.MiddlewareFunc) *WorkspacesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WorkspacesHandler{
		service:  service,
		resolver: resolver,
		tenantMW: tenantMW,
		logger:   log.With(slog.String("handler", "workspaces")),
	}
}

// Register mounts the workspace routes. /workspaces/current is the only
// tenant-scoped subtree; create/list/switch need a session but no resolved
// workspace (a fresh user has none yet).
func (h *WorkspacesHandler) Register(e *echo.Echo) {
	g := e.Group("/workspaces")
	g.POST("", h.Create)
	g.GET("", h.ListMine)
	g.POST("/switch", h.Switch)

	current := g.Group("/current", h.tenantMW)
	current.GET("", h.GetCurrent)
	current.GET("/members", h.ListMembers)
	current.POST("/members", h.AddMember)
	current.PUT("/members/:user_id", h.UpdateMember)
}

// Create godoc
// @Summary Create workspace
// @Description Create a workspace; the caller becomes its OWNER
// @Tags workspaces
// @Param payload body workspaces.CreateWorkspaceRequest true "Workspace payload"
// @Success 201 {object} workspaces.Workspace
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /workspaces [post]
func (h *WorkspacesHandler) Create(c echo.Context) error {
	identity, err := auth.IdentityFromContext(c)
	if err != nil {
		return err
	}
	var req workspaces.CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	workspace, err := h.service.Create(c.Request().Context(), identity, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, workspace)
}

// ListMine godoc
// @Summary List my workspaces
// @Tags workspaces
// @Success 200 {object} workspaces.ListWorkspacesResponse
// @Failure 401 {object} ErrorResponse
// @Router /workspaces [get]
func (h *WorkspacesHandler) ListMine(c echo.Context) error {
	identity, err := auth.IdentityFromContext(c)
	if err != nil {
		return err
	}
	items, err := h.service.ListMine(c.Request().Context(), identity.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workspaces.ListWorkspacesResponse{Items: items})
}

// Switch godoc
// @Summary Switch active workspace
// @Description Validate membership and persist the workspace cookie
// @Tags workspaces
// @Param payload body workspaces.SwitchWorkspaceRequest true "Switch payload"
// @Success 200 {object} tenant.Context
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /workspaces/switch [post]
func (h *WorkspacesHandler) Switch(c echo.Context) error {
	identity, err := auth.IdentityFromContext(c)
	if err != nil {
		return err
	}
	var req workspaces.SwitchWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	tctx, err := h.resolver.Switch(c.Request().Context(), identity, req.WorkspaceID)
	if err != nil {
		return err
	}
	// The cookie is written only for a membership-verified workspace id.
	tenant.SetWorkspaceCookie(c, tctx.WorkspaceID)
	return c.JSON(http.StatusOK, tctx)
}

// GetCurrent godoc
// @Summary Get the resolved workspace context
// @Tags workspaces
// @Success 200 {object} tenant.Context
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /workspaces/current [get]
func (h *WorkspacesHandler) GetCurrent(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tctx)
}

// ListMembers godoc
// @Summary List workspace members
// @Tags workspaces
// @Success 200 {object} workspaces.ListMembersResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /workspaces/current/members [get]
func (h *WorkspacesHandler) ListMembers(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	items, err := h.service.Members(c.Request().Context(), tctx.WorkspaceID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, workspaces.ListMembersResponse{Items: items})
}

// AddMember godoc
// @Summary Add workspace member
// @Description Add an existing user to the workspace (OWNER/MANAGER only)
// @Tags workspaces
// @Param payload body workspaces.AddMemberRequest true "Member payload"
// @Success 201 {object} workspaces.Member
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /workspaces/current/members [post]
func (h *WorkspacesHandler) AddMember(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	if !tctx.CanManageMembers() {
		return httperr.Forbidden("owner or manager role required")
	}
	var req workspaces.AddMemberRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	member, err := h.service.AddMember(c.Request().Context(), tctx.WorkspaceID, req)
	if err != nil {
		return mapMemberErr(err)
	}
	return c.JSON(http.StatusCreated, member)
}

// UpdateMember godoc
// @Summary Update workspace member
// @Description Change a member's role or status (OWNER/MANAGER only)
// @Tags workspaces
// @Param user_id path string true "User ID"
// @Param payload body workspaces.UpdateMemberRequest true "Member update payload"
// @Success 200 {object} workspaces.Member
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /workspaces/current/members/{user_id} [put]
func (h *WorkspacesHandler) UpdateMember(c echo.Context) error {
	tctx, err := tenant.FromContext(c)
	if err != nil {
		return err
	}
	if !tctx.CanManageMembers() {
		return httperr.Forbidden("owner or manager role required")
	}
	var req workspaces.UpdateMemberRequest
	if err := c.Bind(&req); err != nil {
		return httperr.Validation(err.Error())
	}
	member, err := h.service.UpdateMember(c.Request().Context(), tctx.WorkspaceID, c.Param("user_id"), req)
	if err != nil {
		return mapMemberErr(err)
	}
	return c.JSON(http.StatusOK, member)
}

func mapMemberErr(err error) error {
	switch {
	case errors.Is(err, workspaces.ErrUserNotFound):
		return httperr.Validation("user not found")
	case errors.Is(err, workspaces.ErrAlreadyMember):
		return httperr.Validation("user is already a member")
	case errors.Is(err, workspaces.ErrMemberNotFound):
		return httperr.NotFound("member")
	case errors.Is(err, workspaces.ErrLastOwner):
		return httperr.Validation("workspace must keep at least one active owner")
	}
	return err
}
