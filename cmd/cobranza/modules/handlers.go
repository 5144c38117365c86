package modules

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/cobranzahq/cobranza/internal/campaigns"
	"github.com/cobranzahq/cobranza/internal/clients"
	"github.com/cobranzahq/cobranza/internal/debts"
	"github.com/cobranzahq/cobranza/internal/handlers"
	"github.com/cobranzahq/cobranza/internal/links"
	"github.com/cobranzahq/cobranza/internal/server"
	"github.com/cobranzahq/cobranza/internal/tenant"
	"github.com/cobranzahq/cobranza/internal/workspaces"
)

// HandlersModule provides the HTTP handlers, collected into the
// server_handlers group.
var HandlersModule = fx.Module(
	"handlers",
	fx.Provide(
		provideTenantMiddleware,
		asHandler(provideHealthHandler),
		asHandler(provideWorkspacesHandler),
		asHandler(provideClientsHandler),
		asHandler(provideCampaignsHandler),
		asHandler(provideDebtsHandler),
	),
)

// tenantMiddleware marks the tenant-resolution stage so fx can tell it apart
// from other echo middleware.
type tenantMiddleware echo.MiddlewareFunc

func asHandler(f any) any {
	return fx.Annotate(f, fx.As(new(server.Handler)), fx.ResultTags(`group:"server_handlers"`))
}

func provideTenantMiddleware(resolver *tenant.Resolver) tenantMiddleware {
	return tenantMiddleware(tenant.Middleware(resolver))
}

func provideHealthHandler() *handlers.HealthHandler {
	return handlers.NewHealthHandler()
}

func provideWorkspacesHandler(log *slog.Logger, service *workspaces.Service, resolver *tenant.Resolver, mw tenantMiddleware) *handlers.WorkspacesHandler {
	return handlers.NewWorkspacesHandler(log, service, resolver, echo.MiddlewareFunc(mw))
}

func provideClientsHandler(log *slog.Logger, service *clients.Service, mw tenantMiddleware) *handlers.ClientsHandler {
	return handlers.NewClientsHandler(log, service, echo.MiddlewareFunc(mw))
}

func provideCampaignsHandler(log *slog.Logger, service *campaigns.Service, mw tenantMiddleware) *handlers.CampaignsHandler {
	return handlers.NewCampaignsHandler(log, service, echo.MiddlewareFunc(mw))
}

func provideDebtsHandler(log *slog.Logger, service *debts.Service, linkService *links.Service, mw tenantMiddleware) *handlers.DebtsHandler {
	return handlers.NewDebtsHandler(log, service, linkService, echo.MiddlewareFunc(mw))
}
