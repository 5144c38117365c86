package modules

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/cobranzahq/cobranza/internal/campaigns"
	"github.com/cobranzahq/cobranza/internal/clients"
	"github.com/cobranzahq/cobranza/internal/config"
	"github.com/cobranzahq/cobranza/internal/debts"
	"github.com/cobranzahq/cobranza/internal/links"
	"github.com/cobranzahq/cobranza/internal/tenant"
	"github.com/cobranzahq/cobranza/internal/workspaces"
)

// DomainModule provides the stores and services behind the API.
var DomainModule = fx.Module(
	"domain",
	fx.Provide(
		fx.Annotate(tenant.NewPGStore, fx.As(new(tenant.Store))),
		tenant.NewResolver,
		workspaces.NewService,
		clients.NewService,
		campaigns.NewService,
		fx.Annotate(debts.NewPGStore, fx.As(new(debts.Store))),
		debts.NewService,
		fx.Annotate(links.NewPGStore, fx.As(new(links.Store))),
		provideLinkService,
	),
)

func provideLinkService(log *slog.Logger, store links.Store, debtService *debts.Service, cfg config.Config) *links.Service {
	return links.NewService(log, store, debtService, cfg.Links.BaseURL, cfg.Links.TokenTTL())
}
