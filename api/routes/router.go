package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/verdantmarkets/carbonledger-backend/api/controllers"
	"github.com/verdantmarkets/carbonledger-backend/api/middleware"
	"github.com/verdantmarkets/carbonledger-backend/internal/auth"
	"github.com/verdantmarkets/carbonledger-backend/internal/balances"
	"github.com/verdantmarkets/carbonledger-backend/internal/companies"
	"github.com/verdantmarkets/carbonledger-backend/internal/inbox"
	"github.com/verdantmarkets/carbonledger-backend/internal/proposals"
	"github.com/verdantmarkets/carbonledger-backend/internal/settlement"
	"github.com/verdantmarkets/carbonledger-backend/pkg/auth/session"
	"github.com/verdantmarkets/carbonledger-backend/pkg/config"
	"github.com/verdantmarkets/carbonledger-backend/pkg/db"
	"github.com/verdantmarkets/carbonledger-backend/pkg/logger"
	redisclient "github.com/verdantmarkets/carbonledger-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	database db.Pinger,
	cache redisclient.Pinger,
	sessions sessionManager,
	authService auth.Service,
	registerService auth.RegisterService,
	balanceService balances.Service,
	proposalService proposals.Service,
	settlementService settlement.Service,
	inboxService inbox.Service,
	companyRepo companies.Repository,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, database, cache, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(authService, logg))
		r.Post("/register", controllers.AuthRegister(registerService, authService, logg))
		r.Post("/logout", controllers.AuthLogout(sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(sessions, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))

		r.Get("/companies", controllers.CompaniesList(companyRepo, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/balance", controllers.BalanceShow(balanceService, logg))
			r.Get("/alerts", controllers.AlertsList(proposalService, logg))
			r.Get("/inbox/{proposalId}", controllers.InboxEntryShow(inboxService, logg))
			r.Post("/inbox/{proposalId}/viewed", controllers.InboxMarkViewed(inboxService, logg))

			r.Route("/proposals", func(r chi.Router) {
				r.Get("/", controllers.ProposalListMine(proposalService, logg))
				r.Post("/", controllers.ProposalCreate(proposalService, logg))
				r.Get("/received", controllers.ProposalListReceived(proposalService, logg))
				r.Get("/{proposalId}", controllers.ProposalShow(proposalService, logg))
				r.Patch("/{proposalId}", controllers.ProposalUpdate(proposalService, logg))
				r.Delete("/{proposalId}", controllers.ProposalDelete(proposalService, logg))
				r.Post("/{proposalId}/decision", controllers.ProposalDecide(settlementService, logg))
			})
		})
	})

	return r
}
