package apiapp

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/TomShtern/Date-Program-sub005/internal/config"
	dailysvc "github.com/TomShtern/Date-Program-sub005/internal/services/daily"
	"github.com/TomShtern/Date-Program-sub005/internal/services/discovery"
	matchessvc "github.com/TomShtern/Date-Program-sub005/internal/services/matches"
	sessionsvc "github.com/TomShtern/Date-Program-sub005/internal/services/sessions"
	swipesvc "github.com/TomShtern/Date-Program-sub005/internal/services/swipes"
	undosvc "github.com/TomShtern/Date-Program-sub005/internal/services/undo"
	"github.com/TomShtern/Date-Program-sub005/internal/transport/http/handlers"
)

type Dependencies struct {
	DiscoveryService *discovery.Service
	SwipeService     *swipesvc.Service
	MatchService     *matchessvc.Service
	UndoService      *undosvc.Service
	DailyService     *dailysvc.Service
	SessionService   *sessionsvc.Service
	Logger           *zap.Logger
	Config           config.Config
}

func RegisterRoutes(r chi.Router, deps Dependencies) {
	healthHandler := handlers.NewHealthHandler()
	candidatesHandler := handlers.NewCandidatesHandler(deps.DiscoveryService, deps.Config.Matching.DiscoveryLimit)
	swipeHandler := handlers.NewSwipeHandler(deps.SwipeService)
	matchesHandler := handlers.NewMatchesHandler(deps.MatchService)
	undoHandler := handlers.NewUndoHandler(deps.UndoService)
	dailyHandler := handlers.NewDailyHandler(deps.DailyService)
	sessionHandler := handlers.NewSessionHandler(deps.SessionService)
	identityMW := IdentityMiddleware(deps.Logger)

	r.Get("/healthz", healthHandler.Get)

	r.Route("/v1", func(r chi.Router) {
		r.Use(identityMW)

		r.Get("/candidates", candidatesHandler.List)
		r.Post("/swipes", swipeHandler.Handle)
		r.Get("/undo", undoHandler.CanUndo)
		r.Post("/undo", undoHandler.Undo)
		r.Get("/daily", dailyHandler.Pick)
		r.Post("/daily/viewed", dailyHandler.MarkViewed)
		r.Get("/matches", matchesHandler.List)
		r.Post("/matches/end", matchesHandler.End)
		r.Post("/block", matchesHandler.Block)
		r.Get("/session/stats", sessionHandler.Stats)
		r.Post("/session/close", sessionHandler.Close)
	})
}
