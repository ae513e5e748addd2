package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/TomShtern/Date-Program-sub005/internal/config"
	"github.com/TomShtern/Date-Program-sub005/internal/jobs/cleanup"
	pgrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/postgres"
	redrepo "github.com/TomShtern/Date-Program-sub005/internal/repo/redis"
	dailysvc "github.com/TomShtern/Date-Program-sub005/internal/services/daily"
	"github.com/TomShtern/Date-Program-sub005/internal/services/discovery"
	matchessvc "github.com/TomShtern/Date-Program-sub005/internal/services/matches"
	ratesvc "github.com/TomShtern/Date-Program-sub005/internal/services/rate"
	"github.com/TomShtern/Date-Program-sub005/internal/services/scoring"
	sessionsvc "github.com/TomShtern/Date-Program-sub005/internal/services/sessions"
	swipesvc "github.com/TomShtern/Date-Program-sub005/internal/services/swipes"
	undosvc "github.com/TomShtern/Date-Program-sub005/internal/services/undo"
)

const (
	cleanupInterval = time.Hour
	staleSessionAge = 24 * time.Hour
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	rateRepo := redrepo.NewRateRepo(redisClient)
	undoRepo := redrepo.NewUndoRepo(redisClient)
	swipeRepo := pgrepo.NewSwipeRepo(pool)
	matchRepo := pgrepo.NewMatchRepo(pool)
	blockRepo := pgrepo.NewBlockRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	sessionRepo := pgrepo.NewSessionRepo(pool)
	dailyPickRepo := pgrepo.NewDailyPickRepo(pool)

	scoringEngine, err := scoring.NewEngine(scoring.Config{
		Weights: scoring.Weights{
			Distance:  cfg.Matching.Weights.Distance,
			Age:       cfg.Matching.Weights.Age,
			Interests: cfg.Matching.Weights.Interests,
			Lifestyle: cfg.Matching.Weights.Lifestyle,
			Pace:      cfg.Matching.Weights.Pace,
			Latency:   cfg.Matching.Weights.Latency,
		},
		Latency: scoring.LatencyBuckets{
			Hour:  cfg.Matching.LatencyBuckets.Hour,
			Day:   cfg.Matching.LatencyBuckets.Day,
			Week:  cfg.Matching.LatencyBuckets.Week,
			Month: cfg.Matching.LatencyBuckets.Month,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create scoring engine: %w", err)
	}

	discoveryService := discovery.NewService(discovery.Dependencies{
		Profiles:  profileRepo,
		Relations: swipeRepo,
		Blocks:    blockRepo,
		Engine:    scoringEngine,
	})
	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Matching.Rate.SwipesPerMinute,
		cfg.Matching.Rate.SwipesPer10Sec,
	)
	undoService := undosvc.NewService(undosvc.Dependencies{
		Pool:         pool,
		Records:      undoRepo,
		SwipeStore:   swipeRepo,
		MatchStore:   matchRepo,
		SessionStore: sessionRepo,
	})
	swipeService := swipesvc.NewService(swipesvc.Dependencies{
		Pool:         pool,
		SwipeStore:   swipeRepo,
		MatchStore:   matchRepo,
		SessionStore: sessionRepo,
		UndoRecorder: undoService,
		RateLimiter:  rateLimiter,
	}, swipesvc.Config{
		StripeCount: cfg.Matching.StripeCount,
		UndoWindow:  cfg.Matching.UndoWindow,
	})
	matchesService := matchessvc.NewService(matchessvc.Dependencies{
		Pool:       pool,
		MatchStore: matchRepo,
		BlockStore: blockRepo,
	})
	dailyService := dailysvc.NewService(dailysvc.Dependencies{
		Pool:      pool,
		PickStore: dailyPickRepo,
		Finder:    discoveryService,
	}, dailysvc.Config{
		Retention: cfg.Matching.DailyRetention,
	})
	sessionService := sessionsvc.NewService(sessionRepo)
	cleanupJob := cleanup.NewStaleSessionJob(sessionRepo, staleSessionAge, log)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		DiscoveryService: discoveryService,
		SwipeService:     swipeService,
		MatchService:     matchesService,
		UndoService:      undoService,
		DailyService:     dailyService,
		SessionService:   sessionService,
		Logger:           log,
		Config:           cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		cleanupJob: cleanupJob,
		httpRouter: r,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// RunCleanup drives the stale-session job until ctx is cancelled. Skipped
// when postgres never came up.
func (a *App) RunCleanup(ctx context.Context) {
	if a.cleanupJob == nil || a.postgres == nil {
		return
	}

	if err := a.cleanupJob.Run(ctx); err != nil {
		a.logger.Warn("retention job failed", zap.Error(err))
	}

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.cleanupJob.Run(ctx); err != nil {
				a.logger.Warn("retention job failed", zap.Error(err))
			}
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
