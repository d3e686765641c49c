// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/gacha/internal/adapters/http/swagger"
	service "github.com/okian/gacha/internal/app"
	"github.com/okian/gacha/internal/domain/collection"
	"github.com/okian/gacha/internal/domain/model"
	"github.com/okian/gacha/pkg/logger"
	"github.com/okian/gacha/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Ready reports whether a dataset is loaded and its card count.
	Ready() (int, bool)

	// Read operations expose the dataset.
	Metadata(ctx context.Context) (model.Metadata, error)
	Cards(ctx context.Context, f service.CardFilter) ([]model.Card, error)
	Card(ctx context.Context, id string) (model.Card, error)
	PlayerCards(ctx context.Context, playerID string) ([]model.Card, error)
	Careers(ctx context.Context, limit int) ([]model.Career, error)
	Career(ctx context.Context, playerID string) (model.Career, error)

	// Collection operations.
	Draw(ctx context.Context, collector string) (service.DrawResult, error)
	Collection(ctx context.Context, collector string) (service.CollectionView, error)
	OwnedCards(ctx context.Context, collector string) ([]model.Card, error)
	ResetCollection(ctx context.Context, collector string) error
	Challenges(ctx context.Context, collector string) ([]collection.Progress, error)

	Battle(ctx context.Context, ids []string) (service.BattleResult, error)
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithRateLimit sets the per-client rate of draw and battle requests. A
// non-positive rate disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = NewClientRateLimiter(perSecond, max(burst, 1))
	}
}

// WithLogger sets the logger for request logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	cardsHandler      *CardsHandler
	collectionHandler *CollectionHandler
	battleHandler     *BattleHandler

	limiter *ClientRateLimiter
	logger  logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:     NewHealthHandler(deps),
		statsHandler:      NewStatsHandler(deps),
		cardsHandler:      NewCardsHandler(deps),
		collectionHandler: NewCollectionHandler(deps),
		battleHandler:     NewBattleHandler(deps),
		limiter:           NewClientRateLimiter(20, 40),
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns a router with every endpoint registered.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Use(RequestIDMiddleware(s.logger))
	r.Use(MetricsMiddleware)

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	r.Get("/stats", s.statsHandler.HandleStats)
	swagger.Register(r)

	r.Get("/metadata", s.cardsHandler.HandleMetadata)
	r.Get("/cards", s.cardsHandler.HandleListCards)
	r.Get("/cards/{id}", s.cardsHandler.HandleGetCard)
	r.Get("/players/{playerId}/cards", s.cardsHandler.HandlePlayerCards)
	r.Get("/careers", s.cardsHandler.HandleListCareers)
	r.Get("/careers/{playerId}", s.cardsHandler.HandleGetCareer)

	r.Route("/collections/{collector}", func(r chi.Router) {
		r.Get("/", s.collectionHandler.HandleGetCollection)
		r.Delete("/", s.collectionHandler.HandleResetCollection)
		r.Get("/cards", s.collectionHandler.HandleOwnedCards)
		r.Get("/challenges", s.collectionHandler.HandleChallenges)
		r.With(RateLimitMiddleware(s.limiter)).Post("/draw", s.collectionHandler.HandleDraw)
	})

	r.With(RateLimitMiddleware(s.limiter)).Post("/battle", s.battleHandler.HandleBattle)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// fail writes err with the status its kind maps to.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		requestLogger(r.Context()).Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, status, code, err)
}
