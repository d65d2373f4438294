package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/epiqdine/epiqdine/internal/handler"
	"github.com/epiqdine/epiqdine/internal/identity"
	"github.com/epiqdine/epiqdine/internal/middleware"
	"github.com/epiqdine/epiqdine/internal/store"
	ws "github.com/epiqdine/epiqdine/internal/websocket"
)

// Config carries the server-level settings main reads from the environment.
type Config struct {
	AllowedOrigins []string
	SecureCookies  bool
}

type Server struct {
	db          *sql.DB
	cfg         Config
	hub         *ws.Hub
	verifier    identity.Verifier
	foodH       *handler.FoodHandler
	purchaseH   *handler.PurchaseHandler
	authH       *handler.AuthHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, verifier identity.Verifier, issuer *identity.Issuer, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	foodStore := store.NewFoodStore(db)
	purchaseStore := store.NewPurchaseStore(db)

	return &Server{
		db:          db,
		cfg:         cfg,
		hub:         hub,
		verifier:    verifier,
		foodH:       handler.NewFoodHandler(foodStore, hub, logger.With("component", "food")),
		purchaseH:   handler.NewPurchaseHandler(purchaseStore, hub, logger.With("component", "purchase")),
		authH:       handler.NewAuthHandler(issuer, cfg.SecureCookies, logger.With("component", "auth")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(s.verifier)
	ownEmail := middleware.RequireOwnEmail

	mux.HandleFunc("GET /{$}", s.rootHandler)
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("POST /jwt", s.rateLimited(s.authH.IssueToken))

	// Listings
	mux.HandleFunc("POST /addfood", s.foodH.Create)
	mux.HandleFunc("GET /addfood", s.foodH.ListTop)
	mux.HandleFunc("GET /addfood/all-food", s.foodH.ListAll)
	mux.Handle("GET /addfood/all-food/{email}", requireAuth(ownEmail(http.HandlerFunc(s.foodH.ListByOwner))))
	mux.HandleFunc("GET /getfood/{id}", s.foodH.Get)
	mux.Handle("PUT /update/myfood/{id}", requireAuth(http.HandlerFunc(s.foodH.Update)))
	mux.HandleFunc("PATCH /update/purchasecount/{id}", s.foodH.IncrementPurchaseCount)

	// Purchase records
	mux.HandleFunc("POST /purchasefood", s.purchaseH.Create)
	mux.HandleFunc("GET /purchasefood", s.purchaseH.List)
	mux.Handle("GET /purchasefood/{email}", requireAuth(ownEmail(http.HandlerFunc(s.purchaseH.ListByEmail))))
	mux.HandleFunc("DELETE /deleteOrder/{id}", s.purchaseH.Delete)

	// Change feed
	mux.HandleFunc("GET /ws", ws.Handle(s.hub, originPatterns(s.cfg.AllowedOrigins), s.logger.With("component", "websocket")))

	var h http.Handler = mux
	h = middleware.Recover(s.logger.With("component", "recover"))(h)
	h = middleware.CORS(s.cfg.AllowedOrigins)(h)
	h = middleware.RequestLogger(s.logger.With("component", "http"))(h)
	return h
}

func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Restaurant server is running"))
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}

// originPatterns converts configured origins (with scheme) into the host
// patterns the websocket accept check expects.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		if u, err := url.Parse(origin); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, origin)
	}
	return patterns
}
