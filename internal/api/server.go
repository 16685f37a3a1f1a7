package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/caselight/caselight/internal/auth"
	"github.com/caselight/caselight/internal/compare"
	"github.com/caselight/caselight/internal/storage"
)

// ServerConfig holds the server dependencies
type ServerConfig struct {
	DB        *sql.DB
	JWTSecret string
}

type Server struct {
	router *chi.Mux

	authService    auth.Service
	compareService *compare.Service
	sourceRepo     storage.SourceRepository
	comparisonRepo storage.ComparisonRepository
	matterRepo     storage.MatterRepository
}

func NewServer(config ServerConfig) *Server {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authConfig := auth.DefaultConfig()
	if config.JWTSecret != "" {
		authConfig.SecretKey = config.JWTSecret
	}

	sourceRepo := storage.NewPostgresSourceRepository(config.DB)

	s := &Server{
		router:         r,
		authService:    auth.NewJWTService(authConfig, auth.NewPostgresRepository(config.DB)),
		compareService: compare.NewService(&storageFetcher{sources: sourceRepo}, compare.NewMemoryCache(), compare.DefaultConfig()),
		sourceRepo:     sourceRepo,
		comparisonRepo: storage.NewPostgresComparisonRepository(config.DB),
		matterRepo:     storage.NewPostgresMatterRepository(config.DB),
	}
	s.setupRoutes()

	return s
}

// storageFetcher adapts the source repository to the fetcher interface
// the comparison service consumes.
type storageFetcher struct {
	sources storage.SourceRepository
}

func (f *storageFetcher) FetchSource(ctx context.Context, sourceType string, id int) (*compare.ResolvedSource, error) {
	src, err := f.sources.Resolve(ctx, sourceType, id)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, nil
	}
	return &compare.ResolvedSource{Text: src.Text, Citation: src.Citation}, nil
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.Get("/health", s.handleHealth)

	// API v1
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.authService))

			// Matters
			r.Route("/matters", func(r chi.Router) {
				r.Get("/", s.handleListMatters)
				r.Post("/", s.handleCreateMatter)
				r.Delete("/{matterID}", s.handleDeleteMatter)
				r.Get("/{matterID}/comparisons", s.handleListComparisons)
			})

			// Comparisons
			r.Route("/comparisons", func(r chi.Router) {
				r.Post("/", s.handleCreateComparison)
				r.Get("/{comparisonID}", s.handleGetComparison)
				r.Post("/{comparisonID}/conflicts/{conflictIndex}/resolve", s.handleResolveConflict)
			})

			// Clause-version comparison
			r.Post("/clauses/compare", s.handleCompareClauses)

			// Sources
			r.Route("/sources", func(r chi.Router) {
				r.Get("/{sourceType}/{sourceID}", s.handleGetSource)
				r.Get("/{sourceType}/{sourceID}/similar", s.handleFindSimilarSources)
			})
		})
	})
}

func (s *Server) Run(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
