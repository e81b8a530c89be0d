package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RouterDeps is everything the HTTP surface needs. Metrics is optional.
type RouterDeps struct {
	Listings       ListingService
	Favorites      FavoriteService
	Users          UserService
	Staging        Stager
	JWTSecret      string
	MaxUploadBytes int64
	Metrics        RequestObserver
	Logger         *logger.Logger
}

func NewRouter(d RouterDeps) http.Handler {
	log := d.Logger.Named("http")
	listings := NewListingHandler(d.Listings, d.Staging, d.MaxUploadBytes, log)
	favorites := NewFavoriteHandler(d.Favorites, log)
	users := NewUserHandler(d.Users, log)
	auth := JWTAuth(d.JWTSecret, log)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware(log))
	r.Use(TracingMiddleware)
	if d.Metrics != nil {
		r.Use(MetricsMiddleware(d.Metrics))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, envelope{Status: "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/pgs", func(r chi.Router) {
			r.Get("/", listings.List)
			r.Post("/search", listings.Search)
			r.Get("/{id}", listings.Get)

			r.Group(func(r chi.Router) {
				r.Use(auth)
				r.Post("/", listings.Create)
				r.Patch("/{id}", listings.Update)
				r.Delete("/{id}", listings.Delete)
				r.Post("/{id}/images", listings.AddImages)
			})
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Use(auth)
			r.Get("/", favorites.List)
			r.Post("/", favorites.Add)
			r.Delete("/{listingID}", favorites.Remove)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth)
			r.Get("/me", users.GetMe)
			r.Patch("/me", users.UpdateMe)

			r.Group(func(r chi.Router) {
				r.Use(RequireRole(log, domain.RoleAdmin))
				r.Get("/", users.List)
				r.Post("/", users.Create)
				r.Get("/{id}", users.Get)
				r.Patch("/{id}", users.Update)
				r.Delete("/{id}", users.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, log, fmt.Errorf("route %s %w", r.URL.Path, domain.ErrNotFound))
	})
	return r
}

type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

func NewServer(port string, handler http.Handler, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log.Named("HTTPServer"),
	}
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", zap.String("address", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server")
	return s.httpServer.Shutdown(ctx)
}
